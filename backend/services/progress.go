package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"coachhub/backend/models"
)

// Прогресс клиента считается по скользящему окну в 56 дней,
// разбитому на 8 недельных корзин.
const (
	ProgressWindowDays = 56
	progressWeeks      = 8

	CheckInDateLayout = "2006-01-02"
)

// Веса компонентов performance-оценки. Отсутствующие компоненты
// отбрасываются, а веса оставшихся нормализуются к единице.
const (
	attendanceWeight  = 0.30
	taskWeight        = 0.25
	resourceWeight    = 0.25
	consistencyWeight = 0.20
)

// WeekWindow — полуинтервал [Start, End), одна из восьми недель окна.
type WeekWindow struct {
	Label string
	Start time.Time
	End   time.Time
}

func (w WeekWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// StartOfDay обнуляет время суток, сохраняя локацию.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekWindows строит 8 недельных корзин, привязанных к now − 56 дней.
// Якорь выравнивается на начало суток UTC, чтобы границы недель
// совпадали с календарными датами чек-инов.
func WeekWindows(now time.Time) []WeekWindow {
	anchor := StartOfDay(now.UTC()).AddDate(0, 0, -ProgressWindowDays)

	windows := make([]WeekWindow, progressWeeks)
	for i := range windows {
		start := anchor.AddDate(0, 0, i*7)
		windows[i] = WeekWindow{
			Label: fmt.Sprintf("Week %d", i+1),
			Start: start,
			End:   start.AddDate(0, 0, 7),
		}
	}
	return windows
}

// NormalizeScoreKey приводит ключ карты оценок к каноническому виду.
// Оценки в чек-инах исторически писались под ключами разного регистра
// и типа ("42", 42, "ABC"/"abc"), поэтому сравнение всегда идет по
// каноническим ключам, без повторных приведений при каждом поиске.
func NormalizeScoreKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// CanonicalItemID — канонический ключ для id цели или привычки.
func CanonicalItemID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseScoreMap разбирает JSON-объект оценок из строковой колонки.
// Ключи нормализуются, нечисловые значения отбрасываются.
// При битом JSON возвращается пустая карта и ошибка: вызывающий логирует
// и продолжает расчет, считая карту пустой.
func ParseScoreMap(raw string) (map[string]float64, error) {
	scores := make(map[string]float64)
	if strings.TrimSpace(raw) == "" {
		return scores, nil
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return scores, err
	}

	for key, value := range parsed {
		if number, ok := value.(float64); ok {
			scores[NormalizeScoreKey(key)] = number
		}
	}
	return scores, nil
}

// ParsedCheckIn — чек-ин с датой и уже нормализованными картами оценок.
type ParsedCheckIn struct {
	Date        time.Time
	GoalScores  map[string]float64
	HabitScores map[string]float64
}

// ScoreMapError описывает проблему разбора одного чек-ина; собирается
// вызывающим для логирования, сам расчет при этом не прерывается.
type ScoreMapError struct {
	ClientID uint
	Date     string
	Field    string
	Err      error
}

func (e ScoreMapError) Error() string {
	return fmt.Sprintf("client %d checkin %s: bad %s: %v", e.ClientID, e.Date, e.Field, e.Err)
}

// ParseCheckIns готовит чек-ины к расчету: парсит даты и карты оценок.
// Чек-ины с нечитаемой датой пропускаются, битые карты оценок
// заменяются пустыми; все проблемы возвращаются списком.
func ParseCheckIns(checkIns []models.CheckIn) ([]ParsedCheckIn, []ScoreMapError) {
	parsed := make([]ParsedCheckIn, 0, len(checkIns))
	var problems []ScoreMapError

	for _, checkIn := range checkIns {
		date, err := time.ParseInLocation(CheckInDateLayout, checkIn.Date, time.UTC)
		if err != nil {
			problems = append(problems, ScoreMapError{checkIn.ClientID, checkIn.Date, "date", err})
			continue
		}

		goalScores, err := ParseScoreMap(checkIn.GoalScores)
		if err != nil {
			problems = append(problems, ScoreMapError{checkIn.ClientID, checkIn.Date, "goalScores", err})
		}
		habitScores, err := ParseScoreMap(checkIn.HabitScores)
		if err != nil {
			problems = append(problems, ScoreMapError{checkIn.ClientID, checkIn.Date, "habitScores", err})
		}

		parsed = append(parsed, ParsedCheckIn{
			Date:        date,
			GoalScores:  goalScores,
			HabitScores: habitScores,
		})
	}
	return parsed, problems
}

// averageItemScores усредняет оценку каждого элемента по тем чек-инам,
// где она присутствует, и возвращает список средних.
func averageItemScores(itemKeys []string, scoreMaps []map[string]float64) []float64 {
	averages := make([]float64, 0, len(itemKeys))
	for _, key := range itemKeys {
		var sum float64
		var count int
		for _, scores := range scoreMaps {
			if score, ok := scores[key]; ok {
				sum += score
				count++
			}
		}
		if count > 0 {
			averages = append(averages, sum/float64(count))
		}
	}
	return averages
}

func goalKeys(goals []models.Goal) []string {
	keys := make([]string, len(goals))
	for i, goal := range goals {
		keys[i] = CanonicalItemID(goal.ID)
	}
	return keys
}

func habitKeys(habits []models.Habit) []string {
	keys := make([]string, len(habits))
	for i, habit := range habits {
		keys[i] = CanonicalItemID(habit.ID)
	}
	return keys
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(min, max, value float64) float64 {
	return math.Max(min, math.Min(max, value))
}

// WellbeingScore считает недельное благополучие по чек-инам недели.
// Цели — положительный фактор, привычки — штраф относительно нейтральной
// середины 2.5: привычка ровно на середине не двигает оценку.
// 0 — сентинел "нет данных": ни одного чек-ина за неделю либо ни одной
// активной цели и привычки.
func WellbeingScore(goals []models.Goal, habits []models.Habit, weekCheckIns []ParsedCheckIn) float64 {
	if len(weekCheckIns) == 0 || (len(goals) == 0 && len(habits) == 0) {
		return 0
	}

	goalMaps := make([]map[string]float64, len(weekCheckIns))
	habitMaps := make([]map[string]float64, len(weekCheckIns))
	for i, checkIn := range weekCheckIns {
		goalMaps[i] = checkIn.GoalScores
		habitMaps[i] = checkIn.HabitScores
	}

	goalAverages := averageItemScores(goalKeys(goals), goalMaps)
	habitAverages := averageItemScores(habitKeys(habits), habitMaps)

	// Середина шкалы 0-5 по умолчанию, когда данных по категории нет
	positive := 3.0
	if len(goalAverages) > 0 {
		positive = mean(goalAverages)
	}
	negative := 2.5
	if len(habitAverages) > 0 {
		negative = mean(habitAverages)
	}

	return clamp(1, 10, positive-(negative-2.5)*0.5)
}

// ScoreComponent — один компонент performance-оценки.
// Value == nil означает, что компонент структурно отсутствует на этой
// неделе (нет сессий, нет задач с дедлайном, нет назначенных ресурсов).
type ScoreComponent struct {
	Name   string
	Weight float64
	Value  *float64
}

// BlendComponents смешивает присутствующие компоненты, нормализуя их веса
// к единице. Клиент без сессий и ресурсов не должен проседать из-за
// структурно пустых категорий — вес распределяется по тому, что есть.
func BlendComponents(components []ScoreComponent) float64 {
	var totalWeight float64
	for _, component := range components {
		if component.Value != nil {
			totalWeight += component.Weight
		}
	}
	if totalWeight == 0 {
		return 0
	}

	var score float64
	for _, component := range components {
		if component.Value != nil {
			score += *component.Value * (component.Weight / totalWeight)
		}
	}
	return score
}

// SessionRecord — сессия клиента (личная или через группу) в окне расчета.
type SessionRecord struct {
	Date      time.Time
	Completed bool
}

// ProgressData — все выборки по одному клиенту за 56-дневное окно.
type ProgressData struct {
	Goals             []models.Goal
	Habits            []models.Habit
	CheckIns          []ParsedCheckIn
	TaskCompletions   []time.Time
	TaskDueDates      []time.Time
	Sessions          []SessionRecord
	ResourceViews     []time.Time
	AssignedResources int64
}

type WeeklyPoint struct {
	Week             string  `json:"week"`
	Performance      float64 `json:"performance"`
	Wellbeing        float64 `json:"wellbeing"`
	CheckIns         int     `json:"checkIns"`
	TasksCompleted   int     `json:"tasksCompleted"`
	SessionsAttended int     `json:"sessionsAttended"`
	ResourcesViewed  int     `json:"resourcesViewed"`
}

type CurrentMetrics struct {
	Performance float64 `json:"performance"`
	Wellbeing   float64 `json:"wellbeing"`
}

type ProgressStats struct {
	JournalCompletionRate  int `json:"journalCompletionRate"`
	SessionAttendanceRate  int `json:"sessionAttendanceRate"`
	TotalCheckIns          int `json:"totalCheckIns"`
	TotalTasksCompleted    int `json:"totalTasksCompleted"`
	TotalSessionsAttended  int `json:"totalSessionsAttended"`
	TotalSessionsScheduled int `json:"totalSessionsScheduled"`
}

type ProgressReport struct {
	ClientID       uint           `json:"clientId"`
	ClientName     string         `json:"clientName"`
	CurrentMetrics CurrentMetrics `json:"currentMetrics"`
	WeeklyData     []WeeklyPoint  `json:"weeklyData"`
	Stats          ProgressStats  `json:"stats"`
}

// Round1 округляет оценку до одного знака перед сериализацией.
func Round1(value float64) float64 {
	return math.Round(value*10) / 10
}

func countInWindow(window WeekWindow, times []time.Time) int {
	count := 0
	for _, t := range times {
		if window.Contains(t) {
			count++
		}
	}
	return count
}

// BuildWeeklyData раскладывает выборки по 8 недельным корзинам и считает
// обе недельные оценки.
func BuildWeeklyData(data ProgressData, now time.Time) []WeeklyPoint {
	windows := WeekWindows(now)
	weekly := make([]WeeklyPoint, 0, len(windows))

	for _, window := range windows {
		var weekCheckIns []ParsedCheckIn
		for _, checkIn := range data.CheckIns {
			if window.Contains(checkIn.Date) {
				weekCheckIns = append(weekCheckIns, checkIn)
			}
		}

		var weekSessions []SessionRecord
		attended := 0
		for _, session := range data.Sessions {
			if window.Contains(session.Date) {
				weekSessions = append(weekSessions, session)
				if session.Completed {
					attended++
				}
			}
		}

		tasksCompleted := countInWindow(window, data.TaskCompletions)
		tasksDue := countInWindow(window, data.TaskDueDates)
		resourcesViewed := countInWindow(window, data.ResourceViews)

		var attendanceRate, taskRate, resourceRate *float64
		if len(weekSessions) > 0 {
			rate := float64(attended) / float64(len(weekSessions)) * 10
			attendanceRate = &rate
		}
		if tasksDue > 0 {
			rate := math.Min(float64(tasksCompleted)/float64(tasksDue)*10, 10)
			taskRate = &rate
		}
		if data.AssignedResources > 0 {
			rate := math.Min(float64(resourcesViewed)/float64(data.AssignedResources)*10, 10)
			resourceRate = &rate
		}
		// Чек-ин-последовательность присутствует всегда: 7 чек-инов в
		// неделю — подразумеваемый идеал.
		consistency := math.Min(float64(len(weekCheckIns))/7*10, 10)

		performance := BlendComponents([]ScoreComponent{
			{Name: "attendance", Weight: attendanceWeight, Value: attendanceRate},
			{Name: "tasks", Weight: taskWeight, Value: taskRate},
			{Name: "resources", Weight: resourceWeight, Value: resourceRate},
			{Name: "checkins", Weight: consistencyWeight, Value: &consistency},
		})

		weekly = append(weekly, WeeklyPoint{
			Week:             window.Label,
			Performance:      Round1(performance),
			Wellbeing:        Round1(WellbeingScore(data.Goals, data.Habits, weekCheckIns)),
			CheckIns:         len(weekCheckIns),
			TasksCompleted:   tasksCompleted,
			SessionsAttended: attended,
			ResourcesViewed:  resourcesViewed,
		})
	}
	return weekly
}

// BuildStats считает итоговую статистику по всему 56-дневному окну.
func BuildStats(data ProgressData, now time.Time) ProgressStats {
	// Последние 7 календарных дат, включая сегодня
	recentStart := StartOfDay(now.UTC()).AddDate(0, 0, -6)
	recentCheckIns := 0
	for _, checkIn := range data.CheckIns {
		if !checkIn.Date.Before(recentStart) {
			recentCheckIns++
		}
	}

	attended := 0
	for _, session := range data.Sessions {
		if session.Completed {
			attended++
		}
	}

	attendanceRate := 0
	if len(data.Sessions) > 0 {
		attendanceRate = int(math.Round(float64(attended) / float64(len(data.Sessions)) * 100))
	}

	return ProgressStats{
		JournalCompletionRate:  int(math.Round(float64(recentCheckIns) / 7 * 100)),
		SessionAttendanceRate:  attendanceRate,
		TotalCheckIns:          len(data.CheckIns),
		TotalTasksCompleted:    len(data.TaskCompletions),
		TotalSessionsAttended:  attended,
		TotalSessionsScheduled: len(data.Sessions),
	}
}

// BuildProgressReport собирает полный ответ прогресса клиента.
// now передается явно: окно привязано к моменту запроса, тесты фиксируют его.
func BuildProgressReport(clientID uint, clientName string, data ProgressData, now time.Time) ProgressReport {
	weekly := BuildWeeklyData(data, now)

	current := CurrentMetrics{}
	if len(weekly) > 0 {
		last := weekly[len(weekly)-1]
		current = CurrentMetrics{Performance: last.Performance, Wellbeing: last.Wellbeing}
	}

	return ProgressReport{
		ClientID:       clientID,
		ClientName:     clientName,
		CurrentMetrics: current,
		WeeklyData:     weekly,
		Stats:          BuildStats(data, now),
	}
}
