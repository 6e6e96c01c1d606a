package utils

import (
	"io"
	"log"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerConfig определяет конфигурацию для логгера
type LoggerConfig struct {
	// Путь к файлу логов; пустая строка — вывод в stdout
	File string
	// Включить/выключить цвета для консоли
	EnableColors bool
}

// InitLogger инициализирует и возвращает логгер.
// Если задан файл, пишем в него с ротацией через lumberjack.
func InitLogger(config ...LoggerConfig) *log.Logger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
	}

	prefix := "[CoachHub] "
	if cfg.EnableColors && cfg.File == "" {
		prefix = "\033[36m" + prefix + "\033[0m" // Голубой цвет
	}

	return log.New(out, prefix, log.LstdFlags|log.LUTC)
}
