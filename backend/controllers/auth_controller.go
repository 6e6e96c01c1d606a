package controllers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"coachhub/backend/config"
	"coachhub/backend/models"
	"coachhub/backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	DB     *gorm.DB
	Cfg    *config.Config
	Logger *log.Logger
	Mailer utils.Mailer
}

func NewAuthController(db *gorm.DB, cfg *config.Config, logger *log.Logger, mailer utils.Mailer) *AuthController {
	return &AuthController{DB: db, Cfg: cfg, Logger: logger, Mailer: mailer}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a coach or client account
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	type RegisterInput struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	var input RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Email == "" || input.Password == "" {
		return utils.BadRequest(c, "Email and password are required")
	}

	// Админов создают только существующие админы, не через регистрацию
	if input.Role != "coach" && input.Role != "client" {
		input.Role = "client"
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		ac.Logger.Printf("register: hash password: %v", err)
		return utils.InternalServerError(c)
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         input.Role,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		ac.Logger.Printf("register: create user: %v", err)
		return utils.BadRequest(c, "Could not create user")
	}

	// Клиент, которого коуч завел заранее по email, привязывается
	// к новому аккаунту при регистрации
	if user.Role == "client" {
		ac.DB.Model(&models.Client{}).
			Where("email = ? AND user_id IS NULL", user.Email).
			Update("user_id", user.ID)
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		ac.Logger.Printf("register: generate token: %v", err)
		return utils.InternalServerError(c)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	type LoginInput struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		ac.Logger.Printf("login: query user: %v", err)
		return utils.InternalServerError(c)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(user.ID, user.Role, ac.Cfg)
	if err != nil {
		ac.Logger.Printf("login: generate token: %v", err)
		return utils.InternalServerError(c)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Sends a reset token to the user's email
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /auth/forgot-password [post]
func (ac *AuthController) ForgotPassword(c *fiber.Ctx) error {
	type ForgotInput struct {
		Email string `json:"email"`
	}

	var input ForgotInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	// Ответ одинаковый независимо от того, существует ли адрес
	const reply = "If the email exists, a reset link has been sent"

	var user models.User
	if err := ac.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		return utils.Message(c, reply)
	}

	rawToken := make([]byte, 32)
	if _, err := rand.Read(rawToken); err != nil {
		ac.Logger.Printf("forgot password: generate token: %v", err)
		return utils.InternalServerError(c)
	}
	token := hex.EncodeToString(rawToken)
	hash := sha256.Sum256([]byte(token))

	reset := models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hex.EncodeToString(hash[:]),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := ac.DB.Create(&reset).Error; err != nil {
		ac.Logger.Printf("forgot password: store token: %v", err)
		return utils.InternalServerError(c)
	}

	body := fmt.Sprintf("Use this token to reset your CoachHub password: %s\nThe token expires in 1 hour.", token)
	if err := ac.Mailer.Send(user.Email, "Password reset", body); err != nil {
		ac.Logger.Printf("forgot password: send mail to %s: %v", user.Email, err)
	}

	return utils.Message(c, reply)
}

// ResetPassword godoc
// @Summary Reset password with a token
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /auth/reset-password [post]
func (ac *AuthController) ResetPassword(c *fiber.Ctx) error {
	type ResetInput struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}

	var input ResetInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if input.Token == "" || input.Password == "" {
		return utils.BadRequest(c, "Token and password are required")
	}

	hash := sha256.Sum256([]byte(input.Token))

	var reset models.PasswordResetToken
	if err := ac.DB.Where("token_hash = ? AND used_at IS NULL AND expires_at > ?",
		hex.EncodeToString(hash[:]), time.Now()).First(&reset).Error; err != nil {
		return utils.BadRequest(c, "Invalid or expired token")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		ac.Logger.Printf("reset password: hash password: %v", err)
		return utils.InternalServerError(c)
	}

	if err := ac.DB.Model(&models.User{}).Where("id = ?", reset.UserID).
		Update("password_hash", string(hashedPassword)).Error; err != nil {
		ac.Logger.Printf("reset password: update user %d: %v", reset.UserID, err)
		return utils.InternalServerError(c)
	}

	now := time.Now()
	ac.DB.Model(&reset).Update("used_at", &now)

	return utils.Message(c, "Password updated")
}
