package handlers

import (
	"errors"

	sessionapp "chat_web_service/internal/session/app"
	"chat_web_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler 處理登入相關的 HTTP 請求
type AuthHandler struct {
	sessionUC sessionapp.SessionUseCase
}

// NewAuthHandler 建立新的 AuthHandler
func NewAuthHandler(sessionUC sessionapp.SessionUseCase) *AuthHandler {
	return &AuthHandler{sessionUC: sessionUC}
}

// Login 登入
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	logger.Log.Debug("Login request", zap.String("email", req.Email))

	sess, err := h.sessionUC.Login(c.Context(), req.Email, req.Password)
	if errors.Is(err, sessionapp.ErrEmailNotVerified) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":                      err.Error(),
			"pending_verification_email": sess.PendingVerificationEmail,
		})
	}
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(sess)
}

// Register 註冊
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	type request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.sessionUC.Register(c.Context(), req.Name, req.Email, req.Password); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "register success, please verify your email"})
}

// VerifyEmail OTP 驗證
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	type request struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	sess, err := h.sessionUC.VerifyEmail(c.Context(), req.Email, req.OTP)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(sess)
}

// ResendOTP 重發驗證碼
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	type request struct {
		Email string `json:"email"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	if err := h.sessionUC.ResendOTP(c.Context(), req.Email); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"message": "otp sent"})
}

// RefreshToken 換新 access token
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	if err := h.sessionUC.RefreshAccessToken(c.Context()); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "token refreshed"})
}

// Logout 登出
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessionUC.Logout(c.Context())
	return c.JSON(fiber.Map{"message": "logout success"})
}
