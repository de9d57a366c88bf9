package router

import (
	"chat_web_service/internal/api/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 註冊渲染層使用的路由
func RegisterRoutes(app *fiber.App, authHandler *handlers.AuthHandler, chatHandler *handlers.ChatHandler) {
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	authRoutes := app.Group("/api/auth")
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/verify-email", authHandler.VerifyEmail)
	authRoutes.Post("/resend-otp", authHandler.ResendOTP)
	authRoutes.Post("/refresh-token", authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)

	chatRoutes := app.Group("/api/chat")
	chatRoutes.Post("/connect", chatHandler.Connect)
	chatRoutes.Post("/disconnect", chatHandler.Disconnect)
	chatRoutes.Post("/messages", chatHandler.SendMessage)
	chatRoutes.Get("/messages", chatHandler.Messages)
	chatRoutes.Put("/rooms/active", chatHandler.SetActiveRoom)
	chatRoutes.Get("/rooms", chatHandler.Rooms)
	chatRoutes.Get("/typing", chatHandler.Typing)
	chatRoutes.Get("/status", chatHandler.Status)
}
