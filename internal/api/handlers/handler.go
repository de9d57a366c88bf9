package handlers

import (
	"strconv"

	"chat_web_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// ConnectCheck check web service start
func ConnectCheck(c *fiber.Ctx) error {
	return c.SendString("chat web service start!")
}

// DebugLogFlag toggle debug log flag
func DebugLogFlag(c *fiber.Ctx) error {
	status, err := strconv.ParseBool(c.Query("status"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid status value")
	}

	logger.Log.SetDebugMode(status)
	return c.SendString("debug mode updated")
}
