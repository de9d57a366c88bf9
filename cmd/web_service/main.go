package main

import (
	"fmt"
	"log"
	"os"

	"chat_web_service/internal/api/handlers"
	"chat_web_service/internal/api/router"
	realtimeapp "chat_web_service/internal/realtime/app"
	realtimerepo "chat_web_service/internal/realtime/repository"
	sessionapp "chat_web_service/internal/session/app"
	sessiondomain "chat_web_service/internal/session/domain"
	sessionrepo "chat_web_service/internal/session/repository"
	"chat_web_service/pkg/config"
	"chat_web_service/pkg/database"
	"chat_web_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.WebService, config.EnvConfig.WebServiceLogPath)
	cfg := config.LoadConfig[config.WebService](config.EnvConfig.WebService, config.EnvConfig.WebServiceYAMLPath)

	// 1. 建立 Redis 連線 (session 持久化)
	masterName, sentinel := config.GetRedisSetting()
	sessionRepo, err := database.NewRedisRepository[sessiondomain.Session](masterName, sentinel, cfg.RedisSession.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}

	// 2. 初始化 session (憑證持有者)
	authRepo := sessionrepo.NewAuthRepository(cfg.AuthService.URL)
	sessionUC := sessionapp.NewSessionUseCase(authRepo, sessionRepo, cfg.SessionTTL)

	// 3. 初始化 realtime 核心
	// state 是聊天資料唯一寫入端, 依注入傳遞, 不做全域 singleton
	state := realtimerepo.NewChatStateRepository()
	eventRouter := realtimeapp.NewEventRouter(state, cfg.Socket.TypingTTL)
	connUC := realtimeapp.NewConnectionUseCase(state, eventRouter, realtimeapp.NewWebsocketDialer(), cfg.Socket.ReconnectDelay)
	sendUC := realtimeapp.NewSendMessageUseCase(state, connUC)

	// 4. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.WebServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	// 註冊路由
	router.RegisterRoutes(r,
		handlers.NewAuthHandler(sessionUC),
		handlers.NewChatHandler(state, connUC, sendUC, sessionUC, cfg.Socket),
	)

	// Listen
	port := ":" + cfg.Port
	log.Printf("Chat Web Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
