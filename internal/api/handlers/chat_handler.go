package handlers

import (
	realtimeapp "chat_web_service/internal/realtime/app"
	"chat_web_service/internal/realtime/repository"
	sessionapp "chat_web_service/internal/session/app"
	"chat_web_service/pkg/config"

	"github.com/gofiber/fiber/v2"
)

// ChatHandler 對渲染層暴露聊天狀態與四個公開操作
// 核心失敗一律落在狀態欄位 (status, connected), 不往外拋例外
type ChatHandler struct {
	state     repository.ChatStateRepository
	connUC    *realtimeapp.ConnectionUseCase
	sendUC    *realtimeapp.SendMessageUseCase
	sessionUC sessionapp.SessionUseCase
	socket    config.SocketConfig
}

// NewChatHandler 建立新的 ChatHandler
func NewChatHandler(
	state repository.ChatStateRepository,
	connUC *realtimeapp.ConnectionUseCase,
	sendUC *realtimeapp.SendMessageUseCase,
	sessionUC sessionapp.SessionUseCase,
	socket config.SocketConfig,
) *ChatHandler {
	return &ChatHandler{
		state:     state,
		connUC:    connUC,
		sendUC:    sendUC,
		sessionUC: sessionUC,
		socket:    socket,
	}
}

// Connect 以目前憑證開啟 realtime 連線
func (h *ChatHandler) Connect(c *fiber.Ctx) error {
	tok := h.sessionUC.Token(c.Context())
	if tok == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not authenticated"})
	}

	if sess, err := h.sessionUC.Current(c.Context()); err == nil {
		h.sendUC.SetSender(sess.User.ID, sess.User.Name)
	}

	if err := h.connUC.Connect(c.Context(), h.socket.Endpoint, tok); err != nil {
		// 連線失敗反映在 connected 旗標, 回應本身不帶 5xx
		return c.JSON(fiber.Map{"connected": false})
	}
	return c.JSON(fiber.Map{"connected": h.state.IsConnected()})
}

// Disconnect 主動關閉 realtime 連線 (不觸發自動重連)
func (h *ChatHandler) Disconnect(c *fiber.Ctx) error {
	h.connUC.Disconnect()
	return c.JSON(fiber.Map{"connected": false})
}

// SendMessage 樂觀發送訊息
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	type request struct {
		Content string `json:"content"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	// 傳輸失敗已在 state 標為 failed, 渲染層從訊息列表看到結果
	_ = h.sendUC.Execute(req.Content)
	return c.JSON(fiber.Map{"messages": h.state.Messages()})
}

// SetActiveRoom 切換 active 房間 (未讀同時歸零)
func (h *ChatHandler) SetActiveRoom(c *fiber.Ctx) error {
	type request struct {
		RoomID string `json:"room_id"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil || req.RoomID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}

	h.state.SetActiveRoom(req.RoomID)
	return c.JSON(fiber.Map{"active_room_id": req.RoomID})
}

// Messages 訊息快照 (append 順序)
func (h *ChatHandler) Messages(c *fiber.Ctx) error {
	return c.JSON(h.state.Messages())
}

// Rooms 房間快照
func (h *ChatHandler) Rooms(c *fiber.Ctx) error {
	return c.JSON(h.state.Rooms())
}

// Typing 某房間 typing 中的使用者
func (h *ChatHandler) Typing(c *fiber.Ctx) error {
	roomID := c.Query("room_id")
	if roomID == "" {
		roomID = h.state.ActiveRoomID()
	}
	return c.JSON(h.state.TypingUsers(roomID))
}

// Status 連線狀態與 active 房間
func (h *ChatHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"connected":      h.state.IsConnected(),
		"state":          h.connUC.State(),
		"active_room_id": h.state.ActiveRoomID(),
	})
}
