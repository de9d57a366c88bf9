package app

import (
	"encoding/json"
	"time"

	"chat_web_service/internal/realtime/domain"
	"chat_web_service/internal/realtime/repository"
	"chat_web_service/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SendMessageUseCase 負責樂觀發送聊天訊息
type SendMessageUseCase struct {
	state repository.ChatStateRepository
	conn  *ConnectionUseCase

	// senderID 目前登入者, 樂觀訊息掛在他名下
	senderID   string
	senderName string
}

// NewSendMessageUseCase init send message use case
func NewSendMessageUseCase(state repository.ChatStateRepository, conn *ConnectionUseCase) *SendMessageUseCase {
	return &SendMessageUseCase{
		state: state,
		conn:  conn,
	}
}

// SetSender 設定訊息發送者 (登入後由 session 提供)
func (uc *SendMessageUseCase) SetSender(senderID, senderName string) {
	uc.senderID = senderID
	uc.senderName = senderName
}

// Execute 發送訊息
// 未連線或無 active 房間時直接忽略 (不排隊, 不報錯)
// 樂觀訊息先進 state 再送出; 送出失敗標記 failed, 錯誤回傳給呼叫端重送
// 這裡不負責標記 sent, 確認由 server 回帶 clientMsgId 的 message event 完成
func (uc *SendMessageUseCase) Execute(content string) error {
	roomID := uc.state.ActiveRoomID()
	if uc.conn.State() != domain.ConnConnected || roomID == "" {
		logger.Log.Debug("send skipped: no connection or active room",
			zap.String("room", roomID))
		return nil
	}

	// 1. 配置本地唯一 id, 與 server UUID 格式區隔
	localID := domain.LocalIDPrefix + uuid.NewString()

	// 2. 樂觀寫入, UI 立即可見
	uc.state.AddMessage(domain.ChatMessage{
		ID:         localID,
		RoomID:     roomID,
		SenderID:   uc.senderID,
		SenderName: uc.senderName,
		Content:    content,
		Timestamp:  time.Now().Unix(),
		Status:     domain.MessagePending,
	})

	// 3. 序列化並送出
	data, err := json.Marshal(domain.OutboundFrame{
		Type:        string(domain.FrameMessage),
		RoomID:      roomID,
		Content:     content,
		ClientMsgID: localID,
	})
	if err != nil {
		uc.state.UpdateMessageStatus(localID, domain.MessageFailed)
		return err
	}

	if err := uc.conn.WriteFrame(data); err != nil {
		uc.state.UpdateMessageStatus(localID, domain.MessageFailed)
		return err
	}

	return nil
}

// Resend 重送 failed 訊息: 原樣重建一則新的樂觀訊息
func (uc *SendMessageUseCase) Resend(messageID string) error {
	for _, msg := range uc.state.Messages() {
		if msg.ID == messageID && msg.Status == domain.MessageFailed {
			return uc.Execute(msg.Content)
		}
	}
	return nil
}
