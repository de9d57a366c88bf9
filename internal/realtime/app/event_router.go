package app

import (
	"encoding/json"
	"sync"
	"time"

	"chat_web_service/internal/realtime/domain"
	"chat_web_service/internal/realtime/repository"
	"chat_web_service/pkg/logger"

	"go.uber.org/zap"
)

// EventRouter 將下行 frame 分派成對應的狀態變更
// Dispatch 由 read loop 逐筆同步呼叫, 因此 frame 到達順序即套用順序
type EventRouter struct {
	state repository.ChatStateRepository

	// typingTTL > 0 時, typing 狀態超時自動清除 (可配置策略, 預設關閉)
	typingTTL time.Duration

	mu           sync.Mutex
	typingTimers map[string]*time.Timer // roomID + "/" + userID
}

// NewEventRouter create EventRouter
func NewEventRouter(state repository.ChatStateRepository, typingTTL time.Duration) *EventRouter {
	return &EventRouter{
		state:        state,
		typingTTL:    typingTTL,
		typingTimers: map[string]*time.Timer{},
	}
}

// Dispatch 解碼一筆 frame 並套用到 state
// 無法解析或未知 type 一律丟棄, 保持對協議演進的容錯
func (r *EventRouter) Dispatch(raw []byte) {
	var frame domain.InboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		logger.Log.Warn("drop malformed frame", zap.Error(err))
		return
	}

	switch frame.Type {
	case domain.FrameMessage:
		r.onMessage(frame)
	case domain.FrameTyping:
		r.onTyping(frame)
	case domain.FrameRoomUpdate:
		r.onRoomUpdate(frame)
	default:
		logger.Log.Debug("drop unknown frame type", zap.String("type", string(frame.Type)))
	}
}

// onMessage 聊天訊息: 先嘗試對應樂觀訊息, 否則追加
func (r *EventRouter) onMessage(frame domain.InboundFrame) {
	var p domain.MessagePayload
	if err := json.Unmarshal(frame.Payload, &p); err != nil {
		logger.Log.Warn("drop malformed message payload", zap.Error(err))
		return
	}

	msg := domain.ChatMessage{
		ID:         p.ID,
		RoomID:     p.RoomID,
		SenderID:   p.UserID,
		SenderName: p.Username,
		Content:    p.Content,
		Timestamp:  p.Timestamp,
		Status:     domain.MessageSent,
	}

	// server 回帶 clientMsgId 時視為本次樂觀發送的確認
	if r.state.ConfirmMessage(p.ClientMsgID, msg) {
		return
	}
	r.state.AddMessage(msg)
}

// onTyping typing 狀態變更
func (r *EventRouter) onTyping(frame domain.InboundFrame) {
	r.state.SetUserTyping(frame.RoomID, frame.UserID, frame.IsTyping)

	if r.typingTTL <= 0 {
		return
	}

	key := frame.RoomID + "/" + frame.UserID

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.typingTimers[key]; ok {
		t.Stop()
		delete(r.typingTimers, key)
	}
	if !frame.IsTyping {
		return
	}

	roomID, userID := frame.RoomID, frame.UserID
	r.typingTimers[key] = time.AfterFunc(r.typingTTL, func() {
		r.state.SetUserTyping(roomID, userID, false)
		r.mu.Lock()
		delete(r.typingTimers, key)
		r.mu.Unlock()
	})
}

// onRoomUpdate 房間整筆替換
func (r *EventRouter) onRoomUpdate(frame domain.InboundFrame) {
	var p domain.RoomPayload
	if err := json.Unmarshal(frame.Payload, &p); err != nil {
		logger.Log.Warn("drop malformed room payload", zap.Error(err))
		return
	}

	r.state.AddOrReplaceRoom(domain.ChatRoom{
		ID:           p.ID,
		Name:         p.Name,
		LastMessage:  p.LastMessage,
		LastActivity: p.LastActivity,
		UnreadCount:  p.UnreadCount,
		Online:       p.Online,
	})
}
