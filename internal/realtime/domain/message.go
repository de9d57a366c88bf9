package domain

import "strings"

// MessageStatus definition message delivery status
type MessageStatus string

const (
	// MessagePending 樂觀寫入, 尚未收到 server 確認
	MessagePending MessageStatus = "pending"
	// MessageSent server 已確認
	MessageSent MessageStatus = "sent"
	// MessageFailed 傳送失敗, 可由使用者重送
	MessageFailed MessageStatus = "failed"
)

// LocalIDPrefix 本地樂觀訊息 id 前綴, 與 server 發的 UUID 格式區隔
const LocalIDPrefix = "local-"

// ChatMessage 表示一則聊天訊息
type ChatMessage struct {
	ID         string        `json:"id"`
	RoomID     string        `json:"room_id"`
	SenderID   string        `json:"sender_id"`
	SenderName string        `json:"sender_name,omitempty"`
	Content    string        `json:"content"`
	Timestamp  int64         `json:"timestamp"` // 發送時間, 非顯示時間
	Status     MessageStatus `json:"status"`
}

// IsLocal check message id 是否為本地樂觀 id
func (m *ChatMessage) IsLocal() bool {
	return strings.HasPrefix(m.ID, LocalIDPrefix)
}
