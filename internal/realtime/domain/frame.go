package domain

import "encoding/json"

// FrameType websocket inbound frame kind
type FrameType string

const (
	// FrameMessage socket service 廣播的聊天訊息
	FrameMessage FrameType = "message"
	// FrameTyping typing 狀態變更
	FrameTyping FrameType = "typing"
	// FrameRoomUpdate 房間資料更新 (整筆替換)
	FrameRoomUpdate FrameType = "room_update"
)

// InboundFrame socket service 下行 frame
// 未知 type 由 router 丟棄, 不視為錯誤
type InboundFrame struct {
	Type     FrameType       `json:"type"`
	Payload  json.RawMessage `json:"payload,omitempty"`
	RoomID   string          `json:"roomId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	IsTyping bool            `json:"isTyping,omitempty"`
}

// MessagePayload message frame 的 payload
// ClientMsgID 為 server 回帶的樂觀訊息 id, 用於確認對應
type MessagePayload struct {
	ID          string `json:"id"`
	RoomID      string `json:"roomId"`
	UserID      string `json:"userId"`
	Username    string `json:"username,omitempty"`
	Content     string `json:"content"`
	Timestamp   int64  `json:"timestamp"`
	ClientMsgID string `json:"clientMsgId,omitempty"`
}

// RoomPayload room_update frame 的 payload
type RoomPayload struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	LastMessage  string `json:"lastMessage,omitempty"`
	LastActivity int64  `json:"lastActivity,omitempty"`
	UnreadCount  int    `json:"unreadCount"`
	Online       bool   `json:"online,omitempty"`
}

// OutboundFrame 上行 frame, 目前只有 message 一種
type OutboundFrame struct {
	Type        string `json:"type"`
	RoomID      string `json:"roomId"`
	Content     string `json:"content"`
	ClientMsgID string `json:"clientMsgId"`
}
