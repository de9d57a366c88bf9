package domain

// ChatRoom definition chat room
type ChatRoom struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	LastMessage  string `json:"last_message,omitempty"`
	LastActivity int64  `json:"last_activity,omitempty"`
	UnreadCount  int    `json:"unread_count"`
	Online       bool   `json:"online,omitempty"`
}
