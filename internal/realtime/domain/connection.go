package domain

import "context"

// ConnState definition connection state
type ConnState string

const (
	// ConnDisconnected 無連線
	ConnDisconnected ConnState = "disconnected"
	// ConnConnecting 握手中
	ConnConnecting ConnState = "connecting"
	// ConnConnected 握手完成
	ConnConnected ConnState = "connected"
)

// Transport 底層 websocket 連線
// 同 gorilla/websocket *Conn 的子集, 測試時可注入 fake
type Transport interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Dialer 建立 Transport, endpoint 已含 token 參數
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Transport, error)
}
