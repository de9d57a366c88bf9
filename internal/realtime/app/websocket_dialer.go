package app

import (
	"context"

	"chat_web_service/internal/realtime/domain"

	"github.com/gorilla/websocket"
)

// websocketDialer gorilla/websocket 實作的 Dialer
type websocketDialer struct {
	dialer *websocket.Dialer
}

// NewWebsocketDialer create production dialer
func NewWebsocketDialer() domain.Dialer {
	return &websocketDialer{dialer: websocket.DefaultDialer}
}

// Dial 撥號並完成握手, *websocket.Conn 即為 Transport
func (d *websocketDialer) Dial(ctx context.Context, endpoint string) (domain.Transport, error) {
	conn, _, err := d.dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
