package app

import (
	"context"
	"net/url"
	"sync"
	"time"

	"chat_web_service/internal/realtime/domain"
	"chat_web_service/internal/realtime/repository"
	errprocess "chat_web_service/pkg/err"
	"chat_web_service/pkg/logger"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// DefaultReconnectDelay 斷線後重連等待時間
const DefaultReconnectDelay = 3 * time.Second

// ConnectionUseCase 負責 realtime 連線生命週期
// 同一時間最多持有一條 transport; 重連任務綁定 generation,
// 手動 Disconnect 會使 generation 前進, 讓排程中的重連失效
type ConnectionUseCase struct {
	state  repository.ChatStateRepository
	router *EventRouter
	dialer domain.Dialer

	reconnectDelay time.Duration

	mu         sync.Mutex
	writeMu    sync.Mutex
	conn       domain.Transport
	connState  domain.ConnState
	generation uint64
	endpoint   string
	credential string
}

// NewConnectionUseCase create ConnectionUseCase
func NewConnectionUseCase(
	state repository.ChatStateRepository,
	router *EventRouter,
	dialer domain.Dialer,
	reconnectDelay time.Duration,
) *ConnectionUseCase {
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}
	return &ConnectionUseCase{
		state:          state,
		router:         router,
		dialer:         dialer,
		reconnectDelay: reconnectDelay,
		connState:      domain.ConnDisconnected,
	}
}

// Connect 開啟連線, 已在 connecting/connected 時 no-op
// credential 以 query 參數帶給 socket service
func (c *ConnectionUseCase) Connect(ctx context.Context, endpoint, credential string) error {
	c.mu.Lock()
	if c.connState != domain.ConnDisconnected {
		c.mu.Unlock()
		return nil
	}

	c.generation++
	gen := c.generation
	c.connState = domain.ConnConnecting
	c.endpoint = endpoint
	c.credential = credential
	c.mu.Unlock()

	conn, err := c.dialer.Dial(ctx, endpoint+"?token="+url.QueryEscape(credential))
	if err != nil {
		c.mu.Lock()
		if c.generation == gen {
			c.connState = domain.ConnDisconnected
		}
		c.mu.Unlock()
		return errprocess.Set("websocket dial failed: " + err.Error())
	}

	c.mu.Lock()
	if c.generation != gen {
		// 撥號期間被 Disconnect 搶先, 丟棄這條連線
		c.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	c.conn = conn
	c.connState = domain.ConnConnected
	c.mu.Unlock()

	c.state.SetConnected(true)
	logger.Log.Info("websocket connected", zap.String("endpoint", endpoint))

	go c.readLoop(gen, conn)
	return nil
}

// Disconnect 主動關閉連線並抑制自動重連
func (c *ConnectionUseCase) Disconnect() {
	c.mu.Lock()
	c.generation++
	conn := c.conn
	c.conn = nil
	c.connState = domain.ConnDisconnected
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	c.state.SetConnected(false)
	logger.Log.Info("websocket disconnected")
}

// WriteFrame 送出一筆上行 frame, 未連線時回傳錯誤
func (c *ConnectionUseCase) WriteFrame(data []byte) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		return errprocess.Set("websocket not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

// State 回傳目前連線狀態
func (c *ConnectionUseCase) State() domain.ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connState
}

// readLoop 逐筆讀取並交給 router, 讀取結束即視為連線關閉
func (c *ConnectionUseCase) readLoop(gen uint64, conn domain.Transport) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// transport 錯誤只記錄, 重連由關閉事件驅動
			logger.Log.Warn("websocket read closed", zap.Error(err))
			c.onClosed(gen, conn)
			return
		}
		c.router.Dispatch(data)
	}
}

// onClosed 非預期關閉: 每個關閉事件只排一次重連
func (c *ConnectionUseCase) onClosed(gen uint64, conn domain.Transport) {
	c.mu.Lock()
	if c.generation != gen {
		// 已被 Disconnect 或新連線取代
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.connState = domain.ConnDisconnected
	endpoint, credential := c.endpoint, c.credential
	c.mu.Unlock()

	_ = conn.Close()
	c.state.SetConnected(false)

	logger.Log.Info("websocket closed unexpectedly, reconnect scheduled",
		zap.Duration("delay", c.reconnectDelay))

	time.AfterFunc(c.reconnectDelay, func() {
		c.mu.Lock()
		stale := c.generation != gen || c.connState != domain.ConnDisconnected
		c.mu.Unlock()
		if stale {
			return
		}
		if err := c.Connect(context.Background(), endpoint, credential); err != nil {
			logger.Log.Errorf("reconnect failed:", err)
		}
	})
}
