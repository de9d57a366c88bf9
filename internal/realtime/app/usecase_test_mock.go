package app

import (
	"context"
	"errors"
	"sync"

	"chat_web_service/internal/realtime/domain"
)

// fakeTransport 可腳本化的 Transport
// PushFrame 模擬下行 frame, CloseFromServer 模擬非預期斷線
type fakeTransport struct {
	in     chan []byte
	closed chan struct{}
	once   sync.Once

	mu        sync.Mutex
	written   [][]byte
	failWrite bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		in:     make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

func (t *fakeTransport) ReadMessage() (int, []byte, error) {
	select {
	case data := <-t.in:
		return 1, data, nil
	case <-t.closed:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (t *fakeTransport) WriteMessage(messageType int, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failWrite {
		return errors.New("write on broken connection")
	}
	t.written = append(t.written, data)
	return nil
}

func (t *fakeTransport) Close() error {
	t.once.Do(func() { close(t.closed) })
	return nil
}

// PushFrame 塞一筆下行 frame 給 read loop
func (t *fakeTransport) PushFrame(data []byte) {
	t.in <- data
}

// CloseFromServer 模擬 server 端斷線
func (t *fakeTransport) CloseFromServer() {
	t.Close()
}

// SetFailWrite 之後的 WriteMessage 一律失敗
func (t *fakeTransport) SetFailWrite(fail bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failWrite = fail
}

// Written 回傳已送出的上行 frame
func (t *fakeTransport) Written() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([][]byte, len(t.written))
	copy(out, t.written)
	return out
}

// fakeDialer 記錄每次撥號並回傳新的 fakeTransport
type fakeDialer struct {
	mu         sync.Mutex
	dialErr    error
	endpoints  []string
	transports []*fakeTransport
}

func newFakeDialer() *fakeDialer {
	return &fakeDialer{}
}

func (d *fakeDialer) Dial(ctx context.Context, endpoint string) (domain.Transport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dialErr != nil {
		return nil, d.dialErr
	}
	t := newFakeTransport()
	d.endpoints = append(d.endpoints, endpoint)
	d.transports = append(d.transports, t)
	return t, nil
}

// DialCount 撥號次數
func (d *fakeDialer) DialCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.transports)
}

// Transport 第 i 次撥號建立的 transport
func (d *fakeDialer) Transport(i int) *fakeTransport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transports[i]
}

// LastEndpoint 最後一次撥號的 endpoint
func (d *fakeDialer) LastEndpoint() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.endpoints) == 0 {
		return ""
	}
	return d.endpoints[len(d.endpoints)-1]
}

// SetDialErr 之後的撥號一律失敗
func (d *fakeDialer) SetDialErr(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dialErr = err
}
