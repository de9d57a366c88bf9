package repository

import (
	"sort"
	"sync"

	"chat_web_service/internal/realtime/domain"
)

// ChatStateRepository 聊天狀態唯一寫入端
// 所有變更都經過這裡, 其他元件不得直接改欄位
type ChatStateRepository interface {
	AddMessage(msg domain.ChatMessage)
	ConfirmMessage(clientMsgID string, serverMsg domain.ChatMessage) bool
	UpdateMessageStatus(id string, status domain.MessageStatus)

	SetActiveRoom(roomID string)
	AddOrReplaceRoom(room domain.ChatRoom)
	UpdateUnreadCount(roomID string, count int)

	SetUserTyping(roomID, userID string, isTyping bool)

	SetConnected(connected bool)

	Messages() []domain.ChatMessage
	Rooms() []domain.ChatRoom
	TypingUsers(roomID string) []string
	ActiveRoomID() string
	IsConnected() bool
}

// chatStateRepository 實現 ChatStateRepository (in-memory)
type chatStateRepository struct {
	mu sync.RWMutex

	messages     []domain.ChatMessage
	rooms        []domain.ChatRoom
	roomIndex    map[string]int                 // roomID -> rooms index
	typing       map[string]map[string]struct{} // roomID -> set(userID)
	activeRoomID string
	connected    bool
}

// NewChatStateRepository init chat state repository
func NewChatStateRepository() ChatStateRepository {
	return &chatStateRepository{
		roomIndex: map[string]int{},
		typing:    map[string]map[string]struct{}{},
	}
}

// AddMessage 依到達順序追加, 不依 timestamp 重排
// 非 active 房間收到他人訊息時順帶累加未讀
func (r *chatStateRepository) AddMessage(msg domain.ChatMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, msg)

	idx, ok := r.roomIndex[msg.RoomID]
	if !ok {
		return
	}
	r.rooms[idx].LastMessage = msg.Content
	if msg.Timestamp > r.rooms[idx].LastActivity {
		r.rooms[idx].LastActivity = msg.Timestamp
	}
	if msg.RoomID != r.activeRoomID && !msg.IsLocal() {
		r.rooms[idx].UnreadCount++
	}
}

// ConfirmMessage server 確認樂觀訊息: 換成 server id 並標記 sent
// 找不到對應 pending 訊息時回傳 false, 由呼叫端當一般訊息處理
func (r *chatStateRepository) ConfirmMessage(clientMsgID string, serverMsg domain.ChatMessage) bool {
	if clientMsgID == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.messages {
		if r.messages[i].ID == clientMsgID && r.messages[i].Status == domain.MessagePending {
			r.messages[i].ID = serverMsg.ID
			r.messages[i].Status = domain.MessageSent
			return true
		}
	}
	return false
}

// UpdateMessageStatus 只替換 status 欄位, id 不存在時 no-op
func (r *chatStateRepository) UpdateMessageStatus(id string, status domain.MessageStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.messages {
		if r.messages[i].ID == id {
			r.messages[i].Status = status
			return
		}
	}
}

// SetActiveRoom 切換 active 房間並歸零未讀, 同一臨界區完成
func (r *chatStateRepository) SetActiveRoom(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.activeRoomID = roomID
	if idx, ok := r.roomIndex[roomID]; ok {
		r.rooms[idx].UnreadCount = 0
	}
}

// AddOrReplaceRoom 同 id 整筆替換, 否則追加
func (r *chatStateRepository) AddOrReplaceRoom(room domain.ChatRoom) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.roomIndex[room.ID]; ok {
		r.rooms[idx] = room
		return
	}
	r.roomIndex[room.ID] = len(r.rooms)
	r.rooms = append(r.rooms, room)
}

// UpdateUnreadCount 設定未讀數, 房間不存在時 no-op
func (r *chatStateRepository) UpdateUnreadCount(roomID string, count int) {
	if count < 0 {
		count = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.roomIndex[roomID]; ok {
		r.rooms[idx].UnreadCount = count
	}
}

// SetUserTyping 更新 typing set, 重複設定為 no-op
func (r *chatStateRepository) SetUserTyping(roomID, userID string, isTyping bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if isTyping {
		if _, ok := r.typing[roomID]; !ok {
			r.typing[roomID] = map[string]struct{}{}
		}
		r.typing[roomID][userID] = struct{}{}
		return
	}

	if users, ok := r.typing[roomID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(r.typing, roomID)
		}
	}
}

// SetConnected 連線旗標由 connection manager 驅動
func (r *chatStateRepository) SetConnected(connected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected = connected
}

// Messages 回傳訊息快照 (append 順序)
func (r *chatStateRepository) Messages() []domain.ChatMessage {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ChatMessage, len(r.messages))
	copy(out, r.messages)
	return out
}

// Rooms 回傳房間快照 (加入順序)
func (r *chatStateRepository) Rooms() []domain.ChatRoom {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ChatRoom, len(r.rooms))
	copy(out, r.rooms)
	return out
}

// TypingUsers 回傳某房間 typing 中的使用者
func (r *chatStateRepository) TypingUsers(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users, ok := r.typing[roomID]
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(users))
	for u := range users {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// ActiveRoomID 回傳目前 active 房間 id, 未設定時為空字串
func (r *chatStateRepository) ActiveRoomID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeRoomID
}

// IsConnected 回傳連線旗標
func (r *chatStateRepository) IsConnected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connected
}
