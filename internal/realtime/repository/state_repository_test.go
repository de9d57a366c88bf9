package repository

import (
	"fmt"
	"testing"

	"chat_web_service/internal/realtime/domain"

	"github.com/stretchr/testify/assert"
)

// 測試訊息依 append 順序保存, 不依 timestamp 重排
func TestChatStateRepository_AddMessageKeepsAppendOrder(t *testing.T) {
	repo := NewChatStateRepository()

	// timestamp 故意倒序
	for i := 0; i < 5; i++ {
		repo.AddMessage(domain.ChatMessage{
			ID:        fmt.Sprintf("m-%d", i),
			RoomID:    "r1",
			Content:   fmt.Sprintf("msg %d", i),
			Timestamp: int64(100 - i),
			Status:    domain.MessageSent,
		})
	}

	msgs := repo.Messages()
	assert.Len(t, msgs, 5)
	for i, msg := range msgs {
		assert.Equal(t, fmt.Sprintf("m-%d", i), msg.ID)
	}
}

// 測試 UpdateMessageStatus 只改 status, 未知 id 為 no-op
func TestChatStateRepository_UpdateMessageStatus(t *testing.T) {
	repo := NewChatStateRepository()
	repo.AddMessage(domain.ChatMessage{ID: "m-1", RoomID: "r1", Content: "hi", Status: domain.MessagePending})

	repo.UpdateMessageStatus("m-1", domain.MessageFailed)

	msgs := repo.Messages()
	assert.Len(t, msgs, 1)
	assert.Equal(t, domain.MessageFailed, msgs[0].Status)
	assert.Equal(t, "hi", msgs[0].Content)

	// 未知 id 不改變任何東西
	repo.UpdateMessageStatus("no-such-id", domain.MessageSent)
	assert.Equal(t, domain.MessageFailed, repo.Messages()[0].Status)
}

// 測試 ConfirmMessage 把樂觀 id 換成 server id 並標記 sent
func TestChatStateRepository_ConfirmMessage(t *testing.T) {
	repo := NewChatStateRepository()
	localID := domain.LocalIDPrefix + "abc"
	repo.AddMessage(domain.ChatMessage{ID: localID, RoomID: "r1", Content: "hi", Status: domain.MessagePending})

	ok := repo.ConfirmMessage(localID, domain.ChatMessage{ID: "srv-1", RoomID: "r1", Content: "hi"})
	assert.True(t, ok)

	msgs := repo.Messages()
	assert.Len(t, msgs, 1)
	assert.Equal(t, "srv-1", msgs[0].ID)
	assert.Equal(t, domain.MessageSent, msgs[0].Status)

	// 已確認過的訊息不會二次對應
	assert.False(t, repo.ConfirmMessage(localID, domain.ChatMessage{ID: "srv-2"}))
	// 空 clientMsgID 不對應任何訊息
	assert.False(t, repo.ConfirmMessage("", domain.ChatMessage{ID: "srv-3"}))
}

// 測試 SetActiveRoom 切換時未讀歸零
func TestChatStateRepository_SetActiveRoomResetsUnread(t *testing.T) {
	repo := NewChatStateRepository()
	repo.AddOrReplaceRoom(domain.ChatRoom{ID: "r1", Name: "general", UnreadCount: 7})

	repo.SetActiveRoom("r1")

	assert.Equal(t, "r1", repo.ActiveRoomID())
	assert.Equal(t, 0, repo.Rooms()[0].UnreadCount)

	// 再切一次依然為 0
	repo.UpdateUnreadCount("r1", 3)
	repo.SetActiveRoom("r1")
	assert.Equal(t, 0, repo.Rooms()[0].UnreadCount)
}

// 測試 AddOrReplaceRoom 同 id 整筆替換
func TestChatStateRepository_AddOrReplaceRoom(t *testing.T) {
	repo := NewChatStateRepository()
	repo.AddOrReplaceRoom(domain.ChatRoom{ID: "r1", Name: "general", UnreadCount: 2, LastMessage: "old"})
	repo.AddOrReplaceRoom(domain.ChatRoom{ID: "r2", Name: "random"})

	// 整筆替換, 不做部分合併
	repo.AddOrReplaceRoom(domain.ChatRoom{ID: "r1", Name: "general-renamed", UnreadCount: 5})

	rooms := repo.Rooms()
	assert.Len(t, rooms, 2)
	assert.Equal(t, "general-renamed", rooms[0].Name)
	assert.Equal(t, 5, rooms[0].UnreadCount)
	assert.Equal(t, "", rooms[0].LastMessage)
	assert.Equal(t, "r2", rooms[1].ID)
}

// 測試 UpdateUnreadCount, 房間不存在時 no-op
func TestChatStateRepository_UpdateUnreadCount(t *testing.T) {
	repo := NewChatStateRepository()
	repo.AddOrReplaceRoom(domain.ChatRoom{ID: "r1"})

	repo.UpdateUnreadCount("r1", 5)
	assert.Equal(t, 5, repo.Rooms()[0].UnreadCount)

	repo.UpdateUnreadCount("no-such-room", 9)
	assert.Len(t, repo.Rooms(), 1)
	assert.Equal(t, 5, repo.Rooms()[0].UnreadCount)
}

// 測試 SetUserTyping 冪等
func TestChatStateRepository_SetUserTypingIdempotent(t *testing.T) {
	repo := NewChatStateRepository()

	repo.SetUserTyping("r1", "u1", true)
	repo.SetUserTyping("r1", "u1", true)
	assert.Equal(t, []string{"u1"}, repo.TypingUsers("r1"))

	repo.SetUserTyping("r1", "u2", true)
	assert.Equal(t, []string{"u1", "u2"}, repo.TypingUsers("r1"))

	repo.SetUserTyping("r1", "u1", false)
	assert.Equal(t, []string{"u2"}, repo.TypingUsers("r1"))

	// 移除不存在的使用者為 no-op
	repo.SetUserTyping("r1", "u1", false)
	repo.SetUserTyping("no-such-room", "u1", false)
	assert.Equal(t, []string{"u2"}, repo.TypingUsers("r1"))
}

// 測試非 active 房間收到他人訊息時累加未讀
func TestChatStateRepository_AddMessageIncrementsUnread(t *testing.T) {
	repo := NewChatStateRepository()
	repo.AddOrReplaceRoom(domain.ChatRoom{ID: "r1"})
	repo.AddOrReplaceRoom(domain.ChatRoom{ID: "r2"})
	repo.SetActiveRoom("r1")

	// active 房間: 不累加
	repo.AddMessage(domain.ChatMessage{ID: "m-1", RoomID: "r1", Content: "a", Timestamp: 10, Status: domain.MessageSent})
	// 非 active 房間: 累加
	repo.AddMessage(domain.ChatMessage{ID: "m-2", RoomID: "r2", Content: "b", Timestamp: 20, Status: domain.MessageSent})
	// 本地樂觀訊息: 不累加
	repo.AddMessage(domain.ChatMessage{ID: domain.LocalIDPrefix + "x", RoomID: "r2", Content: "c", Timestamp: 30, Status: domain.MessagePending})

	rooms := repo.Rooms()
	assert.Equal(t, 0, rooms[0].UnreadCount)
	assert.Equal(t, 1, rooms[1].UnreadCount)

	// last activity 跟著最新訊息走
	assert.Equal(t, "a", rooms[0].LastMessage)
	assert.Equal(t, int64(30), rooms[1].LastActivity)
}

// 測試連線旗標
func TestChatStateRepository_Connected(t *testing.T) {
	repo := NewChatStateRepository()
	assert.False(t, repo.IsConnected())

	repo.SetConnected(true)
	assert.True(t, repo.IsConnected())

	repo.SetConnected(false)
	assert.False(t, repo.IsConnected())
}
