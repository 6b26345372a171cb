package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	ws "campusbooks/internal/infrastructure/websocket"
	"campusbooks/pkg/errors"
	"campusbooks/pkg/logger"
)

const (
	defaultUserName    = "Unknown User"
	defaultBookLabel   = "Book discussion"
	defaultLastMessage = "No messages yet"
)

// ConversationFeed builds the per-user chat overview: one row per room,
// newest activity first, annotated with the counterpart's display name and
// the book context. Freshness comes from the WebSocket push plus a
// fixed-interval re-poll that also rides out the index-building window.
type ConversationFeed struct {
	chatRepo     repository.ChatRepository
	wsManager    *ws.Manager
	pollInterval time.Duration
}

func NewConversationFeed(chatRepo repository.ChatRepository, wsManager *ws.Manager, pollInterval time.Duration) *ConversationFeed {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &ConversationFeed{
		chatRepo:     chatRepo,
		wsManager:    wsManager,
		pollInterval: pollInterval,
	}
}

type ConversationRow struct {
	RoomID        string    `json:"room_id"`
	OtherUserID   string    `json:"other_user_id"`
	OtherUserName string    `json:"other_user_name"`
	BookTitle     string    `json:"book_title"`
	LastMessage   string    `json:"last_message"`
	Timestamp     time.Time `json:"timestamp"`
}

// Conversations fetches the caller's rooms and merges them into feed rows.
// An INDEX_BUILDING error passes through unchanged so callers can show the
// transient notice instead of a hard failure.
func (f *ConversationFeed) Conversations(ctx context.Context, userID string) ([]ConversationRow, error) {
	if userID == "" {
		return nil, errors.Unauthorized("You must be signed in to view conversations", nil)
	}

	rooms, err := f.chatRepo.ListRoomsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	rows := make([]ConversationRow, 0, len(rooms))
	for _, room := range rooms {
		rows = append(rows, buildConversationRow(room, userID))
	}

	// The store orders by lastMessageTime; rooms that never recorded one
	// fall back to their creation timestamp.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.After(rows[j].Timestamp)
	})

	return rows, nil
}

// buildConversationRow resolves the counterpart and the display annotations
// for one room. The book label may live on either side's info entry because
// it is keyed by the seller's user id, whoever that happens to be.
func buildConversationRow(room *entity.ChatRoom, userID string) ConversationRow {
	otherUserID := entity.OtherParticipant(room.Participants, userID)

	otherInfo := room.ParticipantInfo[otherUserID]
	selfInfo := room.ParticipantInfo[userID]

	name := otherInfo.Name
	if name == "" {
		name = defaultUserName
	}

	bookTitle := otherInfo.BookTitle
	if bookTitle == "" {
		bookTitle = selfInfo.BookTitle
	}
	if bookTitle == "" {
		bookTitle = defaultBookLabel
	}

	lastMessage := room.LastMessage
	if lastMessage == "" {
		lastMessage = defaultLastMessage
	}

	timestamp := room.LastMessageTime
	if timestamp.IsZero() {
		timestamp = room.CreatedAt
	}

	return ConversationRow{
		RoomID:        room.ID,
		OtherUserID:   otherUserID,
		OtherUserName: name,
		BookTitle:     bookTitle,
		LastMessage:   lastMessage,
		Timestamp:     timestamp,
	}
}

// Watch re-fetches the feed on a fixed interval and pushes each result over
// the user's WebSocket connection, until done closes or ctx is cancelled.
// The polling is not a one-shot retry: it runs for the lifetime of the
// subscription, which is what carries the feed through the window where the
// backing index does not exist yet.
func (f *ConversationFeed) Watch(ctx context.Context, userID string, done <-chan struct{}) {
	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	f.pushOnce(ctx, userID)

	for {
		select {
		case <-ticker.C:
			f.pushOnce(ctx, userID)
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (f *ConversationFeed) pushOnce(ctx context.Context, userID string) {
	rows, err := f.Conversations(ctx, userID)

	var frame map[string]interface{}
	switch {
	case errors.IsIndexBuilding(err):
		frame = map[string]interface{}{
			"type":    "feed_initializing",
			"message": "Chat system is being initialized. Please wait a moment...",
		}
	case err != nil:
		logger.Error("Conversation feed fetch failed for %s: %v", userID, err)
		frame = map[string]interface{}{
			"type":    "feed_error",
			"message": "Failed to load conversations",
		}
	default:
		frame = map[string]interface{}{
			"type":          "conversation_list",
			"conversations": rows,
		}
	}

	payload, err := json.Marshal(frame)
	if err != nil {
		logger.Error("Failed to marshal feed frame: %v", err)
		return
	}

	f.wsManager.SendToUser(userID, payload)
}
