package repository

import (
	"context"

	"campusbooks/internal/domain/entity"
)

type ChatRepository interface {
	// UpsertRoom merge-writes a room record by its deterministic id: fields
	// absent from the write are preserved, so concurrent upserts from both
	// participants do not clobber each other's participantInfo entries.
	UpsertRoom(ctx context.Context, room *entity.ChatRoom) error
	GetRoom(ctx context.Context, roomID string) (*entity.ChatRoom, error)
	// ListRoomsByUserID returns the rooms containing userID ordered by
	// lastMessageTime descending. Returns an INDEX_BUILDING error while the
	// backing composite index is unavailable.
	ListRoomsByUserID(ctx context.Context, userID string) ([]*entity.ChatRoom, error)
	SetLastMessage(ctx context.Context, roomID, text string) error

	CreateMessage(ctx context.Context, message *entity.Message) error
	// ListMessages returns a room's messages in ascending timestamp order.
	ListMessages(ctx context.Context, roomID string, limit, offset int) ([]*entity.Message, int64, error)
}
