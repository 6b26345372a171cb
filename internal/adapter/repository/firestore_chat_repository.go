package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

// UpsertRoom merge-writes the room document so a write from one participant
// never erases the other participant's info entry. CreatedAt is only
// included on the first write; LastMessage fields are last-write-wins.
func (r *firestoreChatRepository) UpsertRoom(ctx context.Context, room *entity.ChatRoom) error {
	data := map[string]interface{}{
		"id":              room.ID,
		"participants":    room.Participants,
		"lastMessage":     room.LastMessage,
		"lastMessageTime": room.LastMessageTime,
	}

	info := make(map[string]interface{}, len(room.ParticipantInfo))
	for id, pi := range room.ParticipantInfo {
		entry := map[string]interface{}{}
		if pi.Name != "" {
			entry["name"] = pi.Name
		}
		if pi.Email != "" {
			entry["email"] = pi.Email
		}
		if pi.PhotoURL != "" {
			entry["photoURL"] = pi.PhotoURL
		}
		if pi.BookTitle != "" {
			entry["bookTitle"] = pi.BookTitle
		}
		info[id] = entry
	}
	if len(info) > 0 {
		data["participantInfo"] = info
	}

	if !room.CreatedAt.IsZero() {
		data["createdAt"] = room.CreatedAt
	}

	_, err := r.client.Collection("chats").Doc(room.ID).Set(ctx, data, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to upsert chat room", err)
	}

	return nil
}

func (r *firestoreChatRepository) GetRoom(ctx context.Context, roomID string) (*entity.ChatRoom, error) {
	doc, err := r.client.Collection("chats").Doc(roomID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat room", err)
		}
		return nil, errors.Internal("Failed to get chat room", err)
	}

	var room entity.ChatRoom
	if err := doc.DataTo(&room); err != nil {
		return nil, errors.Internal("Failed to parse chat room data", err)
	}
	room.ID = doc.Ref.ID

	return &room, nil
}

func (r *firestoreChatRepository) ListRoomsByUserID(ctx context.Context, userID string) ([]*entity.ChatRoom, error) {
	query := r.client.Collection("chats").
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageTime", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, mapQueryError("Failed to fetch chat rooms", err)
	}

	var rooms []*entity.ChatRoom
	for _, doc := range allDocs {
		var room entity.ChatRoom
		if err := doc.DataTo(&room); err != nil {
			continue // skip malformed documents
		}
		room.ID = doc.Ref.ID
		rooms = append(rooms, &room)
	}

	return rooms, nil
}

func (r *firestoreChatRepository) SetLastMessage(ctx context.Context, roomID, text string) error {
	_, err := r.client.Collection("chats").Doc(roomID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: text},
		{Path: "lastMessageTime", Value: time.Now()},
	})
	if err != nil {
		return errors.Internal("Failed to update chat room last message", err)
	}

	return nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("chats").Doc(message.RoomID).Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, roomID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.client.Collection("chats").Doc(roomID).Collection("messages").OrderBy("timestamp", firestore.Asc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, mapQueryError("Failed to count messages", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, mapQueryError("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, 0, errors.Internal("Failed to parse message data", err)
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}

	return messages, total, nil
}
