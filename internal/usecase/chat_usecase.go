package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	ws "campusbooks/internal/infrastructure/websocket"
	"campusbooks/pkg/errors"
	"campusbooks/pkg/logger"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	wsManager   *ws.Manager
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	wsManager *ws.Manager,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		listingRepo: listingRepo,
		wsManager:   wsManager,
	}
}

type SendMessageInput struct {
	RecipientID string
	Text        string
}

type MessageResponse struct {
	*entity.Message
	RoomID string       `json:"room_id"`
	Sender *entity.User `json:"sender,omitempty"`
}

// SendMessage resolves the canonical room for the sender/recipient pair,
// merge-upserts the room record, then appends the message. Either side can
// send first; both resolve to the same room id without coordination.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*MessageResponse, error) {
	if senderID == "" {
		return nil, errors.Unauthorized("You must be signed in to send messages", nil)
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, errors.BadRequest("Message text cannot be empty", nil)
	}
	if input.RecipientID == "" {
		return nil, errors.BadRequest("Recipient is required", nil)
	}

	sender, err := uc.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, errors.NotFound("Sender", err)
	}

	roomID := entity.ChatRoomID(senderID, input.RecipientID)
	now := time.Now()

	senderName := sender.DisplayName
	if senderName == "" {
		senderName = "Anonymous"
	}

	room := &entity.ChatRoom{
		ID:           roomID,
		Participants: []string{senderID, input.RecipientID},
		ParticipantInfo: map[string]entity.ParticipantInfo{
			senderID: {
				Name:     senderName,
				Email:    sender.Email,
				PhotoURL: sender.PhotoURL,
			},
		},
		LastMessage:     input.Text,
		LastMessageTime: now,
	}

	// The recipient's entry carries the book context, looked up from their
	// most recent listing. When the recipient has no listings (the seller is
	// replying to a buyer) nothing is written and the merge preserves
	// whatever the other side recorded.
	if title := uc.lookupBookTitle(ctx, input.RecipientID); title != "" {
		room.ParticipantInfo[input.RecipientID] = entity.ParticipantInfo{BookTitle: title}
	}

	if _, err := uc.chatRepo.GetRoom(ctx, roomID); errors.Is(err, "NOT_FOUND") {
		room.CreatedAt = now
	}

	if err := uc.chatRepo.UpsertRoom(ctx, room); err != nil {
		return nil, err
	}

	message := &entity.Message{
		RoomID:     roomID,
		SenderID:   senderID,
		ReceiverID: input.RecipientID,
		Text:       input.Text,
		CreatedAt:  now,
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if err := uc.chatRepo.SetLastMessage(ctx, roomID, input.Text); err != nil {
		logger.Warn("Failed to refresh last message for room %s: %v", roomID, err)
	}

	uc.notifyNewMessage(roomID, message, sender)

	return &MessageResponse{
		Message: message,
		RoomID:  roomID,
		Sender:  sender,
	}, nil
}

// GetMessages returns the conversation between the caller and otherUserID in
// ascending timestamp order. The caller is a participant of the derived room
// by construction, so no separate membership check is needed.
func (uc *ChatUseCase) GetMessages(ctx context.Context, userID, otherUserID string, limit, offset int) ([]*entity.Message, int64, error) {
	if userID == "" {
		return nil, 0, errors.Unauthorized("You must be signed in to read messages", nil)
	}

	roomID := entity.ChatRoomID(userID, otherUserID)
	return uc.chatRepo.ListMessages(ctx, roomID, limit, offset)
}

func (uc *ChatUseCase) GetRoom(ctx context.Context, userID, roomID string) (*entity.ChatRoom, error) {
	a, b, ok := entity.SplitRoomID(roomID)
	if !ok || (userID != a && userID != b) {
		return nil, errors.Forbidden("You are not a participant in this conversation", nil)
	}

	return uc.chatRepo.GetRoom(ctx, roomID)
}

func (uc *ChatUseCase) lookupBookTitle(ctx context.Context, sellerID string) string {
	listings, _, err := uc.listingRepo.ListByOwnerID(ctx, sellerID, 1, 0)
	if err != nil || len(listings) == 0 {
		return ""
	}
	return listings[0].Title
}

func (uc *ChatUseCase) notifyNewMessage(roomID string, message *entity.Message, sender *entity.User) {
	notification := map[string]interface{}{
		"type":    "new_message",
		"room_id": roomID,
		"message": message,
		"sender":  sender,
	}

	frame, err := json.Marshal(notification)
	if err != nil {
		logger.Error("Failed to marshal message notification: %v", err)
		return
	}

	uc.wsManager.SendToUser(message.ReceiverID, frame)
}
