package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusbooks/internal/domain/entity"
	ws "campusbooks/internal/infrastructure/websocket"
	"campusbooks/pkg/errors"
)

func newChatFixture() (*ChatUseCase, *fakeChatRepo, *fakeListingRepo) {
	chatRepo := newFakeChatRepo()
	listingRepo := newFakeListingRepo()
	userRepo := newFakeUserRepo(
		&entity.User{ID: "buyer-1", DisplayName: "Asha", Email: "asha@campus.edu"},
		&entity.User{ID: "seller-1", DisplayName: "Ravi", Email: "ravi@campus.edu"},
	)
	uc := NewChatUseCase(chatRepo, userRepo, listingRepo, ws.NewManager())
	return uc, chatRepo, listingRepo
}

func TestSendMessage_BothDirectionsShareOneRoom(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()

	first, err := uc.SendMessage(context.Background(), "buyer-1", SendMessageInput{
		RecipientID: "seller-1",
		Text:        "Is the book still available?",
	})
	require.NoError(t, err)

	reply, err := uc.SendMessage(context.Background(), "seller-1", SendMessageInput{
		RecipientID: "buyer-1",
		Text:        "Yes, it is.",
	})
	require.NoError(t, err)

	assert.Equal(t, first.RoomID, reply.RoomID)
	assert.Len(t, chatRepo.rooms, 1)
	assert.Len(t, chatRepo.messages[first.RoomID], 2)
}

func TestSendMessage_RecordsSenderInfoAndBookContext(t *testing.T) {
	uc, chatRepo, listingRepo := newChatFixture()
	seedListing(listingRepo, "l1", "seller-1", "h1")

	result, err := uc.SendMessage(context.Background(), "buyer-1", SendMessageInput{
		RecipientID: "seller-1",
		Text:        "Is the book still available?",
	})
	require.NoError(t, err)

	room := chatRepo.rooms[result.RoomID]
	require.NotNil(t, room)

	senderInfo := room.ParticipantInfo["buyer-1"]
	assert.Equal(t, "Asha", senderInfo.Name)
	assert.Equal(t, "asha@campus.edu", senderInfo.Email)

	// The recipient's entry carries the title of their listing.
	assert.Equal(t, "Higher Engineering Mathematics", room.ParticipantInfo["seller-1"].BookTitle)
	assert.False(t, room.CreatedAt.IsZero())
}

func TestSendMessage_ReplyPreservesBookContext(t *testing.T) {
	uc, chatRepo, listingRepo := newChatFixture()
	seedListing(listingRepo, "l1", "seller-1", "h1")

	first, err := uc.SendMessage(context.Background(), "buyer-1", SendMessageInput{
		RecipientID: "seller-1",
		Text:        "Is the book still available?",
	})
	require.NoError(t, err)

	// The buyer has no listings, so the reply writes no book context and the
	// merge keeps the entry from the first message.
	_, err = uc.SendMessage(context.Background(), "seller-1", SendMessageInput{
		RecipientID: "buyer-1",
		Text:        "Yes, it is.",
	})
	require.NoError(t, err)

	room := chatRepo.rooms[first.RoomID]
	assert.Equal(t, "Higher Engineering Mathematics", room.ParticipantInfo["seller-1"].BookTitle)
	assert.Equal(t, "Ravi", room.ParticipantInfo["seller-1"].Name)
}

func TestSendMessage_Validation(t *testing.T) {
	uc, chatRepo, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "buyer-1", SendMessageInput{
		RecipientID: "seller-1",
		Text:        "   ",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.SendMessage(context.Background(), "buyer-1", SendMessageInput{
		Text: "hello",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.SendMessage(context.Background(), "", SendMessageInput{
		RecipientID: "seller-1",
		Text:        "hello",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))

	assert.Empty(t, chatRepo.rooms)
}

func TestGetMessages_DerivesRoomFromPair(t *testing.T) {
	uc, _, _ := newChatFixture()

	sent, err := uc.SendMessage(context.Background(), "buyer-1", SendMessageInput{
		RecipientID: "seller-1",
		Text:        "Is the book still available?",
	})
	require.NoError(t, err)

	// The seller reads the same conversation by naming the buyer.
	messages, total, err := uc.GetMessages(context.Background(), "seller-1", "buyer-1", 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, messages, 1)
	assert.Equal(t, sent.Message.ID, messages[0].ID)
	assert.Equal(t, "Is the book still available?", messages[0].Text)
}

func TestGetRoom_RejectsNonParticipant(t *testing.T) {
	uc, _, _ := newChatFixture()

	_, err := uc.SendMessage(context.Background(), "buyer-1", SendMessageInput{
		RecipientID: "seller-1",
		Text:        "hello",
	})
	require.NoError(t, err)

	roomID := entity.ChatRoomID("buyer-1", "seller-1")
	_, err = uc.GetRoom(context.Background(), "intruder", roomID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))

	room, err := uc.GetRoom(context.Background(), "seller-1", roomID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"buyer-1", "seller-1"}, room.Participants)
}
