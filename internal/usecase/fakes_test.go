package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/internal/domain/service"
	"campusbooks/pkg/errors"
)

type fakeListingRepo struct {
	listings map[string]*entity.Listing

	createCalls int
	updateCalls int
	deleteCalls int
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[string]*entity.Listing)}
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	r.createCalls++
	if listing.ID == "" {
		listing.ID = fmt.Sprintf("listing-%d", len(r.listings)+1)
	}
	copied := *listing
	r.listings[listing.ID] = &copied
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	copied := *listing
	copied.ImageURLs = append([]string(nil), listing.ImageURLs...)
	copied.ImagePublicIDs = append([]string(nil), listing.ImagePublicIDs...)
	return &copied, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, listing *entity.Listing) error {
	r.updateCalls++
	copied := *listing
	r.listings[listing.ID] = &copied
	return nil
}

func (r *fakeListingRepo) Delete(ctx context.Context, id string) error {
	r.deleteCalls++
	delete(r.listings, id)
	return nil
}

func (r *fakeListingRepo) List(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	var out []*entity.Listing
	for _, l := range r.listings {
		if filter.ExcludeOwnerID != "" && l.OwnerID == filter.ExcludeOwnerID {
			continue
		}
		if filter.Year != "" && l.Year != filter.Year {
			continue
		}
		if filter.Branch != "" && l.Branch != filter.Branch {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *fakeListingRepo) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	var out []*entity.Listing
	for _, l := range r.listings {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, int64(len(out)), nil
}

type fakeMediaService struct {
	failDeletes bool

	uploads []string
	deletes []string
}

func (m *fakeMediaService) Upload(ctx context.Context, file io.Reader, contentType string) (*service.MediaAsset, error) {
	handle := fmt.Sprintf("asset-%d", len(m.uploads)+1)
	m.uploads = append(m.uploads, handle)
	return &service.MediaAsset{
		URL:            "https://media.example.com/" + handle,
		DeletionHandle: handle,
	}, nil
}

func (m *fakeMediaService) Delete(ctx context.Context, deletionHandle string) error {
	m.deletes = append(m.deletes, deletionHandle)
	if m.failDeletes {
		return fmt.Errorf("media service unavailable")
	}
	return nil
}

func (m *fakeMediaService) Close() error {
	return nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	rooms    map[string]*entity.ChatRoom
	messages map[string][]*entity.Message

	listErr       error
	listRoomCalls int

	lastMessageCalls int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		rooms:    make(map[string]*entity.ChatRoom),
		messages: make(map[string][]*entity.Message),
	}
}

func (r *fakeChatRepo) UpsertRoom(ctx context.Context, room *entity.ChatRoom) error {
	existing, ok := r.rooms[room.ID]
	if !ok {
		copied := *room
		if copied.ParticipantInfo == nil {
			copied.ParticipantInfo = make(map[string]entity.ParticipantInfo)
		}
		r.rooms[room.ID] = &copied
		return nil
	}

	// Field-level merge: empty fields are never written, so one side's book
	// context survives the other side's upsert.
	for id, info := range room.ParticipantInfo {
		merged := existing.ParticipantInfo[id]
		if info.Name != "" {
			merged.Name = info.Name
		}
		if info.Email != "" {
			merged.Email = info.Email
		}
		if info.PhotoURL != "" {
			merged.PhotoURL = info.PhotoURL
		}
		if info.BookTitle != "" {
			merged.BookTitle = info.BookTitle
		}
		existing.ParticipantInfo[id] = merged
	}
	existing.LastMessage = room.LastMessage
	existing.LastMessageTime = room.LastMessageTime
	if !room.CreatedAt.IsZero() {
		existing.CreatedAt = room.CreatedAt
	}
	return nil
}

func (r *fakeChatRepo) GetRoom(ctx context.Context, roomID string) (*entity.ChatRoom, error) {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, errors.NotFound("Chat room", nil)
	}
	return room, nil
}

func (r *fakeChatRepo) ListRoomsByUserID(ctx context.Context, userID string) ([]*entity.ChatRoom, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listRoomCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}

	var out []*entity.ChatRoom
	for _, room := range r.rooms {
		for _, p := range room.Participants {
			if p == userID {
				out = append(out, room)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeChatRepo) setListErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listErr = err
}

func (r *fakeChatRepo) listCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listRoomCalls
}

func (r *fakeChatRepo) SetLastMessage(ctx context.Context, roomID, text string) error {
	r.lastMessageCalls++
	if room, ok := r.rooms[roomID]; ok {
		room.LastMessage = text
		room.LastMessageTime = time.Now()
	}
	return nil
}

func (r *fakeChatRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d", len(r.messages[message.RoomID])+1)
	}
	r.messages[message.RoomID] = append(r.messages[message.RoomID], message)
	return nil
}

func (r *fakeChatRepo) ListMessages(ctx context.Context, roomID string, limit, offset int) ([]*entity.Message, int64, error) {
	msgs := r.messages[roomID]
	return msgs, int64(len(msgs)), nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}
