package entity

import (
	"strings"
	"time"
)

// RoomIDSeparator joins the two participant ids of a chat room. Firebase
// uids never contain an underscore, so splitting on it recovers both ids.
const RoomIDSeparator = "_"

// ParticipantInfo holds the per-participant annotations stored on a chat
// room. The buyer side carries contact info; the entry keyed by the seller's
// user id carries the book-title context for the conversation.
type ParticipantInfo struct {
	Name      string `json:"name,omitempty" firestore:"name,omitempty"`
	Email     string `json:"email,omitempty" firestore:"email,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	BookTitle string `json:"book_title,omitempty" firestore:"bookTitle,omitempty"`
}

type ChatRoom struct {
	ID              string                     `json:"id" firestore:"id"`
	Participants    []string                   `json:"participants" firestore:"participants"`
	ParticipantInfo map[string]ParticipantInfo `json:"participant_info" firestore:"participantInfo"`
	LastMessage     string                     `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	LastMessageTime time.Time                  `json:"last_message_time" firestore:"lastMessageTime"`
	CreatedAt       time.Time                  `json:"created_at" firestore:"createdAt"`
}

// ChatRoomID derives the canonical room id for a pair of participants.
// The result is the same regardless of argument order, so either side of a
// conversation resolves to the same document without coordination: the
// first sender to write establishes the room and the other side's client
// computes the identical id independently.
//
// Equal ids (a user messaging themselves) still yield a deterministic id;
// that degenerate case is accepted, not rejected.
func ChatRoomID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + RoomIDSeparator + b
}

// OtherParticipant returns the participant id that is not self. For the
// degenerate self-chat room both entries equal self and self is returned.
func OtherParticipant(participants []string, self string) string {
	for _, id := range participants {
		if id != self {
			return id
		}
	}
	return self
}

// SplitRoomID recovers the two participant ids from a canonical room id.
func SplitRoomID(roomID string) (string, string, bool) {
	parts := strings.SplitN(roomID, RoomIDSeparator, 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
