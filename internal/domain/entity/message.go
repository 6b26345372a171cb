package entity

import "time"

// Message is append-only: never edited, never deleted. Read order within a
// room is the store's ascending sort on CreatedAt; no tie-break is defined
// for identical timestamps.
type Message struct {
	ID         string    `json:"id" firestore:"id"`
	RoomID     string    `json:"room_id" firestore:"roomId"`
	SenderID   string    `json:"sender_id" firestore:"senderId"`
	ReceiverID string    `json:"receiver_id" firestore:"receiverId"`
	Text       string    `json:"text" firestore:"text"`
	CreatedAt  time.Time `json:"created_at" firestore:"timestamp"`
}
