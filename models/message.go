package models

import "time"

// Message is a direct message between two subjects.
type Message struct {
	ID          string    `bson:"id" json:"id"`
	SenderID    string    `bson:"sender_id" json:"sender_id"`
	RecipientID string    `bson:"recipient_id" json:"recipient_id"`
	Body        string    `bson:"body" json:"body"`
	Read        bool      `bson:"read" json:"read"`
	SentAt      time.Time `bson:"sent_at" json:"sent_at"`
}
