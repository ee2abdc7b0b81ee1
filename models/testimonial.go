package models

import "time"

// Testimonial is feedback left by one party of a completed contract about the
// other party.
type Testimonial struct {
	ID         string    `bson:"id" json:"id"`
	ContractID string    `bson:"contract_id" json:"contract_id"`
	AuthorID   string    `bson:"author_id" json:"author_id"`
	SubjectID  string    `bson:"subject_id" json:"subject_id"`
	Rating     int       `bson:"rating" json:"rating"`
	Body       string    `bson:"body" json:"body"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
