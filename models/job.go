package models

import "time"

// Job statuses.
const (
	JobStatusOpen   = "open"
	JobStatusFilled = "filled"
	JobStatusClosed = "closed"
)

// Job is a job posting created by a client.
type Job struct {
	ID          string    `bson:"id" json:"id"`
	ClientID    string    `bson:"client_id" json:"client_id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Skills      []string  `bson:"skills" json:"skills"`
	Budget      float64   `bson:"budget" json:"budget"`
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// JobFilter narrows job listings.
type JobFilter struct {
	ClientID string
	Status   string
	Skill    string
}
