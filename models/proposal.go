package models

import "time"

// Proposal statuses.
const (
	ProposalStatusPending   = "pending"
	ProposalStatusAccepted  = "accepted"
	ProposalStatusRejected  = "rejected"
	ProposalStatusWithdrawn = "withdrawn"
)

// Proposal is a freelancer's bid on an open job.
type Proposal struct {
	ID           string    `bson:"id" json:"id"`
	JobID        string    `bson:"job_id" json:"job_id"`
	FreelancerID string    `bson:"freelancer_id" json:"freelancer_id"`
	CoverLetter  string    `bson:"cover_letter" json:"cover_letter"`
	BidAmount    float64   `bson:"bid_amount" json:"bid_amount"`
	Status       string    `bson:"status" json:"status"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
