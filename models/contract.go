package models

import "time"

// Contract statuses.
const (
	ContractStatusActive    = "active"
	ContractStatusCompleted = "completed"
	ContractStatusCancelled = "cancelled"
)

// Contract is created when a client accepts a freelancer's proposal.
type Contract struct {
	ID           string     `bson:"id" json:"id"`
	JobID        string     `bson:"job_id" json:"job_id"`
	ProposalID   string     `bson:"proposal_id" json:"proposal_id"`
	ClientID     string     `bson:"client_id" json:"client_id"`
	FreelancerID string     `bson:"freelancer_id" json:"freelancer_id"`
	Amount       float64    `bson:"amount" json:"amount"`
	Status       string     `bson:"status" json:"status"`
	StartedAt    time.Time  `bson:"started_at" json:"started_at"`
	CompletedAt  *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}

// EarningsSummary aggregates a freelancer's completed contract amounts.
type EarningsSummary struct {
	FreelancerID       string  `bson:"_id" json:"freelancer_id"`
	TotalEarned        float64 `bson:"total_earned" json:"total_earned"`
	CompletedContracts int     `bson:"completed_contracts" json:"completed_contracts"`
}
