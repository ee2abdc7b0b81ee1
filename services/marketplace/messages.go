package marketplace

import (
	"context"

	"github.com/google/uuid"

	"workhive/models"
)

// SendMessage files a direct message from the sender.
func (s *DefaultMarketplaceService) SendMessage(ctx context.Context, senderID string, in MessageInput) (*models.Message, error) {
	message := &models.Message{
		ID:          uuid.NewString(),
		SenderID:    senderID,
		RecipientID: in.RecipientID,
		Body:        in.Body,
	}
	if err := s.Messages.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// Conversation lists the exchange between the subject and a peer, marking the
// peer's messages to the subject as read.
func (s *DefaultMarketplaceService) Conversation(ctx context.Context, subjectID, peerID string, limit int64) ([]models.Message, error) {
	messages, err := s.Messages.Conversation(ctx, subjectID, peerID, limit)
	if err != nil {
		return nil, err
	}
	if err := s.Messages.MarkRead(ctx, peerID, subjectID); err != nil {
		return nil, err
	}
	return messages, nil
}
