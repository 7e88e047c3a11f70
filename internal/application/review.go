package application

import (
	"context"

	"taskscribe/internal/domain"
)

// Reviewer presents tickets for a decision and returns them with their final
// statuses. Tickets the user never decided come back pending.
type Reviewer interface {
	Review(ctx context.Context, tickets []domain.Ticket) ([]domain.Ticket, error)
}

// NoopReviewer skips the interactive form. Every ticket stays pending, so
// the summary ends up empty.
type NoopReviewer struct{}

func (n *NoopReviewer) Review(_ context.Context, tickets []domain.Ticket) ([]domain.Ticket, error) {
	return tickets, nil
}
