package application

import (
	"context"
	"fmt"

	"taskscribe/internal/domain"
)

type TicketExtractor interface {
	Extract(ctx context.Context, transcript string) ([]domain.Ticket, error)
}

// DisabledExtractor stands in when the selected backend has no credential.
type DisabledExtractor struct {
	Backend string
}

func (d *DisabledExtractor) Extract(context.Context, string) ([]domain.Ticket, error) {
	return nil, fmt.Errorf("ticket extraction not configured: no API key for backend %q", d.Backend)
}
