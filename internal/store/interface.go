// Package store defines persistence for alignment records.
package store

import (
	"context"

	"github.com/listenupapp/listenup-narration/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// Alignments
	SaveAlignment(ctx context.Context, a *domain.Alignment) error
	GetAlignment(ctx context.Context, id string) (*domain.Alignment, error)
	GetLatestAlignmentForSegment(ctx context.Context, segmentID string) (*domain.Alignment, error)
	DeleteAlignment(ctx context.Context, id string) error
}
