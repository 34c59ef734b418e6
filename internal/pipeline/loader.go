package pipeline

import (
	"context"
	"fmt"

	"github.com/hideyae/Hackathon-Ocean-Safe/internal/domain"
)

// MultiLoader loads every batch into each loader in order, stopping at the
// first failure. The batch is redelivered on failure, so later loaders must
// tolerate duplicates. Redelivered messages keep their MessageID.
type MultiLoader []BatchLoader

func (m MultiLoader) LoadBatch(ctx context.Context, events []domain.OutputEvent) error {
	for i, l := range m {
		if err := l.LoadBatch(ctx, events); err != nil {
			return fmt.Errorf("loader %d: %w", i, err)
		}
	}
	return nil
}
