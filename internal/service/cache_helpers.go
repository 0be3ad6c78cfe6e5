package service

import (
	"context"

	"github.com/rs/zerolog/log"
)

type invalidator interface {
	InvalidateAll(ctx context.Context) error
}

// invalidate clears derived caches after a write. Failures are logged only;
// entries expire on their own.
func invalidate(ctx context.Context, scope string, caches ...invalidator) {
	for _, c := range caches {
		if c == nil {
			continue
		}
		if err := c.InvalidateAll(ctx); err != nil {
			log.Warn().Err(err).Msgf("%s: cache invalidate failed", scope)
		}
	}
}
