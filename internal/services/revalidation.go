package services

import (
	"context"

	"condoparcel/internal/caching"

	"github.com/rs/zerolog/log"
)

// revalidate tells readers that the given scopes changed. The mutation has already
// committed, so a failure here is logged and never returned.
func revalidate(ctx context.Context, cache caching.ViewCache, scopes ...caching.Scope) {
	if err := cache.Invalidate(ctx, scopes...); err != nil {
		log.Warn().Err(err).Interface("scopes", scopes).Msg("revalidation signal failed")
	}
}
