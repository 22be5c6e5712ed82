package sweep

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

// deleteItem removes one item and records the outcome. It never fails, so a
// batch of deletes always runs to completion.
func (s *Sweeper) deleteItem(ctx context.Context, res *models.SweepResult, log zerolog.Logger, owner, id string) {
	if s.opts.DryRun {
		log.Info().Str("id", id).Msg("Dry run, would remove item")
		res.RecordSkipped()
		return
	}

	resp, err := s.portal.RemoveItem(ctx, owner, id)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("id", id).Msg("Could not delete item")
		res.RecordFailure(id, err.Error())
	case !resp.Success:
		reason := resp.Message
		if reason == "" {
			reason = "portal reported failure without a message"
		}
		log.Warn().Str("id", id).Str("reason", reason).Msg("Failed to remove item")
		res.RecordFailure(id, reason)
	default:
		log.Info().Str("id", id).Msg("Removed item")
		res.RecordDeleted()
	}
}

// deleteItems removes every id concurrently.
func (s *Sweeper) deleteItems(ctx context.Context, res *models.SweepResult, log zerolog.Logger, ids []string) {
	fanOut(ids, func(id string) {
		s.deleteItem(ctx, res, log, "", id)
	})
}
