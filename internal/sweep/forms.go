package sweep

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

// relatedItemKeys are the form properties that point at items created with the form.
var relatedItemKeys = []string{
	"serviceItemId",
	"viewItemId", // older forms only
	"fieldworkerItemId",
	"stakeholderItemId",
}

// RelatedItemIDs returns the form's id followed by the ids of its linked
// items, without duplicates. Missing or empty properties are skipped.
func RelatedItemIDs(item models.Item) []string {
	ids := []string{item.ID}
	for _, key := range relatedItemKeys {
		ids = append(ids, item.StringProperty(key))
	}
	return lo.Uniq(lo.Compact(ids))
}

func formQuery(owner, debugTag string) string {
	return fmt.Sprintf("owner: '%s' AND type: '%s' AND typekeywords: '%s'", owner, models.TypeForm, debugTag)
}

// FormSweep removes debug-tagged forms owned by the user together with their
// linked service, view, fieldworker and stakeholder items.
func (s *Sweeper) FormSweep(ctx context.Context) *models.SweepResult {
	res := models.NewSweepResult(models.SweepForms)
	log := s.sweepLogger(res.Name)

	forms, ok := s.search(ctx, res, log, formQuery(s.username, s.opts.DebugTag))
	if !ok {
		return res
	}
	log.Info().Int("count", len(forms)).Str("tag", s.opts.DebugTag).Msg("Found debug forms")

	fanOut(forms, func(form models.Item) {
		ids := RelatedItemIDs(form)
		log.Info().Str("form", form.ID).Strs("ids", ids).Msg("Working on form")
		s.deleteItems(ctx, res, log, ids)
	})
	return res
}
