package sweep

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

// surveyServiceTitle is the title fragment Survey123 gives the services it creates.
const surveyServiceTitle = "survey123"

// FormIDFromTitle extracts the form id from a Survey123 service title of the
// form "survey123_<formId>[_...]". ok is false when the title has no second
// underscore-separated segment.
func FormIDFromTitle(title string) (formID string, ok bool) {
	parts := strings.Split(title, "_")
	if len(parts) < 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func serviceQuery(owner, title string) string {
	return fmt.Sprintf("title: '%s' owner: '%s' AND type: '%s'", title, owner, models.TypeFeatureService)
}

// OrphanServiceSweep removes Survey123 feature services whose form no longer exists.
func (s *Sweeper) OrphanServiceSweep(ctx context.Context) *models.SweepResult {
	res := models.NewSweepResult(models.SweepOrphanServices)
	log := s.sweepLogger(res.Name)

	services, ok := s.search(ctx, res, log, serviceQuery(s.username, surveyServiceTitle))
	if !ok {
		return res
	}
	log.Info().Int("count", len(services)).Msg("Found Survey123 services")

	fanOut(services, func(svc models.Item) {
		formID, ok := FormIDFromTitle(svc.Title)
		if !ok {
			log.Info().Str("title", svc.Title).Msg("Service title does not carry a form id, leaving it")
			res.RecordSkipped()
			return
		}
		if s.formExists(ctx, log, formID) {
			log.Info().Str("title", svc.Title).Str("form", formID).Msg("Form exists, not removing service")
			res.RecordSkipped()
			return
		}
		log.Info().Str("title", svc.Title).Str("form", formID).Msg("Form does not exist, removing service")
		s.deleteItem(ctx, res, log, svc.Owner, svc.ID)
	})
	return res
}

// formExists reports false only when the portal says the item is not found.
// Any other lookup error counts as existing so the service is kept.
func (s *Sweeper) formExists(ctx context.Context, log zerolog.Logger, formID string) bool {
	_, err := s.portal.GetItem(ctx, formID)
	if err == nil {
		return true
	}
	var perr *models.PortalError
	if errors.As(err, &perr) && perr.IsNotFound() {
		return false
	}
	log.Warn().Err(err).Str("form", formID).Msg("Could not check form, assuming it exists")
	return true
}
