package sweep

import (
	"context"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

// PurgeServices removes every Survey123 feature service owned by the user,
// whether or not its form still exists. It is never part of Run.
func (s *Sweeper) PurgeServices(ctx context.Context) *models.SweepResult {
	res := models.NewSweepResult(models.SweepPurgeServices)
	log := s.sweepLogger(res.Name)

	if err := s.checkSession(); err != nil {
		log.Error().Err(err).Msg("Not purging")
		res.Fail(err)
		return res
	}

	services, ok := s.search(ctx, res, log, serviceQuery(s.username, surveyServiceTitle+"_"))
	if !ok {
		return res
	}
	log.Warn().Int("count", len(services)).Msg("Removing all Survey123 services")

	fanOut(services, func(svc models.Item) {
		log.Info().Str("title", svc.Title).Msg("Removing service")
		s.deleteItem(ctx, res, log, svc.Owner, svc.ID)
	})
	return res
}
