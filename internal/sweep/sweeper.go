// Package sweep removes debug leftovers from a portal: debug-tagged forms and
// their linked items, orphaned Survey123 services and empty folders.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rflorenc/survey-sweeper/internal/models"
	"github.com/rflorenc/survey-sweeper/internal/portal"
)

// Options control what a Sweeper does. Zero values fall back to defaults.
type Options struct {
	DebugTag string // typekeyword marking debug forms, "hubDebug" by default
	PageSize int    // search page size, 100 by default
	DryRun   bool   // log removals instead of performing them

	Forms          bool
	OrphanServices bool
	EmptyFolders   bool
}

// ErrSessionExpired is returned when the portal token runs out mid-run.
var ErrSessionExpired = errors.New("token expired")

// Sweeper runs cleanup sweeps against a portal on behalf of one user.
type Sweeper struct {
	portal   portal.Portal
	username string
	opts     Options
	log      zerolog.Logger
}

// New creates a Sweeper for the signed-in user.
func New(p portal.Portal, username string, opts Options, logger zerolog.Logger) *Sweeper {
	if opts.DebugTag == "" {
		opts.DebugTag = "hubDebug"
	}
	if opts.PageSize <= 0 {
		opts.PageSize = 100
	}
	return &Sweeper{portal: p, username: username, opts: opts, log: logger}
}

// Run verifies the session, then runs the enabled sweeps one after another.
// Only a session failure is returned; sweep failures are recorded in the report.
// When the token expires between sweeps, the partial report is returned along
// with ErrSessionExpired.
func (s *Sweeper) Run(ctx context.Context) (*models.Report, error) {
	report := models.NewReport(s.username)
	log := s.log.With().Str("run", report.ID).Logger()

	self, err := s.portal.Self(ctx)
	if err != nil {
		return nil, fmt.Errorf("verifying session: %w", err)
	}
	report.OrgID = self.ID
	log.Info().Str("org", self.ID).Str("user", self.User.Username).Msg("Session verified")

	sweeps := []struct {
		enabled bool
		run     func(context.Context) *models.SweepResult
	}{
		{s.opts.Forms, s.FormSweep},
		{s.opts.OrphanServices, s.OrphanServiceSweep},
		{s.opts.EmptyFolders, s.EmptyFolderSweep},
	}
	for _, sw := range sweeps {
		if !sw.enabled {
			continue
		}
		if ctx.Err() != nil {
			log.Warn().Err(ctx.Err()).Msg("Run interrupted, skipping remaining sweeps")
			break
		}
		if err := s.checkSession(); err != nil {
			log.Error().Err(err).Msg("Stopping run")
			report.Complete()
			return report, err
		}
		res := sw.run(ctx)
		report.Add(res)

		err := res.Err()
		level := zerolog.InfoLevel
		if err != nil {
			level = zerolog.WarnLevel
		}
		log.WithLevel(level).Err(err).
			Str("sweep", res.Name).
			Int("found", res.Found).
			Int("deleted", res.Deleted).
			Int("skipped", res.Skipped).
			Int("failed", len(res.Failures)).
			Msg("Sweep complete")
	}

	report.Complete()
	return report, nil
}

func (s *Sweeper) checkSession() error {
	sess := s.portal.Session()
	if sess.Expired(time.Now()) {
		return fmt.Errorf("%w at %s, sign in again", ErrSessionExpired, sess.Expires.Format(time.RFC3339))
	}
	return nil
}

// search runs one bounded search for a sweep. On failure the sweep is marked
// failed and ok is false.
func (s *Sweeper) search(ctx context.Context, res *models.SweepResult, log zerolog.Logger, q string) (items []models.Item, ok bool) {
	page, err := s.portal.SearchItems(ctx, q, 1, s.opts.PageSize)
	if err != nil {
		log.Warn().Err(err).Msg("Search failed, nothing to do")
		res.Fail(err)
		return nil, false
	}
	res.Found = len(page.Results)
	if page.Truncated() {
		res.Truncated = true
		log.Warn().
			Int("total", page.Total).
			Int("returned", len(page.Results)).
			Msg("More matches than one page holds, only the first page is processed")
	}
	return page.Results, true
}

// fanOut calls fn for every element concurrently and waits for all of them.
func fanOut[T any](elems []T, fn func(T)) {
	var wg sync.WaitGroup
	for _, e := range elems {
		wg.Add(1)
		go func(e T) {
			defer wg.Done()
			fn(e)
		}(e)
	}
	wg.Wait()
}

func (s *Sweeper) sweepLogger(name string) zerolog.Logger {
	return s.log.With().Str("sweep", name).Logger()
}
