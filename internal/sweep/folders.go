package sweep

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rflorenc/survey-sweeper/internal/models"
)

// EmptyFolderSweep removes the user's folders that hold no items.
func (s *Sweeper) EmptyFolderSweep(ctx context.Context) *models.SweepResult {
	res := models.NewSweepResult(models.SweepEmptyFolders)
	log := s.sweepLogger(res.Name)

	folders, err := s.portal.UserFolders(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Could not list folders, nothing to do")
		res.Fail(err)
		return res
	}
	res.Found = len(folders)
	log.Info().Int("count", len(folders)).Msg("Got user folders")

	fanOut(folders, func(f models.Folder) {
		if !s.folderEmpty(ctx, log, f) {
			res.RecordSkipped()
			return
		}
		s.removeFolder(ctx, res, log, f)
	})
	return res
}

// folderEmpty treats a failed listing as not empty.
func (s *Sweeper) folderEmpty(ctx context.Context, log zerolog.Logger, f models.Folder) bool {
	items, err := s.portal.FolderItems(ctx, f.ID)
	if err != nil {
		log.Warn().Err(err).Str("folder", f.ID).Msg("Error checking folder content, assuming it has content")
		return false
	}
	if len(items) > 0 {
		log.Info().Str("folder", f.ID).Str("title", f.Title).Int("items", len(items)).Msg("Folder has content")
		return false
	}
	log.Info().Str("folder", f.ID).Str("title", f.Title).Msg("Folder is empty")
	return true
}

func (s *Sweeper) removeFolder(ctx context.Context, res *models.SweepResult, log zerolog.Logger, f models.Folder) {
	if s.opts.DryRun {
		log.Info().Str("folder", f.ID).Msg("Dry run, would remove folder")
		res.RecordSkipped()
		return
	}

	resp, err := s.portal.RemoveFolder(ctx, f.ID)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("folder", f.ID).Msg("Could not remove folder")
		res.RecordFailure(f.ID, err.Error())
	case !resp.Success:
		log.Warn().Str("folder", f.ID).Str("reason", resp.Message).Msg("Failed to remove folder")
		res.RecordFailure(f.ID, resp.Message)
	default:
		log.Info().Str("folder", f.ID).Str("title", f.Title).Msg("Removed folder")
		res.RecordDeleted()
	}
}
