package db

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"gocaster/internal/models"
)

// InsertEpisode stores a new episode and assigns its ID. Episodes are
// append-only history: there is no update or delete. A clash on the unique
// title or file_uri columns is reported as ErrConstraintViolation.
func (s *Store) InsertEpisode(ctx context.Context, episode *models.Episode) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO episodes(title, description, file_uri, file_type, file_size, duration, is_explicit, published)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		episode.Title,
		episode.Description,
		episode.FileURI,
		episode.FileType,
		episode.FileSize,
		episode.Duration,
		episode.IsExplicit,
		episode.Published,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return errors.Wrapf(ErrConstraintViolation, "title %q or file URI %q", episode.Title, episode.FileURI)
		}
		return errors.Wrap(err, "failed to insert episode")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to read inserted episode id")
	}
	episode.ID = id

	return nil
}

// AllEpisodes returns every stored episode in insertion order. An empty store
// yields an empty slice, not an error.
func (s *Store) AllEpisodes(ctx context.Context) ([]models.Episode, error) {
	episodes := []models.Episode{}
	err := s.db.SelectContext(ctx, &episodes, "SELECT * FROM episodes ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve episodes")
	}
	return episodes, nil
}

func isConstraintViolation(err error) bool {
	var coder interface{ Code() int }
	// 19 is SQLITE_CONSTRAINT; modernc.org/sqlite exposes it via Code().
	if errors.As(err, &coder) && coder.Code()&0xff == 19 {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
