package feed

import (
	"os"
	"time"

	"github.com/eduncan911/podcast"
	"github.com/pkg/errors"

	"gocaster/internal/config"
	"gocaster/internal/models"
)

// Builder accumulates show metadata and episode entries and serializes them
// to an RSS document with the iTunes podcast extensions. Entries appear in
// the feed in the order they are added; callers append history first and the
// newest episode last.
type Builder struct {
	p podcast.Podcast
}

// New creates a feed populated with the show-level metadata.
func New(meta config.Podcast, now time.Time) *Builder {
	p := podcast.New(meta.Name, meta.Website, meta.Description, &now, &now)

	p.Language = meta.Language
	p.IExplicit = meta.Explicit
	p.ISubtitle = meta.Subtitle
	p.AddAuthor(meta.Author, meta.Author)
	p.AddCategory(meta.Category, nil)
	p.AddImage(meta.LogoURI)
	p.AddSummary(meta.Description)

	return &Builder{p: p}
}

// AddEpisode appends one entry built from a stored episode. The file URI
// serves as both the entry GUID and the enclosure address. A published
// timestamp that does not parse is left off the entry rather than failing
// the whole feed.
func (b *Builder) AddEpisode(ep models.Episode) error {
	item := podcast.Item{
		Title:       ep.Title,
		Description: ep.Description,
		IDuration:   ep.Duration,
		IExplicit:   ep.IsExplicit,
	}
	item.AddEnclosure(ep.FileURI, podcast.MP3, parseFileSize(ep.FileSize))
	item.GUID = ep.FileURI
	item.AddSummary(Summary(ep.Description))

	if published, err := time.Parse(time.RFC1123Z, ep.Published); err == nil {
		item.AddPubDate(&published)
	}

	if _, err := b.p.AddItem(item); err != nil {
		return errors.Wrapf(err, "failed to add feed entry for %q", ep.Title)
	}
	return nil
}

// Bytes returns the serialized feed document.
func (b *Builder) Bytes() []byte {
	return b.p.Bytes()
}

// WriteFile serializes the feed to path.
func (b *Builder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create feed file")
	}
	defer f.Close()

	if err := b.p.Encode(f); err != nil {
		return errors.Wrap(err, "failed to write feed file")
	}
	return nil
}
