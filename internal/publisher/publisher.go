// Package publisher orchestrates one publishing run: validate the episode
// input, upload the media file immutably, rebuild the feed from stored
// history, upload the feed, persist the new record and back up the store.
// Steps run strictly in that order and the first failure stops the run; no
// earlier side effect is rolled back. A feed already uploaded for a record
// that then fails to persist is an accepted inconsistency for this
// low-frequency, operator-driven tool.
package publisher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"gocaster/internal/config"
	"gocaster/internal/feed"
	"gocaster/internal/models"
	"gocaster/internal/uploader"
)

const (
	mp3MIMEType = "audio/mpeg"
	xmlMIMEType = "text/xml"
	feedXMLFile = "feed.xml"

	publishedTimezone = "Europe/Amsterdam"
)

var (
	// ErrInvalidInput is returned when a required episode field is missing
	// or the media file does not exist. No side effects happen after it.
	ErrInvalidInput = errors.New("invalid episode input")

	// ErrLocalIO is returned when reading a description file fails.
	ErrLocalIO = errors.New("local file error")
)

// Store is the slice of the episode store the workflow needs.
type Store interface {
	InsertEpisode(ctx context.Context, episode *models.Episode) error
	AllEpisodes(ctx context.Context) ([]models.Episode, error)
	Path() string
}

// Gateway is the slice of the object-store uploader the workflow needs.
type Gateway interface {
	PublishImmutable(ctx context.Context, localPath, remoteDir, contentType string) error
	PublishMutable(ctx context.Context, localPath, remoteDir, contentType string, public bool) error
}

// EpisodeInput is the operator-supplied description of a new episode, before
// validation. Description may be literal text or the path of a text file
// whose contents replace it.
type EpisodeInput struct {
	Title        string
	Description  string
	Duration     string
	FileLocation string
	IsExplicit   string
}

// Publisher runs the publish and republish workflows.
type Publisher struct {
	settings *config.Settings
	store    Store
	gateway  Gateway
	log      *slog.Logger
	out      io.Writer
	now      func() time.Time
}

// New wires a publisher. out receives the operator-facing progress messages.
func New(settings *config.Settings, store Store, gateway Gateway, log *slog.Logger, out io.Writer) *Publisher {
	return &Publisher{
		settings: settings,
		store:    store,
		gateway:  gateway,
		log:      log,
		out:      out,
		now:      time.Now,
	}
}

// PublishNew publishes one new episode end to end.
func (p *Publisher) PublishNew(ctx context.Context, input EpisodeInput) error {
	episode, err := p.validate(input)
	if err != nil {
		return err
	}

	hosting := p.settings.Hosting
	p.log.Info("uploading episode media", "file", input.FileLocation, "uri", episode.FileURI)
	if err := p.gateway.PublishImmutable(ctx, input.FileLocation, hosting.EpisodePath, mp3MIMEType); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "\nEpisode successfully uploaded!")

	builder, err := p.rebuildFeed(ctx, episode)
	if err != nil {
		return err
	}

	if err := p.uploadFeed(ctx, builder); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "\nFeed successfully updated!")

	if err := p.store.InsertEpisode(ctx, episode); err != nil {
		return err
	}

	if err := p.backupStore(ctx); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "\nDatabase successfully backed-up!")

	fmt.Fprintln(p.out, "\nFinished!")
	return nil
}

// Republish regenerates and re-uploads the feed from stored history alone.
// No media is uploaded and no record is inserted.
func (p *Publisher) Republish(ctx context.Context) error {
	builder, err := p.rebuildFeed(ctx, nil)
	if err != nil {
		return err
	}

	if err := p.uploadFeed(ctx, builder); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "\nFeed successfully updated!")

	if err := p.backupStore(ctx); err != nil {
		return err
	}
	fmt.Fprintln(p.out, "\nDatabase successfully backed-up!")

	fmt.Fprintln(p.out, "\nFinished!")
	return nil
}

// validate checks the episode input and builds the record to be published.
// It touches nothing remote: any failure here leaves no side effects.
func (p *Publisher) validate(input EpisodeInput) (*models.Episode, error) {
	if input.Title == "" {
		return nil, errors.Wrap(ErrInvalidInput, "the episode title is missing")
	}
	if input.Description == "" {
		return nil, errors.Wrap(ErrInvalidInput, "the episode description is missing")
	}
	if input.Duration == "" {
		return nil, errors.Wrap(ErrInvalidInput, "the episode duration is missing")
	}
	if input.IsExplicit == "" {
		return nil, errors.Wrap(ErrInvalidInput, "the explicit-content marker is missing")
	}

	info, err := os.Stat(input.FileLocation)
	if err != nil || info.IsDir() {
		return nil, errors.Wrapf(ErrInvalidInput, "the episode file %q is missing", input.FileLocation)
	}

	description, err := resolveDescription(input.Description)
	if err != nil {
		return nil, err
	}

	fileURI, err := uploader.EpisodeFileURI(
		p.settings.Hosting.Endpoint,
		p.settings.Hosting.Bucket,
		p.settings.Hosting.EpisodePath,
		input.FileLocation,
	)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidInput, err.Error())
	}

	return &models.Episode{
		Title:       input.Title,
		Description: feed.CharacterData(description),
		FileURI:     fileURI,
		FileType:    mp3MIMEType,
		FileSize:    strconv.FormatInt(info.Size(), 10),
		Duration:    input.Duration,
		IsExplicit:  input.IsExplicit,
		Published:   p.publishedAt(),
	}, nil
}

// rebuildFeed loads the full history into a fresh feed builder, oldest
// first, then appends the new episode last when one is given.
func (p *Publisher) rebuildFeed(ctx context.Context, newEpisode *models.Episode) (*feed.Builder, error) {
	previous, err := p.store.AllEpisodes(ctx)
	if err != nil {
		return nil, err
	}

	builder := feed.New(p.settings.Podcast, p.now())
	for _, episode := range previous {
		if err := builder.AddEpisode(episode); err != nil {
			return nil, err
		}
	}
	if newEpisode != nil {
		if err := builder.AddEpisode(*newEpisode); err != nil {
			return nil, err
		}
	}

	p.log.Info("feed rebuilt", "previous", len(previous), "new", newEpisode != nil)
	return builder, nil
}

// uploadFeed serializes the feed to a transient local file, uploads it to
// the feed path with public visibility, and removes the local copy. The
// removal is best-effort housekeeping.
func (p *Publisher) uploadFeed(ctx context.Context, builder *feed.Builder) error {
	dir, err := os.MkdirTemp("", "gocaster-feed-")
	if err != nil {
		return errors.Wrap(ErrLocalIO, err.Error())
	}
	defer os.RemoveAll(dir)

	local := filepath.Join(dir, feedXMLFile)
	if err := builder.WriteFile(local); err != nil {
		return errors.Wrap(ErrLocalIO, err.Error())
	}

	return p.gateway.PublishMutable(ctx, local, p.settings.Hosting.FeedPath, xmlMIMEType, true)
}

// backupStore uploads the whole database file to the backup path, privately.
func (p *Publisher) backupStore(ctx context.Context) error {
	return p.gateway.PublishMutable(ctx, p.store.Path(), p.settings.Hosting.DatabasePath, "", false)
}

func (p *Publisher) publishedAt() string {
	now := p.now()
	if loc, err := time.LoadLocation(publishedTimezone); err == nil {
		now = now.In(loc)
	}
	return now.Format(time.RFC1123Z)
}

// resolveDescription expands a description that names a readable text file
// into that file's contents, with all whitespace runs collapsed to single
// spaces. Plain text that is not an existing file passes through unchanged.
func resolveDescription(description string) (string, error) {
	info, err := os.Stat(description)
	if err != nil || info.IsDir() {
		return description, nil
	}

	contents, err := os.ReadFile(description)
	if err != nil {
		return "", errors.Wrapf(ErrLocalIO, "failed to read description file %q: %v", description, err)
	}
	return strings.Join(strings.Fields(string(contents)), " "), nil
}
