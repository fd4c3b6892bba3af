// Package config loads the JSON settings document and resolves it into the
// typed Settings consumed by the publish workflow. Resolution is strict:
// every recognized key must be present and non-empty, and it runs before any
// store or network access so a broken file fails fast.
package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

var (
	// ErrMissingConfig is returned when a required key is absent or empty.
	// The wrapped message names the dotted section.key path.
	ErrMissingConfig = errors.New("missing configuration value")

	// ErrIllegalConfig is returned when a present value has a shape the
	// schema does not allow.
	ErrIllegalConfig = errors.New("illegal configuration value")
)

// Hosting holds the object-storage side of the settings.
type Hosting struct {
	AccessKey    string `json:"accessKey"`
	Secret       string `json:"secret"`
	Region       string `json:"regionName"`
	Endpoint     string `json:"endpointUrl"`
	Bucket       string `json:"bucketName"`
	EpisodePath  string `json:"episodePath"`
	FeedPath     string `json:"feedPath"`
	DatabasePath string `json:"databasePath"`
}

// Author is one entry of the optional structured authors list.
type Author struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	URI   string `json:"uri"`
}

// Podcast holds the show-level metadata for the feed.
type Podcast struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Category    string `json:"category"`
	LogoURI     string `json:"logoUri"`
	Website     string `json:"website"`
	Explicit    string `json:"explicit"`
	Author      string `json:"author"`
	Subtitle    string `json:"subtitle"`

	Authors []Author `json:"-"`
}

// Settings is the fully resolved configuration for one run.
type Settings struct {
	Hosting Hosting `json:"hosting"`
	Podcast Podcast `json:"podcast"`
}

type document struct {
	Hosting Hosting `json:"hosting"`
	Podcast struct {
		Podcast
		Authors json.RawMessage `json:"authors"`
	} `json:"podcast"`
}

// Load reads and resolves the settings document at path.
func Load(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read configuration file %q", path)
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "failed to parse configuration file %q", path)
	}

	settings := &Settings{Hosting: doc.Hosting, Podcast: doc.Podcast.Podcast}

	if err := settings.resolve(); err != nil {
		return nil, err
	}

	authors, err := resolveAuthors(doc.Podcast.Authors)
	if err != nil {
		return nil, err
	}
	settings.Podcast.Authors = authors

	return settings, nil
}

func (s *Settings) resolve() error {
	required := []struct {
		path  string
		value string
	}{
		{"hosting.accessKey", s.Hosting.AccessKey},
		{"hosting.secret", s.Hosting.Secret},
		{"hosting.regionName", s.Hosting.Region},
		{"hosting.endpointUrl", s.Hosting.Endpoint},
		{"hosting.bucketName", s.Hosting.Bucket},
		{"hosting.episodePath", s.Hosting.EpisodePath},
		{"hosting.feedPath", s.Hosting.FeedPath},
		{"hosting.databasePath", s.Hosting.DatabasePath},
		{"podcast.name", s.Podcast.Name},
		{"podcast.description", s.Podcast.Description},
		{"podcast.language", s.Podcast.Language},
		{"podcast.category", s.Podcast.Category},
		{"podcast.logoUri", s.Podcast.LogoURI},
		{"podcast.website", s.Podcast.Website},
		{"podcast.explicit", s.Podcast.Explicit},
		{"podcast.author", s.Podcast.Author},
	}

	for _, field := range required {
		if field.value == "" {
			return errors.Wrap(ErrMissingConfig, field.path)
		}
	}
	return nil
}

// resolveAuthors validates the optional structured authors list. Every entry
// must be an object carrying only email, name and uri keys.
func resolveAuthors(raw json.RawMessage) ([]Author, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, errors.Wrap(ErrIllegalConfig, "podcast.authors")
	}

	authors := make([]Author, 0, len(entries))
	for _, entry := range entries {
		for key := range entry {
			switch key {
			case "email", "name", "uri":
			default:
				return nil, errors.Wrap(ErrIllegalConfig, "podcast.authors."+key)
			}
		}

		var author Author
		entryRaw, err := json.Marshal(entry)
		if err != nil {
			return nil, errors.Wrap(err, "failed to re-encode author entry")
		}
		if err := json.Unmarshal(entryRaw, &author); err != nil {
			return nil, errors.Wrap(ErrIllegalConfig, "podcast.authors")
		}
		authors = append(authors, author)
	}
	return authors, nil
}
