package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocaster/internal/test"
)

const validDocument = `{
	"hosting": {
		"accessKey": "AKIA123",
		"secret": "s3cret",
		"regionName": "ams3",
		"endpointUrl": "https://ams3.digitaloceanspaces.com",
		"bucketName": "my-podcast",
		"episodePath": "episodes",
		"feedPath": "feed",
		"databasePath": "backup"
	},
	"podcast": {
		"name": "Test Show",
		"description": "A show about testing",
		"language": "en-us",
		"category": "Technology",
		"logoUri": "https://example.com/logo.png",
		"website": "https://example.com",
		"explicit": "no",
		"author": "host@example.com",
		"subtitle": "Weekly testing talk"
	}
}`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	return test.WriteFile(t, t.TempDir(), "config.json", contents)
}

func TestLoadValidDocument(t *testing.T) {
	settings, err := Load(writeConfig(t, validDocument))
	require.NoError(t, err)

	assert.Equal(t, "my-podcast", settings.Hosting.Bucket)
	assert.Equal(t, "https://ams3.digitaloceanspaces.com", settings.Hosting.Endpoint)
	assert.Equal(t, "episodes", settings.Hosting.EpisodePath)
	assert.Equal(t, "Test Show", settings.Podcast.Name)
	assert.Equal(t, "host@example.com", settings.Podcast.Author)
	assert.Equal(t, "Weekly testing talk", settings.Podcast.Subtitle)
	assert.Empty(t, settings.Podcast.Authors)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir() + "/nope.json")
	assert.Error(t, err)
}

func TestLoadMissingBucketName(t *testing.T) {
	doc := `{
		"hosting": {
			"accessKey": "AKIA123",
			"secret": "s3cret",
			"regionName": "ams3",
			"endpointUrl": "https://ams3.digitaloceanspaces.com",
			"episodePath": "episodes",
			"feedPath": "feed",
			"databasePath": "backup"
		},
		"podcast": {
			"name": "Test Show",
			"description": "A show about testing",
			"language": "en-us",
			"category": "Technology",
			"logoUri": "https://example.com/logo.png",
			"website": "https://example.com",
			"explicit": "no",
			"author": "host@example.com"
		}
	}`

	_, err := Load(writeConfig(t, doc))
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "hosting.bucketName")
}

func TestLoadMissingPodcastSection(t *testing.T) {
	_, err := Load(writeConfig(t, `{"hosting": {}, "podcast": {}}`))
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestLoadSubtitleOptional(t *testing.T) {
	doc := `{
		"hosting": {
			"accessKey": "AKIA123",
			"secret": "s3cret",
			"regionName": "ams3",
			"endpointUrl": "https://ams3.digitaloceanspaces.com",
			"bucketName": "my-podcast",
			"episodePath": "episodes",
			"feedPath": "feed",
			"databasePath": "backup"
		},
		"podcast": {
			"name": "Test Show",
			"description": "A show about testing",
			"language": "en-us",
			"category": "Technology",
			"logoUri": "https://example.com/logo.png",
			"website": "https://example.com",
			"explicit": "no",
			"author": "host@example.com"
		}
	}`

	settings, err := Load(writeConfig(t, doc))
	require.NoError(t, err)
	assert.Empty(t, settings.Podcast.Subtitle)
}

func TestLoadStructuredAuthors(t *testing.T) {
	doc := `{
		"hosting": {
			"accessKey": "AKIA123",
			"secret": "s3cret",
			"regionName": "ams3",
			"endpointUrl": "https://ams3.digitaloceanspaces.com",
			"bucketName": "my-podcast",
			"episodePath": "episodes",
			"feedPath": "feed",
			"databasePath": "backup"
		},
		"podcast": {
			"name": "Test Show",
			"description": "A show about testing",
			"language": "en-us",
			"category": "Technology",
			"logoUri": "https://example.com/logo.png",
			"website": "https://example.com",
			"explicit": "no",
			"author": "host@example.com",
			"authors": [
				{"email": "host@example.com", "name": "The Host", "uri": "https://example.com/host"},
				{"email": "guest@example.com"}
			]
		}
	}`

	settings, err := Load(writeConfig(t, doc))
	require.NoError(t, err)
	require.Len(t, settings.Podcast.Authors, 2)
	assert.Equal(t, "The Host", settings.Podcast.Authors[0].Name)
	assert.Equal(t, "guest@example.com", settings.Podcast.Authors[1].Email)
}

func TestLoadAuthorsIllegalKey(t *testing.T) {
	doc := `{
		"hosting": {
			"accessKey": "AKIA123",
			"secret": "s3cret",
			"regionName": "ams3",
			"endpointUrl": "https://ams3.digitaloceanspaces.com",
			"bucketName": "my-podcast",
			"episodePath": "episodes",
			"feedPath": "feed",
			"databasePath": "backup"
		},
		"podcast": {
			"name": "Test Show",
			"description": "A show about testing",
			"language": "en-us",
			"category": "Technology",
			"logoUri": "https://example.com/logo.png",
			"website": "https://example.com",
			"explicit": "no",
			"author": "host@example.com",
			"authors": [{"email": "host@example.com", "twitter": "@host"}]
		}
	}`

	_, err := Load(writeConfig(t, doc))
	require.ErrorIs(t, err, ErrIllegalConfig)
	assert.Contains(t, err.Error(), "podcast.authors.twitter")
}

func TestLoadAuthorsNotObjects(t *testing.T) {
	doc := `{
		"hosting": {
			"accessKey": "AKIA123",
			"secret": "s3cret",
			"regionName": "ams3",
			"endpointUrl": "https://ams3.digitaloceanspaces.com",
			"bucketName": "my-podcast",
			"episodePath": "episodes",
			"feedPath": "feed",
			"databasePath": "backup"
		},
		"podcast": {
			"name": "Test Show",
			"description": "A show about testing",
			"language": "en-us",
			"category": "Technology",
			"logoUri": "https://example.com/logo.png",
			"website": "https://example.com",
			"explicit": "no",
			"author": "host@example.com",
			"authors": ["host@example.com"]
		}
	}`

	_, err := Load(writeConfig(t, doc))
	assert.ErrorIs(t, err, ErrIllegalConfig)
}
