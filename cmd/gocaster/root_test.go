package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gocaster/internal/publisher"
)

func TestPromptMissingAsksOnlyForEmptyFields(t *testing.T) {
	in := strings.NewReader("My Title\n42:00\n")
	var out bytes.Buffer

	input := publisher.EpisodeInput{
		Description:  "already set",
		FileLocation: "/tmp/episode.mp3",
		IsExplicit:   "no",
	}
	promptMissing(in, &out, &input)

	assert.Equal(t, "My Title", input.Title)
	assert.Equal(t, "42:00", input.Duration)
	assert.Equal(t, "already set", input.Description)
	assert.Equal(t, "/tmp/episode.mp3", input.FileLocation)

	prompts := out.String()
	assert.Contains(t, prompts, "title of this episode")
	assert.Contains(t, prompts, "duration (mm:ss)")
	assert.NotContains(t, prompts, "description")
}

func TestResolvePathPrecedence(t *testing.T) {
	t.Setenv("GOCASTER_TEST_PATH", "/from/env")

	assert.Equal(t, "/from/flag", resolvePath("/from/flag", "GOCASTER_TEST_PATH", "fallback"))
	assert.Equal(t, "/from/env", resolvePath("", "GOCASTER_TEST_PATH", "fallback"))

	t.Setenv("GOCASTER_TEST_PATH", "")
	assert.Equal(t, "fallback", resolvePath("", "GOCASTER_TEST_PATH", "fallback"))
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()

	for _, name := range []string{"republish", "title", "description", "explicit", "duration", "file", "config", "db"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s must exist", name)
	}

	republish, err := cmd.Flags().GetBool("republish")
	assert.NoError(t, err)
	assert.False(t, republish)
}
