package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"gocaster/internal/config"
	"gocaster/internal/db"
	"gocaster/internal/logging"
	"gocaster/internal/publisher"
	"gocaster/internal/uploader"
)

const (
	defaultConfigPath = "config.json"
	defaultStorePath  = "gocaster.db"
)

func newRootCommand() *cobra.Command {
	var (
		republish   bool
		title       string
		description string
		explicit    string
		duration    string
		file        string
		configPath  string
		storePath   string
		logLevel    string
	)

	rootCmd := &cobra.Command{
		Use:           "gocaster",
		Short:         "Publish podcast episodes to object storage",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				log.Println("No .env file loaded")
			}

			settings, err := config.Load(resolvePath(configPath, "GOCASTER_CONFIG", defaultConfigPath))
			if err != nil {
				return errors.Wrap(err, "an error occurred while loading the configuration")
			}

			input := publisher.EpisodeInput{
				Title:        title,
				Description:  description,
				Duration:     duration,
				FileLocation: file,
				IsExplicit:   explicit,
			}
			if !republish {
				promptMissing(cmd.InOrStdin(), cmd.OutOrStdout(), &input)
			}

			store, err := db.Open(resolvePath(storePath, "GOCASTER_DB", defaultStorePath))
			if err != nil {
				return err
			}
			defer store.Close()

			up, err := uploader.New(cmd.Context(), settings.Hosting)
			if err != nil {
				return err
			}

			pub := publisher.New(settings, store, up, logging.New(logLevel), cmd.OutOrStdout())

			if republish {
				if err := pub.Republish(cmd.Context()); err != nil {
					return errors.Wrap(err, "an error occurred while re-publishing the episodes")
				}
				return nil
			}
			if err := pub.PublishNew(cmd.Context(), input); err != nil {
				return errors.Wrap(err, "an error occurred while uploading the new episode")
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&republish, "republish", false, "Regenerate the feed from published history without a new episode")
	rootCmd.Flags().StringVar(&title, "title", "", "The title of this episode")
	rootCmd.Flags().StringVar(&description, "description", "", "The description of this episode (can be a path to a text file)")
	rootCmd.Flags().StringVar(&explicit, "explicit", "", `"yes" or "no" regarding the episode being explicit`)
	rootCmd.Flags().StringVar(&duration, "duration", "", "The duration (mm:ss) of this episode")
	rootCmd.Flags().StringVar(&file, "file", "", "The file location of this episode")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	rootCmd.Flags().StringVar(&storePath, "db", "", "Episode database file path")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	return rootCmd
}

func resolvePath(flagValue, envKey, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return fallback
}

// promptMissing asks interactively for every episode field not already
// supplied as a flag, mirroring the prompt-per-option behavior operators
// expect from the tool.
func promptMissing(in io.Reader, out io.Writer, input *publisher.EpisodeInput) {
	reader := bufio.NewReader(in)

	prompt := func(label string, value *string) {
		if *value != "" {
			return
		}
		fmt.Fprintf(out, "%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		*value = strings.TrimSpace(line)
	}

	prompt("Enter the title of this episode", &input.Title)
	prompt("Enter the description of this episode (can be path to a text file)", &input.Description)
	prompt(`Enter "yes" or "no" regarding the episode being explicit`, &input.IsExplicit)
	prompt("Enter the duration (mm:ss) of this episode", &input.Duration)
	prompt("Enter the file location of this episode", &input.FileLocation)
}
