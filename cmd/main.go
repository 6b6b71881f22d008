package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arabicstories/covergen/internal/batch"
	"github.com/arabicstories/covergen/internal/config"
	"github.com/arabicstories/covergen/internal/imagegen"
	"github.com/arabicstories/covergen/internal/processor"
	"github.com/arabicstories/covergen/internal/storage"
	"github.com/arabicstories/covergen/internal/story"
)

var mode batch.Mode

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "covergen",
		Short:        "Generate story cover images and upload them to Firebase Storage",
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// a .env file is optional; real environment variables win
			_ = godotenv.Load()

			if os.Getenv("OPENAI_API_KEY") == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set\n" +
					"  Get your API key from: https://platform.openai.com/api-keys\n" +
					"  Then run: export OPENAI_API_KEY='your-key-here'")
			}
			return nil
		},
		RunE: run,
	}

	rootCmd.Flags().BoolVar(&mode.Test, "test", false, "process only the first story")
	rootCmd.Flags().IntVar(&mode.Level, "level", 0, "process stories for a specific difficulty level")
	rootCmd.Flags().BoolVar(&mode.All, "all", false, "process ALL stories (asks for confirmation)")
	rootCmd.Flags().IntVar(&mode.Start, "start", 0, "start index for batch processing")
	rootCmd.Flags().IntVar(&mode.Count, "count", batch.DefaultCount, "number of stories to process")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logrus.StandardLogger()

	cfg, err := config.NewFromEnv()
	if err != nil {
		return err
	}

	log.Info("initializing Firebase storage")
	uploader, err := storage.NewFirebaseUploader(ctx, cfg.Storage.Bucket, cfg.Storage.ServiceAccountPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	log.Info("initializing OpenAI client")
	generator, err := imagegen.NewClient(imagegen.Config{
		APIKey:  cfg.OpenAI.APIKey,
		APIURL:  cfg.OpenAI.APIURL,
		Model:   cfg.OpenAI.Model,
		Timeout: time.Duration(cfg.OpenAI.Timeout) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize image client: %w", err)
	}

	if err := os.MkdirAll(cfg.Dataset.ImagesDir, 0o755); err != nil {
		return fmt.Errorf("failed to create images directory: %w", err)
	}

	log.Infof("loading stories from %s", cfg.Dataset.StoriesPath)
	store := story.NewFileStore(cfg.Dataset.StoriesPath)

	proc := processor.New(generator, uploader, cfg.Dataset.ImagesDir, cfg.Batch.GenerateInterval, log)

	orchestrator := batch.New(store, proc, batch.Config{
		Confirm:         confirmFromStdin,
		StoryInterval:   cfg.Batch.StoryInterval,
		CheckpointEvery: cfg.Batch.CheckpointEvery,
		UnitPrice:       cfg.Batch.UnitPrice,
	}, log)

	summary, err := orchestrator.Run(ctx, mode)
	if err != nil {
		return err
	}
	if summary.Aborted {
		return nil
	}

	log.Infof("images saved in %s/", cfg.Dataset.ImagesDir)
	return nil
}

// confirmFromStdin asks the operator to type the literal "yes" before an
// expensive full-catalog run.
func confirmFromStdin() bool {
	fmt.Print("Type 'yes' to continue: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == "yes"
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logrus.SetLevel(logrus.InfoLevel)

	if err := newRootCmd().Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}
