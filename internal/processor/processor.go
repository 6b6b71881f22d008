package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/arabicstories/covergen/internal/imagegen"
	"github.com/arabicstories/covergen/internal/storage"
	"github.com/arabicstories/covergen/internal/story"
)

// ErrNoPrompt marks a story that cannot be illustrated because its record
// carries no image prompt.
var ErrNoPrompt = errors.New("story has no image prompt")

// URLMarker identifies cover URLs produced by this tool's upload step. Any
// stored URL containing it is treated as already uploaded and the story is
// skipped, which makes whole-batch re-runs free.
const URLMarker = "firebasestorage"

// remotePrefix is the object path prefix for uploaded covers.
const remotePrefix = "story_covers"

// StoryProcessor runs the generate-or-reuse + upload pipeline for a single
// story. A local PNG per story acts as the resume point: if it exists the
// paid generation call is skipped and only the upload is retried.
type StoryProcessor struct {
	generator imagegen.Generator
	uploader  storage.Uploader
	imagesDir string
	limiter   *rate.Limiter
	log       *logrus.Logger
}

// New creates a processor. interval is the minimum spacing between
// generation calls; zero disables pacing (used in tests).
func New(generator imagegen.Generator, uploader storage.Uploader, imagesDir string, interval time.Duration, log *logrus.Logger) *StoryProcessor {
	return &StoryProcessor{
		generator: generator,
		uploader:  uploader,
		imagesDir: imagesDir,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		log:       log,
	}
}

// Process produces a public cover URL for the story at index, or an error
// when the story must be counted as failed. Rules, in order: no prompt is
// an immediate failure; an already-uploaded cover is returned as-is; an
// existing local file skips generation; otherwise generate, save, upload.
func (p *StoryProcessor) Process(ctx context.Context, rec *story.Record, index int) (string, error) {
	if rec.ImagePrompt == "" {
		p.log.Warnf("story %d: no image prompt found for %q", index, rec.Title)
		return "", ErrNoPrompt
	}

	if strings.Contains(rec.CoverImageURL, URLMarker) {
		p.log.Infof("story %d: already has an uploaded cover, skipping %q", index, truncate(rec.Title, 40))
		return rec.CoverImageURL, nil
	}

	p.log.Infof("story %d: %s", index, rec.Title)

	localName := LocalFilename(index, rec.Title)
	localPath := filepath.Join(p.imagesDir, localName)

	if _, err := os.Stat(localPath); err == nil {
		p.log.Infof("story %d: image already exists locally, reusing it", index)
	} else {
		if err := p.generate(ctx, rec, index, localPath); err != nil {
			return "", err
		}
	}

	remotePath := path.Join(remotePrefix, localName)
	publicURL, err := p.uploader.Upload(ctx, localPath, remotePath)
	if err != nil {
		p.log.Errorf("story %d: upload failed: %v", index, err)
		return "", fmt.Errorf("failed to upload cover: %w", err)
	}

	p.log.Infof("story %d: uploaded to %s", index, publicURL)
	return publicURL, nil
}

func (p *StoryProcessor) generate(ctx context.Context, rec *story.Record, index int, localPath string) error {
	// fixed spacing between paid generation calls, no dynamic backoff
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	if info := whatlanggo.Detect(rec.ImagePrompt); info.Lang != whatlanggo.Eng {
		p.log.Warnf("story %d: image prompt detected as %s; generation quality is best with English prompts",
			index, whatlanggo.LangToString(info.Lang))
	}

	p.log.Infof("story %d: generating image for %q", index, truncate(rec.Title, 40))

	data, err := p.generator.Generate(ctx, rec.ImagePrompt)
	if err != nil {
		p.log.Errorf("story %d: generation failed: %v", index, err)
		return fmt.Errorf("failed to generate image: %w", err)
	}

	if err := os.WriteFile(localPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}

	p.log.Infof("story %d: image saved to %s", index, localPath)
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
