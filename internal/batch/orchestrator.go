package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arabicstories/covergen/internal/story"
)

// DefaultCount is the CLI's default window size.
const DefaultCount = 10

// Mode selects which stories a run processes. The flags are mutually
// exclusive by construction of the CLI. In windowed mode a negative
// Start is clamped to 0 and a Count of zero or less selects nothing.
type Mode struct {
	Test  bool
	Level int
	All   bool
	Start int
	Count int
}

// Processor runs the per-story pipeline.
type Processor interface {
	Process(ctx context.Context, rec *story.Record, index int) (string, error)
}

// Summary reports the outcome of a run. Aborted is set when a
// full-catalog run was declined at the confirmation prompt.
type Summary struct {
	Succeeded     int
	Failed        int
	EstimatedCost float64
	Aborted       bool
}

// Config holds the orchestration settings.
type Config struct {
	// Confirm gates full-catalog runs. It must return true for the run to
	// proceed; declining aborts with no side effects.
	Confirm func() bool
	// StoryInterval is the pause between consecutive stories.
	StoryInterval time.Duration
	// CheckpointEvery saves the dataset after every Nth success.
	CheckpointEvery int
	// UnitPrice is the per-image cost used for the summary estimate.
	UnitPrice float64
	// Now supplies record update timestamps; defaults to time.Now.
	Now func() time.Time
}

// Orchestrator drives the processor over a selection of stories and keeps
// the dataset persisted as it goes. Individual story failures never abort
// the batch.
type Orchestrator struct {
	store     story.Store
	processor Processor
	cfg       Config
	log       *logrus.Logger
}

// New creates an orchestrator. Zero-valued Config fields get defaults
// (checkpoint every 5 successes, $0.04 per image, real clock, no pause).
func New(store story.Store, processor Processor, cfg Config, log *logrus.Logger) *Orchestrator {
	if cfg.CheckpointEvery <= 0 {
		cfg.CheckpointEvery = 5
	}
	if cfg.UnitPrice <= 0 {
		cfg.UnitPrice = 0.04
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Confirm == nil {
		cfg.Confirm = func() bool { return false }
	}
	return &Orchestrator{
		store:     store,
		processor: processor,
		cfg:       cfg,
		log:       log,
	}
}

// Select resolves a run mode into the ordered list of dataset indices to
// process. The first matching mode wins: test, level filter, all, window.
func Select(dataset *story.Dataset, mode Mode) []int {
	switch {
	case mode.Test:
		if dataset.Len() == 0 {
			return nil
		}
		return []int{0}

	case mode.Level > 0:
		var indices []int
		for i, rec := range dataset.Stories {
			if rec.DifficultyLevel == mode.Level {
				indices = append(indices, i)
			}
		}
		return indices

	case mode.All:
		indices := make([]int, dataset.Len())
		for i := range indices {
			indices[i] = i
		}
		return indices

	default:
		start := mode.Start
		if start < 0 {
			start = 0
		}
		end := start + mode.Count
		if end > dataset.Len() {
			end = dataset.Len()
		}
		var indices []int
		for i := start; i < end; i++ {
			indices = append(indices, i)
		}
		return indices
	}
}

// Run loads the dataset, processes the selection, checkpoints periodically
// and always saves once at the end. The returned summary is valid even
// when some stories failed.
func (o *Orchestrator) Run(ctx context.Context, mode Mode) (*Summary, error) {
	dataset, err := o.store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	o.log.Infof("loaded %d stories", dataset.Len())

	indices := Select(dataset, mode)

	switch {
	case mode.Test:
		o.log.Info("test mode: processing only the first story")
	case mode.Level > 0:
		o.log.Infof("processing level %d: %d stories", mode.Level, len(indices))
	case mode.All:
		o.log.Warnf("about to process ALL %d stories, estimated cost $%.2f",
			len(indices), float64(len(indices))*o.cfg.UnitPrice)
		if !o.cfg.Confirm() {
			o.log.Info("cancelled")
			return &Summary{Aborted: true}, nil
		}
	default:
		o.log.Infof("processing stories %d to %d (%d stories)",
			mode.Start, mode.Start+len(indices)-1, len(indices))
	}

	summary := &Summary{}

	for i, index := range indices {
		if i > 0 {
			if err := pause(ctx, o.cfg.StoryInterval); err != nil {
				return summary, err
			}
		}

		o.log.Infof("[%d/%d]", i+1, len(indices))

		rec := &dataset.Stories[index]
		url, err := o.processor.Process(ctx, rec, index)
		if err != nil {
			summary.Failed++
			continue
		}

		// an unchanged URL means the cover was already uploaded; leaving
		// the record untouched keeps re-runs byte-identical on disk
		if url != rec.CoverImageURL {
			rec.CoverImageURL = url
			rec.UpdatedAt = o.cfg.Now().UTC().Format(time.RFC3339)
		}
		summary.Succeeded++

		if summary.Succeeded%o.cfg.CheckpointEvery == 0 {
			if err := o.store.Save(dataset); err != nil {
				o.log.Errorf("checkpoint save failed: %v", err)
			} else {
				o.log.Info("progress saved")
			}
		}
	}

	if err := o.store.Save(dataset); err != nil {
		return summary, fmt.Errorf("failed to save dataset: %w", err)
	}

	summary.EstimatedCost = float64(summary.Succeeded) * o.cfg.UnitPrice

	o.log.Infof("successfully processed: %d", summary.Succeeded)
	o.log.Infof("failed: %d", summary.Failed)
	o.log.Infof("estimated cost: $%.2f", summary.EstimatedCost)

	return summary, nil
}

// pause waits for the fixed inter-story delay, honoring cancellation.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
