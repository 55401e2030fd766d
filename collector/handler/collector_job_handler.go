package handler

import (
	"context"
	"time"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/collector/sink"
	"github.com/cryptopulse/cryptopulse/collector/validation"
	"github.com/cryptopulse/cryptopulse/model"
	"github.com/cryptopulse/cryptopulse/normalize"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

// Per-platform cleaning decisions. Emoji stay on platforms where they carry
// sentiment (rocket/chart emoji on stocktwits and twitter are half the
// signal); reddit-style refs only exist on reddit; cashtags are noise on the
// symbol-stream platforms.
var normalizeOptions = map[string]normalize.Options{
	"reddit":      {StripRedditRefs: true},
	"stocktwits":  {StripCashtags: true},
	"twitter":     {StripCashtags: true},
	"4chan":       {StripEmoji: true},
	"bitcointalk": {StripEmoji: true},
	"github":      {StripEmoji: true},
	"rss":         {StripEmoji: true},
}

// DataCollectJobHandler runs one scrape task end to end: adapter fetch,
// normalization, validation, and push into the sink, recording the outcome
// counts the user sees.
type DataCollectJobHandler struct {
	Sink sink.CollectedPostSink
}

func (h DataCollectJobHandler) Collect(
	ctx context.Context, c collector.PostCollector, task collector.Task) (*collector.Metadata, error) {
	start := time.Now()
	Logger.Log.Infof("collect task %s: source=%s method=%s asset=%s limit=%d",
		task.TaskId, c.Source(), c.Method(), task.Asset, task.Limit)

	posts, err := c.Collect(ctx, task)
	if err != nil {
		// Only total unreachability lands here; partial batches came back
		// with a nil error and are processed below.
		Logger.Log.Errorf("collect task %s failed: %v", task.TaskId, err)
		return nil, err
	}

	opts := normalizeOptions[c.Source()]
	kept := make([]model.Post, 0, len(posts))
	skipped := 0
	for i := range posts {
		p := posts[i]
		p.Title = normalize.Clean(p.Title, opts)
		p.Text = normalize.Clean(p.Text, opts)
		if err := validation.ValidatePost(&p); err != nil {
			Logger.Log.Warnf("skip invalid %s post: %v", c.Source(), err)
			skipped++
			continue
		}
		kept = append(kept, p)
	}

	inserted, err := h.Sink.Push(kept)
	if err != nil {
		return nil, err
	}

	meta := &collector.Metadata{
		TaskId:    task.TaskId,
		Source:    c.Source(),
		Method:    c.Method(),
		Asset:     task.Asset,
		Collected: len(posts),
		New:       inserted,
		Duplicate: len(kept) - inserted,
		Skipped:   skipped,
		Elapsed:   time.Since(start),
	}
	meta.ElapsedSec = meta.Elapsed.Seconds()
	Logger.Log.Infof("collect task %s done: %d collected, %d new, %d duplicate, %d skipped",
		task.TaskId, meta.Collected, meta.New, meta.Duplicate, meta.Skipped)
	return meta, nil
}
