package collector

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/model"
)

// ErrPlatformUnreachable marks a total connectivity failure: the platform
// could not be reached at all, as opposed to "reachable but returned zero
// posts" (empty slice, nil error) and "failed mid-pagination" (partial
// slice, nil error).
var ErrPlatformUnreachable = errors.New("platform unreachable")

// Task is one collection run: fetch up to Limit posts about one crypto asset
// from one platform channel.
type Task struct {
	TaskId string
	// Canonical asset identifier, e.g. "bitcoin".
	Asset string
	// Platform channel to read from: subreddit, StockTwits symbol (BTC.X),
	// board, repo list or feed name. Empty means the adapter's default
	// channel for the asset.
	Channel string
	Limit   int
}

func NewTask(asset, channel string, limit int) Task {
	return Task{
		TaskId:  uuid.New().String(),
		Asset:   asset,
		Channel: channel,
		Limit:   limit,
	}
}

// Metadata records the outcome of one task the way the caller reports it:
// "N collected, M new, K duplicate".
type Metadata struct {
	TaskId     string        `json:"task_id"`
	Source     string        `json:"source"`
	Method     string        `json:"method"`
	Asset      string        `json:"asset"`
	Collected  int           `json:"collected"`
	New        int           `json:"new"`
	Duplicate  int           `json:"duplicate"`
	Skipped    int           `json:"skipped"`
	Elapsed    time.Duration `json:"-"`
	ElapsedSec float64       `json:"time_seconds"`
}

// PostCollector is the single capability all source adapters implement:
// fetch posts for an asset, already mapped into the common Post shape.
//
// Contract:
//   - len(result) <= task.Limit; fewer available posts is not an error.
//   - A request failing mid-collection returns the partial batch with a nil
//     error. Social platforms are rate-limit-prone and a partial batch is
//     more useful than none.
//   - Total unreachability returns an error wrapping ErrPlatformUnreachable.
//   - Adapters are stateless across invocations; the only side effects are
//     outbound network calls.
type PostCollector interface {
	Source() string
	Method() string
	Collect(ctx context.Context, task Task) ([]model.Post, error)
}
