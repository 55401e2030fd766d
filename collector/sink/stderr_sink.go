package sink

import (
	"encoding/json"

	"github.com/cryptopulse/cryptopulse/model"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

// StdErrSink dumps pushed posts to stderr instead of persisting them. Useful
// when developing a new adapter without touching the store.
type StdErrSink struct{}

func NewStdErrSink() *StdErrSink {
	return &StdErrSink{}
}

func (s *StdErrSink) Push(posts []model.Post) (int, error) {
	for _, p := range posts {
		out, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return 0, err
		}
		Logger.Log.Info(string(out))
	}
	return len(posts), nil
}
