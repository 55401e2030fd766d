package sink

import (
	"github.com/cryptopulse/cryptopulse/model"
)

// CollectedPostSink receives the posts one adapter run produced. Push
// returns how many of them were actually new, so the caller can report
// "N collected, M new, K duplicate".
type CollectedPostSink interface {
	Push(posts []model.Post) (inserted int, err error)
}
