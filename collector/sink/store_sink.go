package sink

import (
	"github.com/cryptopulse/cryptopulse/model"
	"github.com/cryptopulse/cryptopulse/store"
)

// StoreSink persists pushed posts into the deduplicating store. This is the
// production sink.
type StoreSink struct {
	store *store.PostStore
}

func NewStoreSink(s *store.PostStore) *StoreSink {
	return &StoreSink{store: s}
}

func (s *StoreSink) Push(posts []model.Post) (int, error) {
	return s.store.Save(posts)
}
