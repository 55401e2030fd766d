// Package store durably persists collected posts with at-most-one-copy-per-uid
// semantics, and serves filtered reads and flat-file exports.
package store

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cryptopulse/cryptopulse/model"
	"github.com/cryptopulse/cryptopulse/utils"
)

type PostStore struct {
	db      *gorm.DB
	journal *Journal
}

// NewPostStore wraps an already-migrated DB connection. journal may be nil,
// in which case no secondary copy is kept.
func NewPostStore(db *gorm.DB, journal *Journal) *PostStore {
	return &PostStore{db: db, journal: journal}
}

// PostUid derives the stable identity of a post: md5 over
// "source:method:external_id". Posts without a platform id fall back to
// title and creation time, which is the best stable surrogate available.
func PostUid(p *model.Post) string {
	base := fmt.Sprintf("%s:%s:%s", p.Source, p.Method, p.ExternalId)
	if p.ExternalId == "" {
		base = fmt.Sprintf("%s:%s:%s:%d", p.Source, p.Method, p.Title, p.CreatedAt.Unix())
	}
	md5, _ := utils.TextToMd5Hash(base)
	return md5
}

// Save inserts the batch, silently skipping posts whose uid already exists.
// The primary key constraint is what enforces uniqueness, so overlapping
// batches and concurrent saves of the same post still end with exactly one
// row. Returns the number of rows actually inserted.
func (s *PostStore) Save(posts []model.Post) (int, error) {
	inserted := 0
	now := time.Now().UTC()

	for i := range posts {
		p := &posts[i]
		if p.Uid == "" {
			p.Uid = PostUid(p)
		}
		if p.ScrapedAt.IsZero() {
			p.ScrapedAt = now
		}

		res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(p)
		if res.Error != nil {
			return inserted, errors.Wrap(res.Error, "fail to insert post")
		}
		if res.RowsAffected == 0 {
			continue
		}
		inserted++
		if s.journal != nil {
			if err := s.journal.Append(p); err != nil {
				// The primary store already holds the row; a journal write
				// failure degrades the backup copy but must not fail the save.
				utils.ImmediatePrintError(err)
			}
		}
	}
	return inserted, nil
}

// Filters narrow a read. Zero values mean no constraint on that field.
type Filters struct {
	Source  string
	Method  string
	Channel string
	Limit   int
}

// Query returns matching posts in reverse-chronological order by scraped_at.
func (s *PostStore) Query(f Filters) ([]model.Post, error) {
	q := s.db.Model(&model.Post{})
	if f.Source != "" {
		q = q.Where("source = ?", f.Source)
	}
	if f.Method != "" {
		q = q.Where("method = ?", f.Method)
	}
	if f.Channel != "" {
		q = q.Where("origin_channel = ?", f.Channel)
	}
	q = q.Order("scraped_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var posts []model.Post
	if err := q.Find(&posts).Error; err != nil {
		return nil, errors.Wrap(err, "fail to query posts")
	}
	return posts, nil
}

type SourceMethodCount struct {
	Source string `json:"source"`
	Method string `json:"method"`
	Count  int64  `json:"count"`
}

type Stats struct {
	TotalPosts     int64               `json:"total_posts"`
	BySourceMethod []SourceMethodCount `json:"by_source_method"`
	FirstScrape    *time.Time          `json:"first_scrape"`
	LastScrape     *time.Time          `json:"last_scrape"`
}

// Stats returns the total post count and a breakdown by (source, method).
func (s *PostStore) Stats() (*Stats, error) {
	var stats Stats
	if err := s.db.Model(&model.Post{}).Count(&stats.TotalPosts).Error; err != nil {
		return nil, errors.Wrap(err, "fail to count posts")
	}

	err := s.db.Model(&model.Post{}).
		Select("source, method, count(*) as count").
		Group("source").Group("method").
		Order("source").Order("method").
		Scan(&stats.BySourceMethod).Error
	if err != nil {
		return nil, errors.Wrap(err, "fail to group posts")
	}

	if stats.TotalPosts > 0 {
		// Aggregate min/max over a datetime column come back as TEXT on
		// SQLite, so fetch the bounds as rows and let gorm scan the field.
		var first, last model.Post
		if err := s.db.Order("scraped_at ASC").First(&first).Error; err != nil {
			return nil, errors.Wrap(err, "fail to read first scrape")
		}
		if err := s.db.Order("scraped_at DESC").First(&last).Error; err != nil {
			return nil, errors.Wrap(err, "fail to read last scrape")
		}
		stats.FirstScrape, stats.LastScrape = &first.ScrapedAt, &last.ScrapedAt
	}
	return &stats, nil
}
