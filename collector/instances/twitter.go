package collector_instances

import (
	"context"
	"strings"

	twitterscraper "github.com/n0madic/twitter-scraper"
	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/model"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

// TwitterCollector searches recent tweets for the asset's keywords through
// the unauthenticated scrape API.
type TwitterCollector struct {
	Scraper *twitterscraper.Scraper
}

func NewTwitterCollector() *TwitterCollector {
	scraper := twitterscraper.New()
	scraper.SetSearchMode(twitterscraper.SearchLatest)
	return &TwitterCollector{Scraper: scraper}
}

func (TwitterCollector) Source() string { return "twitter" }
func (TwitterCollector) Method() string { return model.MethodHTTP }

func (t *TwitterCollector) Collect(ctx context.Context, task collector.Task) ([]model.Post, error) {
	query := task.Channel
	if query == "" {
		query = strings.Join(keywordsFor(task.Asset), " OR ")
	}
	limit := task.Limit
	if limit <= 0 {
		limit = 100
	}

	var posts []model.Post
	for tweet := range t.Scraper.SearchTweets(ctx, query, limit) {
		if tweet.Error != nil {
			if len(posts) == 0 {
				return nil, errors.Wrapf(collector.ErrPlatformUnreachable, "twitter: %v", tweet.Error)
			}
			Logger.Log.Warnf("twitter search interrupted after %d tweets: %v", len(posts), tweet.Error)
			return posts, nil
		}
		posts = append(posts, model.Post{
			ExternalId:    tweet.ID,
			Source:        t.Source(),
			Method:        t.Method(),
			Text:          tweet.Text,
			Score:         tweet.Likes,
			CreatedAt:     tweet.TimeParsed.UTC(),
			Author:        tweet.Username,
			OriginChannel: query,
			Url:           tweet.PermanentURL,
			ReplyCount:    tweet.Replies,
		})
		if len(posts) >= limit {
			break
		}
	}
	return posts, nil
}
