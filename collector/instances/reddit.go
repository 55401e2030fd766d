package collector_instances

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/collector/clients"
	"github.com/cryptopulse/cryptopulse/model"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

const (
	redditBaseUri = "https://old.reddit.com"
	// Reddit's JSON listing serves at most ~1000 posts per subreddit.
	redditHttpMaxPosts = 1000
	redditPageSize     = 100
	redditPageDelay    = 300 * time.Millisecond
)

// RedditHttpCollector reads a subreddit's /new listing through the public
// JSON API, paginating with the "after" fullname cursor.
type RedditHttpCollector struct {
	Client *clients.HttpClient
	// Overridable for tests.
	BaseUri string
}

func NewRedditHttpCollector() *RedditHttpCollector {
	header := http.Header{}
	header.Set("User-Agent", collector.UserAgent)
	return &RedditHttpCollector{
		Client:  clients.NewHttpClient(header, nil),
		BaseUri: redditBaseUri,
	}
}

func (RedditHttpCollector) Source() string { return "reddit" }
func (RedditHttpCollector) Method() string { return model.MethodHTTP }

type redditListing struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Data struct {
				Id          string  `json:"id"`
				Title       string  `json:"title"`
				SelfText    string  `json:"selftext"`
				Author      string  `json:"author"`
				Subreddit   string  `json:"subreddit"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				CreatedUTC  float64 `json:"created_utc"`
				Permalink   string  `json:"permalink"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (r *RedditHttpCollector) Collect(ctx context.Context, task collector.Task) ([]model.Post, error) {
	sub := subredditFor(task.Asset, task.Channel)
	limit := task.Limit
	if limit <= 0 || limit > redditHttpMaxPosts {
		limit = redditHttpMaxPosts
	}

	var posts []model.Post
	after := ""
	for len(posts) < limit {
		if err := ctx.Err(); err != nil {
			return posts, nil
		}

		params := map[string]string{
			"limit": fmt.Sprintf("%d", min(redditPageSize, limit-len(posts))),
		}
		if after != "" {
			params["after"] = after
		}

		uri, _ := collector.BuildUriWithParams(fmt.Sprintf("%s/r/%s/new.json", r.BaseUri, sub), params)
		var listing redditListing
		if err := collector.HttpGetAndParseJsonResponse(r.Client, uri, &listing); err != nil {
			if len(posts) == 0 {
				return nil, errors.Wrapf(collector.ErrPlatformUnreachable, "reddit: %v", err)
			}
			// Mid-pagination failure: keep what we have, rate limits are
			// routine here.
			Logger.Log.Warnf("reddit page fetch failed after %d posts: %v", len(posts), err)
			return posts, nil
		}

		if len(listing.Data.Children) == 0 {
			break
		}
		for _, child := range listing.Data.Children {
			d := child.Data
			if d.Id == "" && d.Title == "" {
				continue
			}
			posts = append(posts, model.Post{
				ExternalId:    d.Id,
				Source:        r.Source(),
				Method:        r.Method(),
				Title:         d.Title,
				Text:          d.SelfText,
				Score:         d.Score,
				CreatedAt:     collector.EpochToTime(d.CreatedUTC),
				Author:        d.Author,
				OriginChannel: d.Subreddit,
				Url:           "https://www.reddit.com" + d.Permalink,
				ReplyCount:    d.NumComments,
			})
			if len(posts) >= limit {
				break
			}
		}

		after = listing.Data.After
		if after == "" {
			break
		}
		time.Sleep(redditPageDelay)
	}

	return posts, nil
}
