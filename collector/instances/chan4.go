package collector_instances

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/collector/clients"
	"github.com/cryptopulse/cryptopulse/model"
)

const chan4BaseUri = "https://a.4cdn.org"

// Chan4ApiCollector reads the /biz/ catalog through 4chan's read-only JSON
// API and keeps the thread OPs mentioning the asset. No login, no cursor:
// the whole catalog comes back in one request.
type Chan4ApiCollector struct {
	Client  *clients.HttpClient
	BaseUri string
	Board   string
}

func NewChan4ApiCollector() *Chan4ApiCollector {
	header := http.Header{}
	header.Set("User-Agent", collector.UserAgent)
	header.Set("Referer", "https://boards.4chan.org/biz/")
	return &Chan4ApiCollector{
		Client:  clients.NewHttpClient(header, nil),
		BaseUri: chan4BaseUri,
		Board:   "biz",
	}
}

func (Chan4ApiCollector) Source() string { return "4chan" }
func (Chan4ApiCollector) Method() string { return model.MethodHTTP }

type chan4CatalogPage struct {
	Page    int `json:"page"`
	Threads []struct {
		No      int64  `json:"no"`
		Sub     string `json:"sub"`
		Com     string `json:"com"`
		Name    string `json:"name"`
		Time    int64  `json:"time"`
		Replies int    `json:"replies"`
	} `json:"threads"`
}

func (c *Chan4ApiCollector) Collect(ctx context.Context, task collector.Task) ([]model.Post, error) {
	uri := fmt.Sprintf("%s/%s/catalog.json", c.BaseUri, c.Board)
	var catalog []chan4CatalogPage
	if err := collector.HttpGetAndParseJsonResponse(c.Client, uri, &catalog); err != nil {
		return nil, errors.Wrapf(collector.ErrPlatformUnreachable, "4chan: %v", err)
	}

	keywords := keywordsFor(task.Asset)
	limit := task.Limit
	if limit <= 0 {
		limit = 200
	}

	var posts []model.Post
	for _, page := range catalog {
		for _, thread := range page.Threads {
			if len(posts) >= limit {
				return posts, nil
			}
			title := stripTags(thread.Sub)
			body := stripTags(thread.Com)
			if !matchesAnyKeyword(title+" "+body, keywords) {
				continue
			}
			author := thread.Name
			if author == "" {
				author = "Anonymous"
			}
			posts = append(posts, model.Post{
				ExternalId:    strconv.FormatInt(thread.No, 10),
				Source:        c.Source(),
				Method:        c.Method(),
				Title:         title,
				Text:          body,
				Score:         thread.Replies,
				CreatedAt:     collector.EpochToTime(float64(thread.Time)),
				Author:        author,
				OriginChannel: c.Board,
				Url:           fmt.Sprintf("https://boards.4chan.org/%s/thread/%d", c.Board, thread.No),
				ReplyCount:    thread.Replies,
			})
		}
	}
	return posts, nil
}
