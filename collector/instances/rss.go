package collector_instances

import (
	"context"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/model"
)

const rssFeedUriTemplate = "https://cointelegraph.com/rss/tag/%s"

// RssCollector pulls the per-asset tag feed of a crypto news outlet. News
// headlines are not social posts but they anchor the sentiment series with
// a low-noise signal.
type RssCollector struct {
	Parser *gofeed.Parser
	// Feed URL with one %s for the asset tag; overridable for tests.
	UriTemplate string
}

func NewRssCollector() *RssCollector {
	parser := gofeed.NewParser()
	parser.UserAgent = collector.UserAgent
	return &RssCollector{Parser: parser, UriTemplate: rssFeedUriTemplate}
}

func (RssCollector) Source() string { return "rss" }
func (RssCollector) Method() string { return model.MethodHTTP }

func (r *RssCollector) Collect(ctx context.Context, task collector.Task) ([]model.Post, error) {
	uri := fmt.Sprintf(r.UriTemplate, task.Asset)
	if task.Channel != "" {
		uri = task.Channel
	}

	feed, err := r.Parser.ParseURLWithContext(uri, ctx)
	if err != nil {
		return nil, errors.Wrapf(collector.ErrPlatformUnreachable, "rss: %v", err)
	}

	limit := task.Limit
	if limit <= 0 || limit > len(feed.Items) {
		limit = len(feed.Items)
	}

	posts := make([]model.Post, 0, limit)
	for _, item := range feed.Items[:limit] {
		id := item.GUID
		if id == "" {
			id = item.Link
		}
		var published time.Time
		if item.PublishedParsed != nil {
			published = item.PublishedParsed.UTC()
		}
		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}
		posts = append(posts, model.Post{
			ExternalId:    id,
			Source:        r.Source(),
			Method:        r.Method(),
			Title:         item.Title,
			Text:          stripTags(item.Description),
			CreatedAt:     published,
			Author:        author,
			OriginChannel: feed.Title,
			Url:           item.Link,
		})
	}
	return posts, nil
}
