package collector_instances

import (
	"context"
	"strings"
	"sync"

	"github.com/gocolly/colly"
	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/model"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

const bitcointalkBoardUri = "https://bitcointalk.org/index.php?board=1.0"

// BitcointalkCollector crawls the Bitcoin Discussion board: topic links
// whose title mentions the asset are followed one level deep and their
// messages collected. Uses the SMF forum markup (td.td_headerandpost holds
// the message, the sibling td.poster_info holds the author).
type BitcointalkCollector struct {
	BoardUri string
}

func NewBitcointalkCollector() *BitcointalkCollector {
	return &BitcointalkCollector{BoardUri: bitcointalkBoardUri}
}

func (BitcointalkCollector) Source() string { return "bitcointalk" }
func (BitcointalkCollector) Method() string { return model.MethodHTTP }

func (b *BitcointalkCollector) Collect(ctx context.Context, task collector.Task) ([]model.Post, error) {
	keywords := keywordsFor(task.Asset)
	limit := task.Limit
	if limit <= 0 {
		limit = 100
	}

	var (
		m          sync.Mutex
		posts      []model.Post
		boardError error
	)

	c := colly.NewCollector(
		colly.UserAgent(collector.UserAgent),
		colly.MaxDepth(2),
	)

	// Board page: follow topic links whose title matches the asset.
	c.OnHTML("td.subject span > a, span.subject > a", func(e *colly.HTMLElement) {
		m.Lock()
		full := len(posts) >= limit
		m.Unlock()
		if full || !matchesAnyKeyword(e.Text, keywords) {
			return
		}
		if err := e.Request.Visit(e.Attr("href")); err != nil {
			// A single topic failing to load loses that topic only.
			Logger.Log.Warnf("bitcointalk topic visit failed: %v", err)
		}
	})

	// Topic page: one element per message.
	c.OnHTML("td.td_headerandpost", func(e *colly.HTMLElement) {
		id := e.ChildAttr("a[name]", "name")
		if !strings.HasPrefix(id, "msg") {
			return
		}
		text := strings.TrimSpace(e.ChildText("div.post"))
		if text == "" || !matchesAnyKeyword(text, keywords) {
			return
		}
		title := strings.TrimSpace(e.ChildText("div.subject"))
		author := strings.TrimSpace(e.DOM.Parent().Find("td.poster_info b a").First().Text())
		postedAt := collector.ParsePlatformTime(
			strings.TrimSpace(e.ChildText("div.smalltext")), "bitcointalk")

		m.Lock()
		defer m.Unlock()
		if len(posts) >= limit {
			return
		}
		posts = append(posts, model.Post{
			ExternalId:    id,
			Source:        b.Source(),
			Method:        b.Method(),
			Title:         title,
			Text:          text,
			CreatedAt:     postedAt,
			Author:        author,
			OriginChannel: "bitcoin-discussion",
			Url:           e.Request.URL.String() + "#" + id,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		if r.Request.URL.String() == b.BoardUri {
			boardError = err
		} else {
			Logger.Log.Warnf("bitcointalk request failed: %s: %v", r.Request.URL, err)
		}
	})

	if err := c.Visit(b.BoardUri); err != nil {
		boardError = err
	}
	c.Wait()

	if boardError != nil && len(posts) == 0 {
		return nil, errors.Wrapf(collector.ErrPlatformUnreachable, "bitcointalk: %v", boardError)
	}
	return posts, nil
}
