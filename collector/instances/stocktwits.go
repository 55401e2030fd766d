package collector_instances

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/collector"
	"github.com/cryptopulse/cryptopulse/model"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

const (
	stocktwitsSymbolUri = "https://stocktwits.com/symbol/%s"
	stocktwitsSettle    = 6 * time.Second
	stocktwitsMaxScroll = 30
)

// StocktwitsCollector renders a symbol stream in headless Chrome, Cloudflare
// rules out the plain HTTP API. StockTwits is the one platform where users
// self-tag posts Bullish/Bearish, which is the ground truth the classifier
// validation runs against.
type StocktwitsCollector struct{}

func NewStocktwitsCollector() *StocktwitsCollector {
	return &StocktwitsCollector{}
}

func (StocktwitsCollector) Source() string { return "stocktwits" }
func (StocktwitsCollector) Method() string { return model.MethodBrowser }

// Shape of the Next.js state blob embedded in the page. The JSON route is
// preferred over scraping rendered markup: it survives css class renames and
// carries the sentiment entity directly.
type stocktwitsNextData struct {
	Props struct {
		PageProps struct {
			Stream struct {
				Messages []stocktwitsMessage `json:"messages"`
			} `json:"stream"`
			Messages []stocktwitsMessage `json:"messages"`
		} `json:"pageProps"`
	} `json:"props"`
}

type stocktwitsMessage struct {
	Id        int64  `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	User      struct {
		Username string `json:"username"`
	} `json:"user"`
	Likes struct {
		Total int `json:"total"`
	} `json:"likes"`
	Entities struct {
		Sentiment *struct {
			Basic string `json:"basic"`
		} `json:"sentiment"`
	} `json:"entities"`
}

func (s *StocktwitsCollector) Collect(ctx context.Context, task collector.Task) ([]model.Post, error) {
	symbol := stocktwitsSymbolFor(task.Asset, task.Channel)
	limit := task.Limit
	if limit <= 0 {
		limit = 300
	}

	browser, err := collector.NewBrowser(ctx)
	if err != nil {
		return nil, errors.Wrapf(collector.ErrPlatformUnreachable, "stocktwits: %v", err)
	}
	defer browser.Close()

	if err := browser.Visit(fmt.Sprintf(stocktwitsSymbolUri, symbol), stocktwitsSettle); err != nil {
		return nil, errors.Wrapf(collector.ErrPlatformUnreachable, "stocktwits: %v", err)
	}

	seen := map[string]bool{}
	var posts []model.Post

	collect := func(doc *goquery.Document) {
		for _, msg := range extractNextDataMessages(doc) {
			id := strconv.FormatInt(msg.Id, 10)
			if msg.Id == 0 || seen[id] || len(posts) >= limit {
				continue
			}
			seen[id] = true

			var humanLabel *string
			if msg.Entities.Sentiment != nil && msg.Entities.Sentiment.Basic != "" {
				label := msg.Entities.Sentiment.Basic
				humanLabel = &label
			}
			posts = append(posts, model.Post{
				ExternalId:    id,
				Source:        s.Source(),
				Method:        s.Method(),
				Title:         msg.Body,
				Score:         msg.Likes.Total,
				CreatedAt:     collector.ParsePlatformTime(msg.CreatedAt, "stocktwits"),
				HumanLabel:    humanLabel,
				Author:        msg.User.Username,
				OriginChannel: symbol,
				Url:           fmt.Sprintf("https://stocktwits.com/symbol/%s", symbol),
			})
		}
	}

	doc, err := browser.Document()
	if err != nil {
		return nil, errors.Wrapf(collector.ErrPlatformUnreachable, "stocktwits: %v", err)
	}
	collect(doc)

	// Scroll to hydrate more of the stream until we have enough or the page
	// stops yielding new messages.
	for scroll := 0; len(posts) < limit && scroll < stocktwitsMaxScroll; scroll++ {
		before := len(posts)
		if err := browser.ScrollBy(1200); err != nil {
			Logger.Log.Warnf("stocktwits scroll failed after %d posts: %v", len(posts), err)
			break
		}
		time.Sleep(800 * time.Millisecond)
		doc, err := browser.Document()
		if err != nil {
			Logger.Log.Warnf("stocktwits snapshot failed after %d posts: %v", len(posts), err)
			break
		}
		collect(doc)
		if len(posts) == before {
			break
		}
	}

	return posts, nil
}

func extractNextDataMessages(doc *goquery.Document) []stocktwitsMessage {
	raw := doc.Find("script#__NEXT_DATA__").Text()
	if raw == "" {
		return nil
	}
	var data stocktwitsNextData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		Logger.Log.Warnf("stocktwits __NEXT_DATA__ parse failed: %v", err)
		return nil
	}
	msgs := data.Props.PageProps.Stream.Messages
	if len(msgs) == 0 {
		msgs = data.Props.PageProps.Messages
	}
	return msgs
}
