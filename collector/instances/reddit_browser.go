package collector_instances

import (
	"context"
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
	// Slower and detection-prone, kept well under the HTTP adapter's reach.
	redditBrowserMaxPosts = 200
	redditBrowserSettle   = 3 * time.Second
)

// RedditBrowserCollector drives the old-markup listing through headless
// Chrome. Functionally it overlaps the HTTP adapter; it exists for the case
// where the JSON listing is throttled but the rendered site still serves.
type RedditBrowserCollector struct{}

func NewRedditBrowserCollector() *RedditBrowserCollector {
	return &RedditBrowserCollector{}
}

func (RedditBrowserCollector) Source() string { return "reddit" }
func (RedditBrowserCollector) Method() string { return model.MethodBrowser }

func (r *RedditBrowserCollector) Collect(ctx context.Context, task collector.Task) ([]model.Post, error) {
	sub := subredditFor(task.Asset, task.Channel)
	limit := task.Limit
	if limit <= 0 || limit > redditBrowserMaxPosts {
		limit = redditBrowserMaxPosts
	}

	browser, err := collector.NewBrowser(ctx)
	if err != nil {
		return nil, errors.Wrapf(collector.ErrPlatformUnreachable, "reddit browser: %v", err)
	}
	defer browser.Close()

	if err := browser.Visit(fmt.Sprintf("https://old.reddit.com/r/%s/new/", sub), redditBrowserSettle); err != nil {
		return nil, errors.Wrapf(collector.ErrPlatformUnreachable, "reddit browser: %v", err)
	}

	seen := map[string]bool{}
	var posts []model.Post
	// Each old-markup page lists 25 posts; paginate with the next button.
	maxPages := limit/25 + 2

	for page := 0; page < maxPages && len(posts) < limit; page++ {
		doc, err := browser.Document()
		if err != nil {
			Logger.Log.Warnf("reddit browser snapshot failed after %d posts: %v", len(posts), err)
			break
		}

		doc.Find("div.thing.link").Each(func(_ int, elem *goquery.Selection) {
			if len(posts) >= limit || elem.HasClass("stickied") || elem.HasClass("promoted") {
				return
			}
			id, _ := elem.Attr("data-fullname")
			if id == "" || seen[id] {
				return
			}
			title := elem.Find("a.title").First().Text()
			if title == "" {
				return
			}
			seen[id] = true

			scoreText := elem.Find("div.score.unvoted").First().Text()
			score, err := strconv.Atoi(scoreText)
			if err != nil {
				score = 0
			}
			author := elem.Find("a.author").First().Text()
			permalink, _ := elem.Attr("data-permalink")
			timestamp, _ := elem.Find("time").First().Attr("datetime")
			comments, _ := elem.Attr("data-comments-count")
			replyCount, _ := strconv.Atoi(comments)

			posts = append(posts, model.Post{
				ExternalId:    id,
				Source:        r.Source(),
				Method:        r.Method(),
				Title:         title,
				Score:         score,
				CreatedAt:     collector.ParsePlatformTime(timestamp, "reddit"),
				Author:        author,
				OriginChannel: sub,
				Url:           "https://www.reddit.com" + permalink,
				ReplyCount:    replyCount,
			})
		})

		if len(posts) >= limit {
			break
		}
		if err := browser.Click("span.next-button a"); err != nil {
			// Last page, or the button never rendered; either way we are done.
			break
		}
		time.Sleep(redditBrowserSettle)
	}

	return posts, nil
}
