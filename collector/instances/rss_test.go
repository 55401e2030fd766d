package collector_instances

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptopulse/cryptopulse/collector"
)

const rssFeedBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
  <title>Cointelegraph Bitcoin News</title>
  <item>
    <title>Bitcoin breaks resistance</title>
    <description>Price analysis &lt;b&gt;says&lt;/b&gt; up only</description>
    <link>https://news.example/a</link>
    <guid>news-a</guid>
    <pubDate>Sun, 01 Mar 2026 10:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Miners capitulate</title>
    <description>Hashrate dips</description>
    <link>https://news.example/b</link>
    <pubDate>Sun, 01 Mar 2026 09:00:00 GMT</pubDate>
  </item>
</channel></rss>`

func TestRssCollectParsesFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rss/tag/bitcoin", r.URL.Path)
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFeedBody)
	}))
	defer server.Close()

	c := NewRssCollector()
	c.UriTemplate = server.URL + "/rss/tag/%s"

	posts, err := c.Collect(context.Background(), collector.NewTask("bitcoin", "", 0))
	require.NoError(t, err)
	require.Len(t, posts, 2)

	first := posts[0]
	assert.Equal(t, "news-a", first.ExternalId)
	assert.Equal(t, "rss", first.Source)
	assert.Equal(t, "Bitcoin breaks resistance", first.Title)
	assert.NotContains(t, first.Text, "<b>")
	assert.Equal(t, "Cointelegraph Bitcoin News", first.OriginChannel)
	assert.Equal(t, "https://news.example/a", first.Url)
	assert.False(t, first.CreatedAt.IsZero())

	// GUID-less items fall back to the link as identity.
	assert.Equal(t, "https://news.example/b", posts[1].ExternalId)
}

func TestRssCollectHonorsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeedBody)
	}))
	defer server.Close()

	c := NewRssCollector()
	c.UriTemplate = server.URL + "/rss/tag/%s"

	posts, err := c.Collect(context.Background(), collector.NewTask("bitcoin", "", 1))
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestRssCollectUnreachable(t *testing.T) {
	c := NewRssCollector()
	c.UriTemplate = "http://127.0.0.1:1/rss/tag/%s"

	_, err := c.Collect(context.Background(), collector.NewTask("bitcoin", "", 5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, collector.ErrPlatformUnreachable))
}
