package collector_instances

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stocktwitsPage = `<html><body>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"stream":{"messages":[
  {"id":101,"body":"BTC.X ripping","created_at":"2026-03-01T10:00:00Z",
   "user":{"username":"bull1"},"likes":{"total":12},
   "entities":{"sentiment":{"basic":"Bullish"}}},
  {"id":102,"body":"taking profits here","created_at":"2026-03-01T09:55:00Z",
   "user":{"username":"bear1"},"likes":{"total":3},
   "entities":{"sentiment":null}}
]}}}}
</script>
</body></html>`

func TestExtractNextDataMessages(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(stocktwitsPage))
	require.NoError(t, err)

	msgs := extractNextDataMessages(doc)
	require.Len(t, msgs, 2)

	assert.Equal(t, int64(101), msgs[0].Id)
	assert.Equal(t, "BTC.X ripping", msgs[0].Body)
	assert.Equal(t, "bull1", msgs[0].User.Username)
	assert.Equal(t, 12, msgs[0].Likes.Total)
	require.NotNil(t, msgs[0].Entities.Sentiment)
	assert.Equal(t, "Bullish", msgs[0].Entities.Sentiment.Basic)

	// Untagged messages carry no sentiment entity.
	assert.Nil(t, msgs[1].Entities.Sentiment)
}

func TestExtractNextDataMessagesMissingScript(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, extractNextDataMessages(doc))
}

func TestExtractNextDataMessagesFallbackShape(t *testing.T) {
	page := `<html><body><script id="__NEXT_DATA__">
	{"props":{"pageProps":{"messages":[{"id":7,"body":"fallback shape"}]}}}
	</script></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)

	msgs := extractNextDataMessages(doc)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(7), msgs[0].Id)
}
