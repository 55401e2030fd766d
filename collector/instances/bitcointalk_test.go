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

const bitcointalkBoardPage = `<html><body><table>
  <tr><td class="subject"><span><a href="/topic/1">Bitcoin breaks new highs</a></span></td></tr>
  <tr><td class="subject"><span><a href="/topic/2">Forum rules, please read</a></span></td></tr>
</table></body></html>`

const bitcointalkTopicPage = `<html><body><table>
  <tr>
    <td class="poster_info"><b><a href="/profile/1">satoshi</a></b></td>
    <td class="td_headerandpost">
      <div class="subject">Bitcoin breaks new highs</div>
      <div class="smalltext">May 8, 2026 5:57:51 PM</div>
      <a name="msg12345"></a>
      <div class="post">bitcoin is inevitable, btc supply is fixed</div>
    </td>
  </tr>
  <tr>
    <td class="poster_info"><b><a href="/profile/2">lurker</a></b></td>
    <td class="td_headerandpost">
      <a name="msg12346"></a>
      <div class="post">completely off topic reply about stamps</div>
    </td>
  </tr>
</table></body></html>`

func TestBitcointalkCollect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/board":
			fmt.Fprint(w, bitcointalkBoardPage)
		case "/topic/1":
			fmt.Fprint(w, bitcointalkTopicPage)
		default:
			// The rules topic must never be visited: its title has no
			// asset keyword.
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer server.Close()

	c := NewBitcointalkCollector()
	c.BoardUri = server.URL + "/board"

	posts, err := c.Collect(context.Background(), collector.NewTask("bitcoin", "", 10))
	require.NoError(t, err)
	require.Len(t, posts, 1)

	post := posts[0]
	assert.Equal(t, "msg12345", post.ExternalId)
	assert.Equal(t, "bitcointalk", post.Source)
	assert.Equal(t, "Bitcoin breaks new highs", post.Title)
	assert.Contains(t, post.Text, "inevitable")
	assert.Equal(t, "satoshi", post.Author)
	assert.Equal(t, 2026, post.CreatedAt.Year())
	assert.Contains(t, post.Url, "#msg12345")
}

func TestBitcointalkCollectUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewBitcointalkCollector()
	c.BoardUri = server.URL + "/board"

	_, err := c.Collect(context.Background(), collector.NewTask("bitcoin", "", 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, collector.ErrPlatformUnreachable))
}
