package clients

import (
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

const defaultTimeout = 15 * time.Second

// HttpClient is a thin wrapper on http.Client carrying per-platform headers
// and cookies, so that adapters don't repeat request plumbing.
type HttpClient struct {
	header  http.Header
	cookies []http.Cookie

	client *http.Client
}

func NewDefaultHttpClient() *HttpClient {
	return NewHttpClient(http.Header{}, []http.Cookie{})
}

func NewHttpClient(header http.Header, cookies []http.Cookie) *HttpClient {
	return &HttpClient{
		header:  header,
		cookies: cookies,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

func (c *HttpClient) Get(uri string) (*http.Response, error) {
	req, err := http.NewRequest("GET", uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header = c.header
	for _, cookie := range c.cookies {
		req.AddCookie(&cookie)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if IsNon200HttpResponse(res) {
		MaybeLogNon200HttpError(res)
		res.Body.Close()
		return nil, errors.Errorf("http status %d from %s", res.StatusCode, uri)
	}

	return res, nil
}

// GetWithQueryParams appends the query key/values to the uri before issuing
// the GET.
func (c *HttpClient) GetWithQueryParams(uri string, params map[string]string) (*http.Response, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return c.Get(u.String())
}

func IsNon200HttpResponse(res *http.Response) bool {
	return res.StatusCode != http.StatusOK
}

func MaybeLogNon200HttpError(res *http.Response) {
	if res.StatusCode != http.StatusOK {
		Logger.Log.Errorf("non-200 http response, code: %d, url: %s", res.StatusCode, res.Request.URL)
	}
}
