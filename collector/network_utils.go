package collector

import (
	"bytes"
	"encoding/json"
	"io"
	"net/url"
	"reflect"

	"github.com/pkg/errors"

	"github.com/cryptopulse/cryptopulse/collector/clients"
	Logger "github.com/cryptopulse/cryptopulse/utils/log"
)

// BuildUriWithParams appends query params to the base uri.
func BuildUriWithParams(uri string, params map[string]string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// HttpGetAndParseJsonResponse will make an HTTP request to the specified URI
// using the passed in client, then parse the body as JSON into the specified
// response. Return error on any failure.
// Note that failure not only includes network issues, any non 200 response
// code will also be considered as a failure.
// The response passed in must be a pointer.
func HttpGetAndParseJsonResponse(client *clients.HttpClient, uri string, res interface{}) error {
	if reflect.ValueOf(res).Type().Kind() != reflect.Ptr {
		return errors.New("the passed in variable must be a pointer")
	}

	httpResponse, err := client.Get(uri)
	if err != nil {
		return err
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return err
	}

	// Remove BOM before parsing, see https://en.wikipedia.org/wiki/Byte_order_mark for details.
	body = bytes.TrimPrefix(body, []byte("\xef\xbb\xbf"))
	err = json.Unmarshal(body, res)
	if err != nil {
		Logger.Log.Errorf("fail to parse response: %s, type: %T", body, res)
		return err
	}

	return nil
}
