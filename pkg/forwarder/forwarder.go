// Package forwarder performs the single outbound GET behind every gateway route.
package forwarder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"nasa/pkg/consts"
	"nasa/pkg/metrics"

	"github.com/sirupsen/logrus"
)

const (
	AcceptJSON  = "application/json"
	AcceptImage = "image/png, image/jpeg"

	redacted = "REDACTED"
)

// Request describes one upstream call. Params absent from the map are not sent.
type Request struct {
	Endpoint string // metrics and log label
	URL      string
	Params   map[string]string
	Accept   string
}

type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// StatusError is returned for a non-2xx upstream answer; it keeps the body untouched.
type StatusError struct {
	Response
	URL string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s answered %d", e.URL, e.StatusCode)
}

type Forwarder struct {
	client *http.Client
	apiKey string
}

// New binds the shared api key to a forwarder. A nil client means http.DefaultClient.
func New(apiKey string, client *http.Client) *Forwarder {
	if client == nil {
		client = http.DefaultClient
	}
	return &Forwarder{client: client, apiKey: apiKey}
}

// Get issues exactly one GET. No retries, the client's own timeout applies.
// A non-2xx answer comes back whole as *StatusError so the handler can relay it
// unchanged, the forwarder itself does not act on the status.
func (f *Forwarder) Get(ctx context.Context, r Request) (*Response, error) {

	u, err := makeRequest(r.URL, f.withKey(r.Params))
	if err != nil {
		return nil, err
	}

	safe := redact(u)
	logrus.WithFields(logrus.Fields{"endpoint": r.Endpoint, "url": safe}).Debug("upstream request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	if r.Accept != "" {
		req.Header.Set("Accept", r.Accept)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.ObserveUpstream(r.Endpoint, "error")

		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = safe
		}
		return nil, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveUpstream(r.Endpoint, "error")
		return nil, err
	}

	metrics.ObserveUpstream(r.Endpoint, strconv.Itoa(resp.StatusCode))

	out := Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Response: out, URL: safe}
	}

	return &out, nil
}

func (f *Forwarder) withKey(params map[string]string) map[string]string {
	out := make(map[string]string, len(params)+1)
	for k, v := range params {
		out[k] = v
	}
	out[consts.ApiKey] = f.apiKey
	return out
}

// конструктор для формирования строки запроса, url.Values сортирует ключи
func makeRequest(baseUrl string, params map[string]string) (string, error) {
	ur, err := url.Parse(baseUrl)
	if err != nil {
		return "", err
	}

	q := ur.Query()
	for k, v := range params {
		q.Set(k, v)
	}

	ur.RawQuery = q.Encode()
	return ur.String(), nil
}

func redact(u string) string {
	ur, err := url.Parse(u)
	if err != nil {
		return ""
	}

	q := ur.Query()
	if q.Has(consts.ApiKey) {
		q.Set(consts.ApiKey, redacted)
	}

	ur.RawQuery = q.Encode()
	return ur.String()
}
