// Package network holds the shared HTTP client.
package network

import (
	"context"
	"net/http"
	"time"

	"github.com/amvnote/amvnote/constant"
)

// Client is used for the few requests amvnote makes, such as the release
// check.
var Client = &http.Client{
	Timeout:   10 * time.Second,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 5 * time.Second
	return t
}

// Get issues a GET with the application user agent.
func Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return Client.Do(req)
}
