package interceptor

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/TyReed12/ResTracker/internal/cache"
	"github.com/go-resty/resty/v2"
)

// OriginFetcher fetches from the upstream origin that hosts the PWA.
// It implements cache.Fetcher for the caching strategies and also
// forwards non-GET requests untouched.
type OriginFetcher struct {
	http    *resty.Client
	baseURL string
}

func NewOriginFetcher(baseURL string, timeout time.Duration) *OriginFetcher {
	return &OriginFetcher{
		http:    resty.New().SetTimeout(timeout),
		baseURL: baseURL,
	}
}

// Fetch performs a body-less request against the origin and captures the
// full response.
func (f *OriginFetcher) Fetch(ctx context.Context, method, url string) (*cache.Response, error) {
	resp, err := f.http.R().SetContext(ctx).Execute(method, f.baseURL+url)
	if err != nil {
		return nil, err
	}
	return captureResponse(resp), nil
}

// Forward proxies a request to the origin with its method, headers and
// body intact. Used for the non-GET pass-through path.
func (f *OriginFetcher) Forward(r *http.Request) (*cache.Response, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	req := f.http.R().SetContext(r.Context()).SetBody(body)
	for name := range r.Header {
		req.SetHeader(name, r.Header.Get(name))
	}

	resp, err := req.Execute(r.Method, f.baseURL+r.URL.RequestURI())
	if err != nil {
		return nil, err
	}
	return captureResponse(resp), nil
}

func captureResponse(resp *resty.Response) *cache.Response {
	headers := make(map[string]string)
	for name := range resp.Header() {
		headers[name] = resp.Header().Get(name)
	}
	return &cache.Response{
		Status:  resp.StatusCode(),
		Headers: headers,
		Body:    resp.Body(),
	}
}
