package schema

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Bidon15/anchorkit/launcher"
)

const (
	// DefaultTimeout is the default HTTP client timeout for schema fetches.
	DefaultTimeout = 15 * time.Second

	headerAccept     = "Accept"
	headerUserAgent  = "User-Agent"
	contentTypeProto = "application/x-protobuf"
	loaderUserAgent  = "anchorkit-go/1.0.0"
)

// HTTPLoader fetches descriptor sets from a schema registry over HTTP.
//
// Use NewHTTPLoader with the registry base URL:
//
//	loader := schema.NewHTTPLoader("http://127.0.0.1:8000")
type HTTPLoader struct {
	baseURL    string
	httpClient *http.Client
}

// HTTPOption configures the loader.
type HTTPOption func(*HTTPLoader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) HTTPOption {
	return func(l *HTTPLoader) {
		l.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(l *HTTPLoader) {
		if l.httpClient == nil {
			l.httpClient = &http.Client{}
		}
		l.httpClient.Timeout = timeout
	}
}

// NewHTTPLoader creates a loader for the schema registry at baseURL.
func NewHTTPLoader(baseURL string, opts ...HTTPOption) *HTTPLoader {
	l := &HTTPLoader{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// BaseURL returns the current base URL.
func (l *HTTPLoader) BaseURL() string {
	return l.baseURL
}

// DescriptorSet implements Loader. It GETs the artifact's serialized
// descriptor set from
// {base}/api/v1/artifacts/{runtime}/{name}/{version}/proto.
func (l *HTTPLoader) DescriptorSet(ctx context.Context, artifact launcher.Artifact) ([]byte, error) {
	path := fmt.Sprintf("/api/v1/artifacts/%d/%s/%s/proto",
		artifact.RuntimeID, url.PathEscape(artifact.Name), url.PathEscape(artifact.Version))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(headerAccept, contentTypeProto)
	req.Header.Set(headerUserAgent, loaderUserAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrSchemaNotFound, artifact)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("schema registry returned HTTP %d: %s",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
