package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/docdesk/pkg/domain/interfaces"
	"github.com/secmon-lab/docdesk/pkg/domain/model"
	"github.com/secmon-lab/docdesk/pkg/utils/logging"
	"github.com/secmon-lab/docdesk/pkg/utils/safe"
)

const (
	defaultTimeout   = 30 * time.Second
	maxErrorBodySize = 1 << 20
	requestIDHeader  = "X-Request-ID"
)

// HTTPDoer is the subset of *http.Client used by Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the remote service over its REST contract
type Client struct {
	baseURL *url.URL
	origin  *url.URL
	http    HTTPDoer
	timeout time.Duration

	source      *collection[*model.Source, model.SourceInput]
	modelConfig *collection[*model.ModelConfig, model.ModelConfigInput]
}

var _ interfaces.Remote = &Client{}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client, mainly for tests
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// WithOrigin sets the origin relative requests are resolved against when no base
// URL is configured, typically the reverse proxy serving the console
func WithOrigin(origin *url.URL) Option {
	return func(c *Client) {
		c.origin = origin
	}
}

// WithTimeout sets the timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a remote service client. An empty baseURL keeps request paths
// relative; an origin is then required to actually send them.
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{timeout: defaultTimeout}

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid base URL", goerr.V("base_url", baseURL))
		}
		if !u.IsAbs() || u.Host == "" {
			return nil, goerr.New("base URL must be absolute", goerr.V("base_url", baseURL))
		}
		c.baseURL = u
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == nil && c.origin == nil {
		return nil, goerr.New("either base URL or origin is required")
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}

	c.source = &collection[*model.Source, model.SourceInput]{client: c, path: PathSources, label: "source"}
	c.modelConfig = &collection[*model.ModelConfig, model.ModelConfigInput]{client: c, path: PathModels, label: "model config"}

	return c, nil
}

func (c *Client) Source() interfaces.SourceService {
	return c.source
}

func (c *Client) ModelConfig() interfaces.ModelConfigService {
	return c.modelConfig
}

func (c *Client) Section() interfaces.SectionService {
	return &sectionClient{client: c}
}

func (c *Client) Search() interfaces.SearchService {
	return &searchClient{client: c}
}

// Endpoint resolves path against the base URL. Without a base URL the path is
// returned unchanged so a reverse proxy can route it.
func (c *Client) Endpoint(path string) string {
	if c.baseURL == nil {
		return path
	}
	return strings.TrimRight(c.baseURL.String(), "/") + path
}

func (c *Client) requestURL(path string) (string, error) {
	endpoint := c.Endpoint(path)
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", goerr.Wrap(err, "invalid endpoint", goerr.V("endpoint", endpoint))
	}
	if !u.IsAbs() {
		u = c.origin.ResolveReference(u)
	}
	return u.String(), nil
}

// do sends a JSON request. Network failures become *model.TransportError, non-2xx
// responses become *model.APIError.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	target, err := c.requestURL(path)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request", goerr.V("op", op))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("op", op))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)

	logger := logging.From(ctx).With("op", op, "method", method, "path", path, "request_id", requestID)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("remote call failed", "error", err)
		return goerr.Wrap(&model.TransportError{Op: op, Err: err}, "remote call failed",
			goerr.V("op", op), goerr.V("request_id", requestID))
	}
	defer safe.Drain(ctx, resp.Body)

	logger.Debug("remote call completed", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return goerr.Wrap(decodeAPIError(resp), "remote service rejected request",
			goerr.V("op", op),
			goerr.V("status", resp.StatusCode),
			goerr.V("request_id", requestID))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("op", op), goerr.V("request_id", requestID))
	}
	return nil
}

func decodeAPIError(resp *http.Response) *model.APIError {
	apiErr := &model.APIError{Status: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Message = strings.TrimSpace(body.text())
	}
	return apiErr
}
