package flashscore

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/cache"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/logging"
	"github.com/riskibarqy/flashscore-gateway/internal/platform/resilience"
	"github.com/riskibarqy/flashscore-gateway/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL  = "https://flashscore4.p.rapidapi.com"
	defaultAPIHost  = "flashscore4.p.rapidapi.com"
	defaultLocale   = "en_INT"
	defaultTimezone = "0"
	defaultTimeout  = 20 * time.Second
	maxBodySize     = 6 << 20

	headerAPIHost = "X-RapidAPI-Host"
	headerAPIKey  = "X-RapidAPI-Key"
)

var errFlashscoreTransient = crerr.New("flashscore transient failure")
var apiKeyParamRegex = regexp.MustCompile(`(?i)(x-rapidapi-key[=:]\s*)[^&\s"']+`)

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	APIHost        string
	APIKey         string
	Locale         string
	Timezone       string
	Timeout        time.Duration
	MaxConcurrency int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// Cache and Limiter are shared process-wide when set; otherwise the client owns its own.
	Cache   *cache.Store
	Limiter *resilience.Limiter
}

// Client talks to the FlashScore API. Identical concurrent requests share one
// round trip, successful payloads are cached for a per-endpoint TTL and at most
// MaxConcurrency requests are on the wire at once.
type Client struct {
	httpClient *fasthttp.Client
	baseURL    string
	apiHost    string
	apiKey     string
	locale     string
	timezone   string
	timeout    time.Duration
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	cache      *cache.Store
	limiter    *resilience.Limiter
	flight     resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "flashscore-gateway",
			MaxConnsPerHost:     64,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
			MaxResponseBodySize: maxBodySize,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	store := cfg.Cache
	if store == nil {
		store = cache.NewStore(time.Minute)
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = resilience.NewLimiter(cfg.MaxConcurrency)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiHost:    firstNonEmpty(cfg.APIHost, defaultAPIHost),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		locale:     firstNonEmpty(cfg.Locale, defaultLocale),
		timezone:   firstNonEmpty(cfg.Timezone, defaultTimezone),
		timeout:    timeout,
		logger:     logger,
		breaker:    resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
		cache:      store,
		limiter:    limiter,
	}
}

func (c *Client) Limiter() *resilience.Limiter {
	return c.limiter
}

// FetchJSON returns the decoded document at path. A cached payload is served
// without touching the network; otherwise callers with the same key share a
// single request. Failures are never cached.
func (c *Client) FetchJSON(ctx context.Context, path string, query map[string]string, ttl time.Duration) (any, error) {
	key := cacheKey(path, query)
	if cached, ok := c.cache.Get(ctx, key); ok {
		return cached, nil
	}

	// Shared calls run to completion even if the caller that started them goes away.
	detached := context.WithoutCancel(ctx)
	out, err, shared := c.flight.Do(key, func() (any, error) {
		if cached, ok := c.cache.Get(detached, key); ok {
			return cached, nil
		}

		raw, fetchErr := c.fetchGuarded(detached, key)
		if fetchErr != nil {
			return nil, fetchErr
		}

		var decoded any
		if err := sonic.Unmarshal(raw, &decoded); err != nil {
			return nil, crerr.Wrapf(err, "decode flashscore payload path=%s", path)
		}
		c.cache.Set(detached, key, decoded, ttl)
		return decoded, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.DebugContext(ctx, "flashscore request shared with in-flight call", "path", path)
	}
	return out, nil
}

func (c *Client) fetchGuarded(ctx context.Context, key string) ([]byte, error) {
	var raw []byte
	call := func() error {
		return c.limiter.Do(ctx, func() error {
			var err error
			raw, err = c.executeRequest(ctx, c.baseURL+key)
			return err
		})
	}

	if c.breaker == nil {
		return raw, call()
	}

	err := c.breaker.Execute(call, isFlashscoreCircuitFailure)
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "flashscore circuit breaker rejected request", "state", c.breaker.State())
		return nil, fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerAPIHost, c.apiHost)
	req.Header.Set(headerAPIKey, c.apiKey)

	started := time.Now()
	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		err = crerr.Mark(crerr.Newf("send request: %s", c.sanitize(err.Error())), errFlashscoreTransient)
		c.logger.WarnContext(ctx, "flashscore request failed", "url", fullURL, "error", err)
		return nil, err
	}

	status := resp.StatusCode()
	body := resp.Body()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		err := crerr.Newf("provider status=%d body=%s", status, abbreviateBody(body))
		if isRetryableStatus(status) {
			err = crerr.Mark(err, errFlashscoreTransient)
		}
		c.logger.WarnContext(ctx, "flashscore request failed", "url", fullURL, "status", status, "error", err)
		return nil, err
	}

	c.logger.DebugContext(ctx, "flashscore request completed",
		"url", fullURL,
		"status", status,
		"bytes", len(body),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	raw := make([]byte, len(body))
	copy(raw, body)
	return raw, nil
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "${1}REDACTED")
}

// cacheKey is the path plus the query sorted by name, which is also the
// request URI relative to the base URL.
func cacheKey(path string, query map[string]string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(path)
	if len(query) == 0 {
		return buf.String()
	}

	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)

	sep := byte('?')
	for _, name := range names {
		_ = buf.WriteByte(sep)
		_, _ = buf.WriteString(url.QueryEscape(name))
		_ = buf.WriteByte('=')
		_, _ = buf.WriteString(url.QueryEscape(query[name]))
		sep = '&'
	}
	return buf.String()
}

func isFlashscoreCircuitFailure(err error) bool {
	return crerr.Is(err, errFlashscoreTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= fasthttp.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
