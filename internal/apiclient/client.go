// Package apiclient talks to the salon booking REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/stretchlp/stretchboard/internal/booking"
	"github.com/stretchlp/stretchboard/internal/dateutil"
	"github.com/stretchlp/stretchboard/internal/metrics"
)

// Client errors.
var (
	// ErrUnauthorized is returned for HTTP 401. Token refresh is not handled
	// here; callers treat it like any other failed call.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// StatusError is a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http %d", e.Code)
	}
	return fmt.Sprintf("http %d: %s", e.Code, e.Body)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	RPS     float64 // 0 disables rate limiting
	Burst   int
	Logger  zerolog.Logger
}

// Client implements booking.Source over HTTP. Day lists may be cached in
// redis; any update drops the cached day it belongs to.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

var _ booking.Source = (*Client)(nil)

// New constructs a client.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		httpClient: &http.Client{Timeout: timeout},
		log:        opts.Logger,
	}
	if opts.RPS > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 5
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RPS), burst)
	}
	return c
}

// UseRedisCache configures optional Redis caching for day lists.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

func dayKey(day time.Time) string {
	return "stretchboard:bookings:" + day.Format(dateutil.DateLayout)
}

// ListBookings fetches the bookings starting on day.
func (c *Client) ListBookings(ctx context.Context, day time.Time) ([]booking.Booking, error) {
	key := dayKey(day)
	var list []booking.BackendBooking

	if c.readCache(ctx, key, &list) {
		return c.convert(list, day)
	}

	endpoint := fmt.Sprintf("%s/bookings?date=%s", c.baseURL, url.QueryEscape(day.Format(dateutil.DateLayout)))
	err := c.doGet(ctx, endpoint, &list)
	metrics.IncAPICall("list", err)
	if err != nil {
		return nil, fmt.Errorf("listing bookings: %w", err)
	}
	c.writeCache(ctx, key, list)

	return c.convert(list, day)
}

// convert maps backend records to bookings on day. Records that cannot be
// parsed are logged and skipped so one bad row does not hide the day.
func (c *Client) convert(list []booking.BackendBooking, day time.Time) ([]booking.Booking, error) {
	out := make([]booking.Booking, 0, len(list))
	for _, bb := range list {
		b, err := bb.ToBooking()
		if err != nil {
			c.log.Warn().Err(err).Int64("id", bb.ID).Msg("skipping malformed booking")
			continue
		}
		if !b.OnDay(day) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// GetBooking fetches a single booking.
func (c *Client) GetBooking(ctx context.Context, id string) (*booking.Booking, error) {
	n, err := booking.ParseID(id)
	if err != nil {
		return nil, err
	}

	var bb booking.BackendBooking
	err = c.doGet(ctx, fmt.Sprintf("%s/bookings/%d", c.baseURL, n), &bb)
	metrics.IncAPICall("get", err)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting booking %s: %w", id, err)
	}

	b, err := bb.ToBooking()
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateBooking sends new times, and optionally course and status, for id.
func (c *Client) UpdateBooking(ctx context.Context, id string, p booking.Patch) error {
	req, err := booking.NewUpdateRequest(id, p)
	if err != nil {
		return err
	}

	err = c.doPost(ctx, c.baseURL+"/updateBooking", req, nil)
	metrics.IncAPICall("update", err)
	if err != nil {
		return fmt.Errorf("updating booking %s: %w", id, err)
	}

	c.invalidate(ctx, dayKey(p.Start))
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		metrics.IncCache(false)
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		metrics.IncCache(false)
		return false
	}
	metrics.IncCache(true)
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.log.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// invalidate drops every cached day, since a move may change both the old
// and the new day.
func (c *Client) invalidate(ctx context.Context, keys ...string) {
	if c.redis == nil {
		return
	}
	iter := c.redis.Scan(ctx, 0, "stretchboard:bookings:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.log.Debug().Err(err).Msg("cache invalidation failed")
	}
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) doPost(ctx context.Context, endpoint string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("api call")

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
