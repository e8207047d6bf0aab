// Package statmuse fetches and parses team roster pages from statmuse.com.
package statmuse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/kozaktomas/roster-sync/internal/config"
	"github.com/kozaktomas/roster-sync/internal/logging"
)

// ErrNotFound is returned when StatMuse has no roster page for a team season.
var ErrNotFound = errors.New("roster not found")

// maxPageSize caps the roster page body read into memory.
const maxPageSize = 8 << 20

// Client downloads roster pages, at most one request per configured delay.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	captureDir string
}

// NewClient creates a client from the StatMuse configuration.
func NewClient(cfg config.StatMuseConfig) (*Client, error) {
	base, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid StatMuse URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid StatMuse URL scheme %q", base.Scheme)
	}

	limit := rate.Inf
	if cfg.RequestDelay > 0 {
		limit = rate.Every(cfg.RequestDelay)
	}

	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(limit, 1),
	}
	if err := c.SetCaptureDir(cfg.CaptureDir); err != nil {
		return nil, err
	}
	return c, nil
}

// SetCaptureDir enables saving raw roster pages to dir.
// Pass an empty string to disable capturing.
func (c *Client) SetCaptureDir(dir string) error {
	if dir == "" {
		c.captureDir = ""
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("could not create capture directory: %w", err)
	}
	c.captureDir = dir
	return nil
}

// RosterURL returns the roster page URL of a team season, honouring slug renames.
func (c *Client) RosterURL(league string, team *config.Team, season int) string {
	u := *c.baseURL
	u.Path = fmt.Sprintf("%s/%s/team/%s-%d/roster/%d",
		u.Path, league, team.SlugFor(season), team.StatMuseID, season)
	return u.String()
}

// FetchRoster downloads the roster page of a team season.
// A 404 yields ErrNotFound; other non-200 statuses are errors.
func (c *Client) FetchRoster(ctx context.Context, league string, team *config.Team, season int) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	rosterURL := c.RosterURL(league, team, season)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rosterURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	logging.FromContext(ctx).Debug().Str("url", rosterURL).Msg("fetching roster page")

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL built from the configured base URL
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s %d: %w", team.ID, season, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}

	c.capture(ctx, fmt.Sprintf("%s_%s_%d", league, team.ID, season), body)
	return body, nil
}

func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, 512))
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}

// capture saves a page body if capturing is enabled. Failures only log.
func (c *Client) capture(ctx context.Context, name string, body []byte) {
	if c.captureDir == "" {
		return
	}
	filename := fmt.Sprintf("%s_%s.html", name, time.Now().Format("20060102_150405"))
	path := filepath.Join(c.captureDir, filename)
	if err := os.WriteFile(path, body, 0600); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("path", path).Msg("failed to capture roster page")
	}
}
