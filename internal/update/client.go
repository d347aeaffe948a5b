// Package update checks GitHub for newer releases of the tray.
//
// The releases API is asked first. When it refuses (rate limit, no published
// release) the repository tags page is scraped instead. Answers are cached on
// disk so the tray asks at most once per TTL.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turing-smart-screen/turing-tray/internal/common/version"
)

var (
	// ErrRateLimit indicates GitHub API rate limit exceeded
	ErrRateLimit = errors.New("GitHub API rate limit exceeded")
	// ErrNotFound indicates the repository has no published release
	ErrNotFound = errors.New("no release found")
	// ErrAPIError indicates a general GitHub API error
	ErrAPIError = errors.New("GitHub API error")
	// ErrNoVersionFound is returned when a response carries no usable version
	ErrNoVersionFound = errors.New("no version found")
)

// Release is the newest published version
type Release struct {
	Version string `json:"version"`
	URL     string `json:"url"`
	// Source is "api" or "tags"
	Source string `json:"source"`
}

// Client handles communication with GitHub
type Client struct {
	APIURL     string
	WebURL     string
	Repository string
	UserAgent  string
	HTTPClient *http.Client
	Tags       *TagParser
}

// NewClient creates a client for the tray repository
func NewClient() *Client {
	return &Client{
		APIURL:     "https://api.github.com",
		WebURL:     "https://github.com",
		Repository: version.Repository,
		UserAgent:  "turing-tray/" + version.Version,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		Tags: DefaultTagParser(),
	}
}

// Latest returns the newest release, falling back to the tags page when the
// releases API fails. Both errors are returned when both sources fail.
func (c *Client) Latest(ctx context.Context) (Release, error) {
	rel, apiErr := c.LatestRelease(ctx)
	if apiErr == nil {
		return rel, nil
	}
	if ctx.Err() != nil {
		return Release{}, apiErr
	}

	rel, tagsErr := c.LatestTag(ctx)
	if tagsErr == nil {
		return rel, nil
	}
	return Release{}, errors.Join(apiErr, tagsErr)
}

// LatestRelease asks the releases API for the latest release
func (c *Client) LatestRelease(ctx context.Context) (Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.APIURL, c.Repository)
	body, err := c.get(ctx, url, "application/vnd.github+json")
	if err != nil {
		return Release{}, err
	}

	var payload struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return Release{}, fmt.Errorf("failed to parse GitHub response: %w", err)
	}
	if strings.TrimSpace(payload.TagName) == "" {
		return Release{}, ErrNoVersionFound
	}

	rel := Release{
		Version: NormalizeVersion(payload.TagName),
		URL:     payload.HTMLURL,
		Source:  "api",
	}
	if rel.URL == "" {
		rel.URL = c.releaseURL(payload.TagName)
	}
	return rel, nil
}

// LatestTag scrapes the repository tags page; the first tag listed is the newest
func (c *Client) LatestTag(ctx context.Context) (Release, error) {
	url := fmt.Sprintf("%s/%s/tags", c.WebURL, c.Repository)
	body, err := c.get(ctx, url, "text/html")
	if err != nil {
		return Release{}, err
	}

	parser := c.Tags
	if parser == nil {
		parser = DefaultTagParser()
	}
	tag, err := parser.Parse(body)
	if err != nil {
		return Release{}, err
	}
	// the URL needs the tag as published; only the version is normalized
	return Release{
		Version: NormalizeVersion(tag),
		URL:     c.releaseURL(tag),
		Source:  "tags",
	}, nil
}

func (c *Client) releaseURL(tag string) string {
	return fmt.Sprintf("%s/%s/releases/tag/%s", c.WebURL, c.Repository, strings.TrimSpace(tag))
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		resetHeader := resp.Header.Get("X-RateLimit-Reset")
		return nil, fmt.Errorf("%w: rate limit resets at %s", ErrRateLimit, resetHeader)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrAPIError, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return io.ReadAll(resp.Body)
}
