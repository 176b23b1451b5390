// UpNext - Continue-Watching Progress and Prioritization Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/upnext

package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/upnext/internal/config"
	"github.com/tomtom215/upnext/internal/logging"
	"github.com/tomtom215/upnext/internal/metrics"
	"github.com/tomtom215/upnext/internal/models"
)

// Client talks to a TMDB-style show endpoint:
//
//	GET {base}/tv/{id}
//
// Outbound calls are throttled by a token bucket. HTTP 429 responses are
// retried with exponential backoff (1s, 2s, 4s, ...) or the Retry-After delay
// when the provider sends one.
//
// Thread Safety: Safe for concurrent use.
type Client struct {
	baseURL        string
	apiKey         string
	client         *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	retryBaseDelay time.Duration
	now            func() time.Time
}

// NewClient creates a metadata client from configuration.
func NewClient(cfg *config.MetadataConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		client:         &http.Client{Timeout: timeout},
		limiter:        rate.NewLimiter(limit, burst),
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: time.Second,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// tvSeason and tvResponse mirror the subset of the provider payload we read.
type tvSeason struct {
	SeasonNumber int `json:"season_number"`
	EpisodeCount int `json:"episode_count"`
}

type tvResponse struct {
	Name            string     `json:"name"`
	PosterPath      string     `json:"poster_path"`
	NumberOfSeasons int        `json:"number_of_seasons"`
	Seasons         []tvSeason `json:"seasons"`
}

// toModel converts the provider payload. Season 0 (specials) is dropped and
// seasons with a non-positive episode count are left out of the map so they
// read as unknown.
func (r *tvResponse) toModel(showID string, fetchedAt time.Time) *models.ShowMetadata {
	meta := &models.ShowMetadata{
		ShowID:            showID,
		Name:              r.Name,
		PosterPath:        r.PosterPath,
		TotalSeasons:      r.NumberOfSeasons,
		EpisodesPerSeason: make(map[int]int, len(r.Seasons)),
		FetchedAt:         fetchedAt,
	}
	maxSeason := 0
	for _, s := range r.Seasons {
		if s.SeasonNumber <= 0 {
			continue
		}
		if s.SeasonNumber > maxSeason {
			maxSeason = s.SeasonNumber
		}
		if s.EpisodeCount > 0 {
			meta.EpisodesPerSeason[s.SeasonNumber] = s.EpisodeCount
		}
	}
	if meta.TotalSeasons <= 0 {
		meta.TotalSeasons = maxSeason
	}
	return meta
}

// ShowMetadata fetches a show. A 404 maps to ErrNotFound.
func (c *Client) ShowMetadata(ctx context.Context, showID string) (*models.ShowMetadata, error) {
	if showID == "" {
		return nil, ErrNotFound
	}

	reqURL := fmt.Sprintf("%s/tv/%s", c.baseURL, url.PathEscape(showID))
	if c.apiKey != "" {
		reqURL += "?" + url.Values{"api_key": {c.apiKey}}.Encode()
	}

	resp, err := c.doRequestWithRateLimit(ctx, reqURL)
	if err != nil {
		metrics.RecordMetadataRequest("error")
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		metrics.RecordMetadataRequest("not_found")
		return nil, fmt.Errorf("show %s: %w", showID, ErrNotFound)
	default:
		metrics.RecordMetadataRequest("error")
		return nil, fmt.Errorf("metadata provider returned status %d", resp.StatusCode)
	}

	var payload tvResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.RecordMetadataRequest("error")
		return nil, fmt.Errorf("decode metadata response: %w", err)
	}

	metrics.RecordMetadataRequest("success")
	return payload.toModel(showID, c.now()), nil
}

// doRequestWithRateLimit waits for the outbound limiter and performs the
// request, retrying HTTP 429 responses. The context cancels both waits.
func (c *Client) doRequestWithRateLimit(ctx context.Context, reqURL string) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}
		_ = resp.Body.Close()
		metrics.RecordMetadataRequest("rate_limited")

		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("rate limit exceeded after %d retries (HTTP 429)", c.maxRetries)
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt))
		if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
			if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds >= 0 {
				delay = time.Duration(seconds) * time.Second
			}
		}

		logging.Debug().
			Int("attempt", attempt+1).
			Dur("delay", delay).
			Msg("Metadata provider rate limited, backing off")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
