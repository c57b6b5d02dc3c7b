// Package releasenotes fetches the latest published release of the project
// for the changelog page.
package releasenotes

import (
	"context"
	"time"
)

const (
	fallbackAvatar   = "https://github.com/we-promise.png"
	fallbackUsername = "we-promise"
	fallbackName     = "Release notes unavailable"
	fallbackBody     = "<p>Unable to fetch the latest release notes at this time. Please check back later or visit our <a href='https://github.com/we-promise/sure/releases' target='_blank'>GitHub releases page</a> directly.</p>"
)

// Record is one release as displayed on the changelog page. Body is HTML.
type Record struct {
	Avatar      string    `json:"avatar"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	PublishedAt time.Time `json:"published_at"`
	Body        string    `json:"body"`
}

// Provider returns the latest release notes. A nil record with a nil error
// means no release has been published.
type Provider interface {
	FetchLatestReleaseNotes(ctx context.Context) (*Record, error)
}

// Fallback is shown whenever the provider has nothing to offer.
func Fallback(now time.Time) Record {
	return Record{
		Avatar:      fallbackAvatar,
		Username:    fallbackUsername,
		Name:        fallbackName,
		PublishedAt: time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Body:        fallbackBody,
	}
}

// LatestOrFallback never fails: provider errors and missing releases both
// yield Fallback(now). The error, if any, is returned for logging only.
func LatestOrFallback(ctx context.Context, p Provider, now time.Time) (Record, error) {
	if p == nil {
		return Fallback(now), nil
	}
	rec, err := p.FetchLatestReleaseNotes(ctx)
	if err != nil || rec == nil {
		return Fallback(now), err
	}
	return *rec, nil
}
