package releasenotes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v30/github"
	"github.com/yuin/goldmark"
	"golang.org/x/oauth2"
)

// GitHub reads the latest release of one repository.
type GitHub struct {
	client *github.Client
	owner  string
	repo   string
	md     goldmark.Markdown
}

var _ Provider = (*GitHub)(nil)

// NewGitHub builds a provider for owner/repo. An empty token uses anonymous
// access, which is rate limited by GitHub but enough for a changelog page.
func NewGitHub(owner, repo, token string, timeout time.Duration) *GitHub {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(context.Background(), ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = timeout
	return &GitHub{
		client: github.NewClient(hc),
		owner:  owner,
		repo:   repo,
		md:     goldmark.New(),
	}
}

// WithClient swaps the underlying API client, mainly to point it at a test
// server.
func (g *GitHub) WithClient(c *github.Client) *GitHub {
	g.client = c
	return g
}

func (g *GitHub) FetchLatestReleaseNotes(ctx context.Context) (*Record, error) {
	rel, _, err := g.client.Repositories.GetLatestRelease(ctx, g.owner, g.repo)
	if err != nil {
		var ger *github.ErrorResponse
		if errors.As(err, &ger) && ger.Response != nil && ger.Response.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("latest release %s/%s: %w", g.owner, g.repo, err)
	}

	var body bytes.Buffer
	if err := g.md.Convert([]byte(rel.GetBody()), &body); err != nil {
		return nil, fmt.Errorf("render release body: %w", err)
	}

	name := rel.GetName()
	if name == "" {
		name = rel.GetTagName()
	}
	author := rel.GetAuthor()
	return &Record{
		Avatar:      author.GetAvatarURL(),
		Username:    author.GetLogin(),
		Name:        name,
		PublishedAt: rel.GetPublishedAt().Time,
		Body:        body.String(),
	}, nil
}
