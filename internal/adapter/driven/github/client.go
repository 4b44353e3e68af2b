// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/reviewping/internal/domain/model"
	"github.com/ericfisherdev/reviewping/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh       *gh.Client
	username string
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
//
// username is the authenticated user; it is stamped into snapshots as the
// current user for mention resolution.
func NewClient(token, username string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:       client,
		username: username,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, username string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:       client,
		username: username,
	}, nil
}

// ListOpenPullRequests returns snapshots of all open PRs in the repository,
// handling pagination automatically.
func (c *Client) ListOpenPullRequests(ctx context.Context, repoFullName string) ([]model.PRSnapshot, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListOptions{
		State:     "open",
		Sort:      "updated",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	var snapshots []model.PRSnapshot

	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s (page %d): %w", repoFullName, opts.Page, err)
		}

		for _, pr := range prs {
			snapshots = append(snapshots, c.mapSnapshot(pr, owner, repo))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if snapshots == nil {
		snapshots = []model.PRSnapshot{}
	}

	return snapshots, nil
}

// FetchSnapshot returns a snapshot of a single PR regardless of its state.
func (c *Client) FetchSnapshot(ctx context.Context, repoFullName string, number int) (model.PRSnapshot, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return model.PRSnapshot{}, err
	}

	pr, _, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return model.PRSnapshot{}, fmt.Errorf("getting pull request %s#%d: %w", repoFullName, number, err)
	}

	return c.mapSnapshot(pr, owner, repo), nil
}

// IsMerged reports whether the PR has been merged. The underlying endpoint
// answers with 204 (merged) or 404 (not merged); go-github folds that into
// the boolean.
func (c *Client) IsMerged(ctx context.Context, repoFullName string, number int) (bool, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return false, err
	}

	merged, _, err := c.gh.PullRequests.IsMerged(ctx, owner, repo, number)
	if err != nil {
		return false, fmt.Errorf("checking merge state of %s#%d: %w", repoFullName, number, err)
	}

	return merged, nil
}

// RequestReviewers adds the given users as requested reviewers on the PR.
func (c *Client) RequestReviewers(ctx context.Context, repoFullName string, number int, reviewers []string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	_, _, err = c.gh.PullRequests.RequestReviewers(ctx, owner, repo, number, gh.ReviewersRequest{
		Reviewers: reviewers,
	})
	if err != nil {
		return fmt.Errorf("requesting reviewers on %s#%d: %w", repoFullName, number, err)
	}

	return nil
}

// mapSnapshot converts a go-github pull request into a domain snapshot.
func (c *Client) mapSnapshot(pr *gh.PullRequest, owner, repo string) model.PRSnapshot {
	reviewers := make([]string, 0, len(pr.RequestedReviewers))
	for _, r := range pr.RequestedReviewers {
		if login := r.GetLogin(); login != "" {
			reviewers = append(reviewers, login)
		}
	}

	return model.PRSnapshot{
		Owner:       owner,
		Repo:        repo,
		Number:      pr.GetNumber(),
		Title:       pr.GetTitle(),
		URL:         pr.GetHTMLURL(),
		Author:      pr.GetUser().GetLogin(),
		CurrentUser: c.username,
		Reviewers:   reviewers,
	}
}

// splitRepo splits an "owner/repo" full name into its parts.
func splitRepo(repoFullName string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(repoFullName, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository name %q: expected owner/repo", repoFullName)
	}
	return owner, repo, nil
}
