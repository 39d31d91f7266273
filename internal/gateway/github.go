// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v84/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/github-dow/internal/domain"
)

// DefaultPerPage is the largest page size GitHub accepts for list endpoints.
const DefaultPerPage = 100

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	AuthenticatedUser(ctx context.Context) (string, error)
	OwnedRepositories(ctx context.Context, user string) (map[string]domain.Repository, error)
	CommitsByAuthor(ctx context.Context, repo domain.Repository, author string) ([]domain.Commit, error)
	Issues(ctx context.Context, repo domain.Repository, state domain.IssueState) ([]domain.Issue, error)
	PullRequests(ctx context.Context, repo domain.Repository, state domain.IssueState) ([]domain.PullRequest, error)
	Collaborators(ctx context.Context, repo domain.Repository) ([]domain.Collaborator, error)
}

// Options configures a GitHubGateway. Zero values select public GitHub.
type Options struct {
	Token          string
	BaseURL        string
	GraphQLURL     string
	PerPage        int
	RateLimitSleep time.Duration

	// IncludePullRequests keeps pull requests in Issues results, as the
	// GitHub issues endpoint reports them.
	IncludePullRequests bool
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	perPage       int
	includePulls  bool
	logger        *zap.Logger
}

// viewerQuery resolves the login of the token's owner.
type viewerQuery struct {
	Viewer struct {
		Login githubv4.String
	}
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger *zap.Logger) (Fetcher, error) {
	sleepLimit := opts.RateLimitSleep
	if sleepLimit <= 0 {
		sleepLimit = time.Hour
	}
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(sleepLimit, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URL: %w", err)
		}
	}
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.GraphQLURL != "" {
		graphqlClient = githubv4.NewEnterpriseClient(opts.GraphQLURL, httpClient)
	}

	perPage := opts.PerPage
	if perPage <= 0 || perPage > DefaultPerPage {
		perPage = DefaultPerPage
	}
	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		perPage:       perPage,
		includePulls:  opts.IncludePullRequests,
		logger:        logger,
	}, nil
}

// AuthenticatedUser returns the login of the token's owner.
func (g *GitHubGateway) AuthenticatedUser(ctx context.Context) (string, error) {
	var q viewerQuery
	if err := g.graphqlClient.Query(ctx, &q, nil); err != nil {
		return "", fmt.Errorf("failed to execute GraphQL query for viewer: %w", err)
	}
	login := string(q.Viewer.Login)
	if login == "" {
		return "", fmt.Errorf("failed to resolve authenticated user: empty login")
	}
	g.logger.Debug("Resolved authenticated user", zap.String("login", login))
	return login, nil
}

// OwnedRepositories lists the repositories owned by user, keyed by name.
func (g *GitHubGateway) OwnedRepositories(ctx context.Context, user string) (map[string]domain.Repository, error) {
	g.logger.Info("Fetching owned repositories...")
	opts := &github.RepositoryListByAuthenticatedUserOptions{
		Affiliation: "owner",
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	repos := make(map[string]domain.Repository)
	for {
		page, resp, err := g.restClient.Repositories.ListByAuthenticatedUser(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repositories: %w", err)
		}
		for _, r := range page {
			owner := r.GetOwner().GetLogin()
			if user != "" && !strings.EqualFold(owner, user) {
				continue
			}
			repos[r.GetName()] = domain.Repository{
				Name:     r.GetName(),
				Owner:    owner,
				FullName: r.GetFullName(),
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
		g.logger.Debug("Fetching next page of repositories", zap.Int("page", resp.NextPage))
	}
	g.logger.Info("Completed fetching repositories.", zap.Int("count", len(repos)))
	return repos, nil
}

// CommitsByAuthor lists the commits in repo authored by author.
func (g *GitHubGateway) CommitsByAuthor(ctx context.Context, repo domain.Repository, author string) ([]domain.Commit, error) {
	opts := &github.CommitsListOptions{
		Author:      author,
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var commits []domain.Commit
	for {
		page, resp, err := g.restClient.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commits for %s: %w", repo.FullName, err)
		}
		for _, c := range page {
			commits = append(commits, domain.Commit{
				Repository: repo.Name,
				SHA:        c.GetSHA(),
				AuthoredAt: c.GetCommit().GetAuthor().GetDate().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
		g.logger.Debug("Fetching next page of commits", zap.String("repo", repo.FullName), zap.Int("page", resp.NextPage))
	}
	return commits, nil
}

// Issues lists the issues in repo with the given state. Pull requests,
// which GitHub also reports as issues, are left out unless the gateway
// was built with IncludePullRequests.
func (g *GitHubGateway) Issues(ctx context.Context, repo domain.Repository, state domain.IssueState) ([]domain.Issue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       string(state),
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var issues []domain.Issue
	for {
		page, resp, err := g.restClient.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues for %s: %w", repo.FullName, err)
		}
		for _, i := range page {
			if i.IsPullRequest() && !g.includePulls {
				continue
			}
			issues = append(issues, domain.Issue{
				Repository: repo.Name,
				Number:     i.GetNumber(),
				State:      domain.IssueState(i.GetState()),
				CreatedAt:  i.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
		g.logger.Debug("Fetching next page of issues", zap.String("repo", repo.FullName), zap.Int("page", resp.NextPage))
	}
	return issues, nil
}

// PullRequests lists the pull requests in repo with the given state.
func (g *GitHubGateway) PullRequests(ctx context.Context, repo domain.Repository, state domain.IssueState) ([]domain.PullRequest, error) {
	opts := &github.PullRequestListOptions{
		State:       string(state),
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var prs []domain.PullRequest
	for {
		page, resp, err := g.restClient.PullRequests.List(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests for %s: %w", repo.FullName, err)
		}
		for _, p := range page {
			pr := domain.PullRequest{
				Repository: repo.Name,
				Number:     p.GetNumber(),
				State:      domain.IssueState(p.GetState()),
				CreatedAt:  p.GetCreatedAt().Time,
			}
			if p.ClosedAt != nil {
				closedAt := p.ClosedAt.Time
				pr.ClosedAt = &closedAt
			}
			prs = append(prs, pr)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
		g.logger.Debug("Fetching next page of pull requests", zap.String("repo", repo.FullName), zap.Int("page", resp.NextPage))
	}
	return prs, nil
}

// Collaborators lists the accounts with access to repo.
func (g *GitHubGateway) Collaborators(ctx context.Context, repo domain.Repository) ([]domain.Collaborator, error) {
	opts := &github.ListCollaboratorsOptions{
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var collaborators []domain.Collaborator
	for {
		page, resp, err := g.restClient.Repositories.ListCollaborators(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list collaborators for %s: %w", repo.FullName, err)
		}
		for _, u := range page {
			collaborators = append(collaborators, domain.Collaborator{
				Repository: repo.Name,
				Login:      u.GetLogin(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.ListOptions.Page = resp.NextPage
	}
	return collaborators, nil
}
