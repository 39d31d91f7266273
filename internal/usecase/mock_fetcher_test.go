package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/naka-gawa/github-dow/internal/domain"
)

// mockFetcher is a mock implementation of the gateway.Fetcher interface.
// It allows us to simulate the behavior of the GitHub gateway without making real API calls.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) AuthenticatedUser(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockFetcher) OwnedRepositories(ctx context.Context, user string) (map[string]domain.Repository, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Repository), args.Error(1)
}

func (m *mockFetcher) CommitsByAuthor(ctx context.Context, repo domain.Repository, author string) ([]domain.Commit, error) {
	args := m.Called(ctx, repo, author)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commit), args.Error(1)
}

func (m *mockFetcher) Issues(ctx context.Context, repo domain.Repository, state domain.IssueState) ([]domain.Issue, error) {
	args := m.Called(ctx, repo, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Issue), args.Error(1)
}

func (m *mockFetcher) PullRequests(ctx context.Context, repo domain.Repository, state domain.IssueState) ([]domain.PullRequest, error) {
	args := m.Called(ctx, repo, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PullRequest), args.Error(1)
}

func (m *mockFetcher) Collaborators(ctx context.Context, repo domain.Repository) ([]domain.Collaborator, error) {
	args := m.Called(ctx, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Collaborator), args.Error(1)
}

var (
	repo1 = domain.Repository{Name: "repo1", Owner: "octo", FullName: "octo/repo1"}
	repo2 = domain.Repository{Name: "repo2", Owner: "octo", FullName: "octo/repo2"}
)

// newFetcher returns a mock that knows the user "octo" and the given repositories.
func newFetcher(repos ...domain.Repository) *mockFetcher {
	m := new(mockFetcher)
	m.On("AuthenticatedUser", mock.Anything).Return("octo", nil)
	byName := make(map[string]domain.Repository, len(repos))
	for _, r := range repos {
		byName[r.Name] = r
	}
	m.On("OwnedRepositories", mock.Anything, "octo").Return(byName, nil)
	return m
}

func commitsAt(repo string, times ...time.Time) []domain.Commit {
	commits := make([]domain.Commit, 0, len(times))
	for _, t := range times {
		commits = append(commits, domain.Commit{Repository: repo, AuthoredAt: t})
	}
	return commits
}

func day(year int, month time.Month, d, hour int) time.Time {
	return time.Date(year, month, d, hour, 0, 0, 0, time.UTC)
}
