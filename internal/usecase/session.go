// Package usecase contains the business logic of the application.
package usecase

import (
	"context"

	"emperror.dev/errors"
	"go.uber.org/zap"

	"github.com/naka-gawa/github-dow/internal/domain"
	"github.com/naka-gawa/github-dow/internal/gateway"
)

const progressEvery = 100

// Session memoizes the authenticated user's identity, owned repositories and
// commits for the lifetime of one run. It is not safe for concurrent use.
type Session struct {
	fetcher gateway.Fetcher
	logger  *zap.Logger

	identity string
	repos    map[string]domain.Repository
	commits  []domain.Commit
}

// NewSession creates an empty session backed by fetcher.
func NewSession(fetcher gateway.Fetcher, logger *zap.Logger) *Session {
	return &Session{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Identity returns the authenticated user's login, fetching it on first use.
func (s *Session) Identity(ctx context.Context) (string, error) {
	if s.identity != "" {
		return s.identity, nil
	}
	login, err := s.fetcher.AuthenticatedUser(ctx)
	if err != nil {
		return "", errors.Wrap(err, "resolve identity")
	}
	s.identity = login
	return login, nil
}

// Repositories returns the owned repositories keyed by name, fetching them on first use.
func (s *Session) Repositories(ctx context.Context) (map[string]domain.Repository, error) {
	if s.repos != nil {
		return s.repos, nil
	}
	user, err := s.Identity(ctx)
	if err != nil {
		return nil, err
	}
	repos, err := s.fetcher.OwnedRepositories(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, "list repositories")
	}
	if repos == nil {
		repos = map[string]domain.Repository{}
	}
	s.repos = repos
	return repos, nil
}

// Repository looks up an owned repository by name.
func (s *Session) Repository(ctx context.Context, name string) (domain.Repository, error) {
	repos, err := s.Repositories(ctx)
	if err != nil {
		return domain.Repository{}, err
	}
	repo, ok := repos[name]
	if !ok {
		return domain.Repository{}, errors.WithDetails(errors.Wrap(domain.ErrRepositoryNotFound, name), "repository", name)
	}
	return repo, nil
}

// AllCommits returns every commit the user authored across owned repositories.
// The collection is fetched while the cache is empty and reused afterwards.
// A failed fetch caches nothing.
func (s *Session) AllCommits(ctx context.Context) ([]domain.Commit, error) {
	if len(s.commits) > 0 {
		return s.commits, nil
	}
	repos, err := s.Repositories(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.Identity(ctx)
	if err != nil {
		return nil, err
	}

	var commits []domain.Commit
	for _, repo := range repos {
		s.logger.Info("Loading commits", zap.String("repo", repo.Name))
		repoCommits, err := s.fetcher.CommitsByAuthor(ctx, repo, user)
		if err != nil {
			return nil, errors.Wrapf(err, "load commits for %s", repo.Name)
		}
		for _, c := range repoCommits {
			commits = append(commits, c)
			if len(commits)%progressEvery == 0 {
				s.logger.Info("Loading commits", zap.Int("count", len(commits)))
			}
		}
	}
	s.commits = commits
	return commits, nil
}
