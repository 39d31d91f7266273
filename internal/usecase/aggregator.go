package usecase

import (
	"context"
	"time"

	"emperror.dev/errors"
	"go.uber.org/zap"

	"github.com/naka-gawa/github-dow/internal/domain"
	"github.com/naka-gawa/github-dow/internal/gateway"
)

// Aggregator is the use case for computing activity statistics.
// It reads through a Session and reduces what it fetches.
type Aggregator struct {
	session     *Session
	fetcher     gateway.Fetcher
	logger      *zap.Logger
	location    *time.Location
	maxAttempts int
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithLocation sets the time zone used to evaluate weekdays and months.
func WithLocation(loc *time.Location) Option {
	return func(a *Aggregator) {
		if loc != nil {
			a.location = loc
		}
	}
}

// WithMaxAttempts sets how many times the robust statistics try their fetch.
func WithMaxAttempts(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxAttempts = n
		}
	}
}

// NewAggregator creates a new Aggregator instance with its own Session.
func NewAggregator(fetcher gateway.Fetcher, logger *zap.Logger, opts ...Option) *Aggregator {
	a := &Aggregator{
		session:     NewSession(fetcher, logger),
		fetcher:     fetcher,
		logger:      logger,
		location:    time.Local,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Session exposes the aggregator's cache.
func (a *Aggregator) Session() *Session {
	return a.session
}

func (a *Aggregator) commitTimes(ctx context.Context) ([]time.Time, error) {
	commits, err := a.session.AllCommits(ctx)
	if err != nil {
		return nil, err
	}
	times := make([]time.Time, 0, len(commits))
	for _, c := range commits {
		times = append(times, c.AuthoredAt)
	}
	return times, nil
}

// MostActiveWeekday returns the weekday the user commits on most.
// It fails with domain.ErrEmptyInput when there are no commits.
func (a *Aggregator) MostActiveWeekday(ctx context.Context) (time.Weekday, error) {
	times, err := a.commitTimes(ctx)
	if err != nil {
		return 0, err
	}
	return Mode(times, Weekday, a.location)
}

// MostActiveWeekdayWithRetry is MostActiveWeekday with failed fetches retried.
func (a *Aggregator) MostActiveWeekdayWithRetry(ctx context.Context) (time.Weekday, error) {
	return retry(ctx, a.maxAttempts, a.logger, a.MostActiveWeekday)
}

// MostActiveMonth returns the month the user commits in most.
// It fails with domain.ErrEmptyInput when there are no commits.
func (a *Aggregator) MostActiveMonth(ctx context.Context) (time.Month, error) {
	times, err := a.commitTimes(ctx)
	if err != nil {
		return 0, err
	}
	return Mode(times, Month, a.location)
}

// AverageCommitInterval returns the mean time between the user's consecutive
// commits in the named repository, in hours. The commits are queried directly,
// bypassing the session commit cache.
func (a *Aggregator) AverageCommitInterval(ctx context.Context, repoName string) (float64, error) {
	repo, err := a.session.Repository(ctx, repoName)
	if err != nil {
		return 0, err
	}
	user, err := a.session.Identity(ctx)
	if err != nil {
		return 0, err
	}
	commits, err := a.fetcher.CommitsByAuthor(ctx, repo, user)
	if err != nil {
		return 0, errors.Wrapf(err, "load commits for %s", repo.Name)
	}
	times := make([]time.Time, 0, len(commits))
	for _, c := range commits {
		times = append(times, c.AuthoredAt)
	}
	return MeanIntervalHours(times), nil
}

// AverageOpenIssues returns the mean number of open issues per owned repository.
func (a *Aggregator) AverageOpenIssues(ctx context.Context) (float64, error) {
	repos, err := a.session.Repositories(ctx)
	if err != nil {
		return 0, err
	}
	counts := make([]int, 0, len(repos))
	for _, repo := range repos {
		issues, err := a.fetcher.Issues(ctx, repo, domain.StateOpen)
		if err != nil {
			return 0, errors.Wrapf(err, "load open issues for %s", repo.Name)
		}
		counts = append(counts, len(issues))
	}
	return Mean(counts), nil
}

// AveragePullRequestDuration returns the mean number of whole hours closed
// pull requests stayed open, across every owned repository.
func (a *Aggregator) AveragePullRequestDuration(ctx context.Context) (float64, error) {
	repos, err := a.session.Repositories(ctx)
	if err != nil {
		return 0, err
	}
	var hours []int64
	for _, repo := range repos {
		prs, err := a.fetcher.PullRequests(ctx, repo, domain.StateClosed)
		if err != nil {
			return 0, errors.Wrapf(err, "load closed pull requests for %s", repo.Name)
		}
		for _, pr := range prs {
			if pr.ClosedAt == nil {
				a.logger.Warn("Skipping closed pull request without close time",
					zap.String("repo", repo.Name), zap.Int("number", pr.Number))
				continue
			}
			hours = append(hours, TruncatedHours(pr.CreatedAt, *pr.ClosedAt))
		}
	}
	return Mean(hours), nil
}

// AverageCollaborators returns the mean number of collaborators per owned repository.
func (a *Aggregator) AverageCollaborators(ctx context.Context) (float64, error) {
	repos, err := a.session.Repositories(ctx)
	if err != nil {
		return 0, err
	}
	counts := make([]int, 0, len(repos))
	for _, repo := range repos {
		collaborators, err := a.fetcher.Collaborators(ctx, repo)
		if err != nil {
			return 0, errors.Wrapf(err, "load collaborators for %s", repo.Name)
		}
		counts = append(counts, len(collaborators))
	}
	return Mean(counts), nil
}

// ClosedIssueCreationDates returns when every closed issue across the owned
// repositories was opened.
func (a *Aggregator) ClosedIssueCreationDates(ctx context.Context) ([]time.Time, error) {
	repos, err := a.session.Repositories(ctx)
	if err != nil {
		return nil, err
	}
	dates := []time.Time{}
	for _, repo := range repos {
		issues, err := a.fetcher.Issues(ctx, repo, domain.StateClosed)
		if err != nil {
			return nil, errors.Wrapf(err, "load closed issues for %s", repo.Name)
		}
		for _, issue := range issues {
			dates = append(dates, issue.CreatedAt)
		}
	}
	return dates, nil
}

// Aggregate computes every statistic into one report. Weekday and month are
// left empty when the user has no commits. repoName, when set, adds the
// commit interval for that repository. robust retries the weekday fetch.
func (a *Aggregator) Aggregate(ctx context.Context, repoName string, robust bool) (*domain.ActivityStats, error) {
	a.logger.Info("Usecase: Starting aggregation...")

	user, err := a.session.Identity(ctx)
	if err != nil {
		return nil, err
	}
	repos, err := a.session.Repositories(ctx)
	if err != nil {
		return nil, err
	}
	// The weekday pass performs the first commit load.
	weekday := a.MostActiveWeekday
	if robust {
		weekday = a.MostActiveWeekdayWithRetry
	}
	day, err := weekday(ctx)
	hasCommits := true
	if errors.Is(err, domain.ErrEmptyInput) {
		hasCommits = false
	} else if err != nil {
		return nil, err
	}

	commits, err := a.session.AllCommits(ctx)
	if err != nil {
		return nil, err
	}
	result := &domain.ActivityStats{
		User:         user,
		Repositories: len(repos),
		Commits:      len(commits),
	}

	if hasCommits {
		month, err := a.MostActiveMonth(ctx)
		if err != nil {
			return nil, err
		}
		result.MostActiveWeekday = day.String()
		result.MostActiveMonth = month.String()
	}

	if repoName != "" {
		interval, err := a.AverageCommitInterval(ctx, repoName)
		if err != nil {
			return nil, err
		}
		result.Repository = repoName
		result.AverageCommitIntervalHours = &interval
	}

	if result.AverageOpenIssues, err = a.AverageOpenIssues(ctx); err != nil {
		return nil, err
	}
	if result.AveragePullRequestOpenHours, err = a.AveragePullRequestDuration(ctx); err != nil {
		return nil, err
	}
	if result.AverageCollaborators, err = a.AverageCollaborators(ctx); err != nil {
		return nil, err
	}

	a.logger.Info("Usecase: Aggregation complete.")
	return result, nil
}
