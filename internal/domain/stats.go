// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"time"

	"emperror.dev/errors"
)

var (
	// ErrRepositoryNotFound is returned when a repository name is not among the user's owned repositories.
	ErrRepositoryNotFound = errors.New("repository not found")
	// ErrEmptyInput is returned when a mode is requested over zero events.
	ErrEmptyInput = errors.New("no events to reduce")
)

// IssueState is the state filter used when listing issues and pull requests.
type IssueState string

const (
	StateOpen   IssueState = "open"
	StateClosed IssueState = "closed"
)

// Repository is a repository owned by the authenticated user.
type Repository struct {
	Name     string
	Owner    string
	FullName string
}

// Commit is a commit authored by the authenticated user.
type Commit struct {
	Repository string
	SHA        string
	AuthoredAt time.Time
}

// Issue is an issue in one of the user's repositories.
type Issue struct {
	Repository string
	Number     int
	State      IssueState
	CreatedAt  time.Time
}

// PullRequest carries only the timestamps the statistics need.
// ClosedAt is nil unless the pull request is closed.
type PullRequest struct {
	Repository string
	Number     int
	State      IssueState
	CreatedAt  time.Time
	ClosedAt   *time.Time
}

// Collaborator is a user with access to one of the repositories.
type Collaborator struct {
	Repository string
	Login      string
}

// ActivityStats is the full report for the authenticated user.
// It is the core domain entity of this application.
type ActivityStats struct {
	User                        string   `json:"user"`
	Repositories                int      `json:"repositories"`
	Commits                     int      `json:"commits"`
	MostActiveWeekday           string   `json:"most_active_weekday,omitempty"`
	MostActiveMonth             string   `json:"most_active_month,omitempty"`
	Repository                  string   `json:"repository,omitempty"`
	AverageCommitIntervalHours  *float64 `json:"average_commit_interval_hours,omitempty"`
	AverageOpenIssues           float64  `json:"average_open_issues"`
	AveragePullRequestOpenHours float64  `json:"average_pull_request_open_hours"`
	AverageCollaborators        float64  `json:"average_collaborators"`
}
