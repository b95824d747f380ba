// Package goal defines long-term goals, their milestones and the periodic
// check-ins used to coach progress on them.
package goal

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/javiermolinar/kronos/internal/block"
	"github.com/javiermolinar/kronos/internal/dateutil"
)

// Field limits.
const (
	MaxTitle          = 100
	MaxDescription    = 500
	MaxMilestoneTitle = 200
)

// Validation errors.
var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrTitleTooLong     = fmt.Errorf("title cannot exceed %d characters", MaxTitle)
	ErrDescTooLong      = fmt.Errorf("description cannot exceed %d characters", MaxDescription)
	ErrMilestoneTooLong = fmt.Errorf("milestone title cannot exceed %d characters", MaxMilestoneTitle)
	ErrInvalidStatus    = errors.New("status must be 'active', 'completed' or 'abandoned'")
	ErrInvalidSentiment = errors.New("sentiment must be 'positive', 'neutral' or 'confrontational'")
	ErrEmptyMessage     = errors.New("check-in message cannot be empty")
	ErrNegativeHours    = errors.New("screentime hours cannot be negative")
)

// ErrNotFound is returned when a goal or milestone does not exist. It is the
// same sentinel the scheduling store uses.
var ErrNotFound = block.ErrNotFound

// Status represents the lifecycle state of a goal.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusActive, StatusCompleted, StatusAbandoned:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// Goal is a long-term objective with a target date.
type Goal struct {
	ID          string
	Title       string
	Description string
	TargetDate  time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// New creates an active Goal.
// targetDate must be in YYYY-MM-DD format; empty means today.
func New(title, description, targetDate string) (*Goal, error) {
	title, err := checkText(title, MaxTitle, ErrTitleTooLong)
	if err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > MaxDescription {
		return nil, ErrDescTooLong
	}
	target, err := dateutil.ParseDate(targetDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Goal{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		TargetDate:  target,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// IsActive returns true if the goal is still being worked on.
func (g *Goal) IsActive() bool {
	return g.Status == StatusActive
}

// Milestone is an intermediate step toward a goal.
type Milestone struct {
	ID        string
	GoalID    string
	Title     string
	Completed bool
	DueDate   time.Time
	Order     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMilestone creates a Milestone for the given goal.
// The order is assigned by the repository on insert.
func NewMilestone(goalID, title, dueDate string) (*Milestone, error) {
	title, err := checkText(title, MaxMilestoneTitle, ErrMilestoneTooLong)
	if err != nil {
		return nil, err
	}
	due, err := dateutil.ParseDate(dueDate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &Milestone{
		ID:        uuid.NewString(),
		GoalID:    goalID,
		Title:     title,
		DueDate:   due,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsOverdue returns true if the milestone is incomplete and was due before day.
func (m *Milestone) IsOverdue(day time.Time) bool {
	return !m.Completed && m.DueDate.Before(dateutil.TruncateToDay(day))
}

func checkText(s string, limit int, tooLong error) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyTitle
	}
	if utf8.RuneCountInString(s) > limit {
		return "", tooLong
	}
	return s, nil
}
