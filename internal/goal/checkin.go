package goal

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentiment classifies the tone of a check-in.
type Sentiment string

const (
	SentimentPositive        Sentiment = "positive"
	SentimentNeutral         Sentiment = "neutral"
	SentimentConfrontational Sentiment = "confrontational"
)

// ParseSentiment validates a sentiment string. Empty means neutral.
func ParseSentiment(s string) (Sentiment, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SentimentNeutral, nil
	}
	switch st := Sentiment(s); st {
	case SentimentPositive, SentimentNeutral, SentimentConfrontational:
		return st, nil
	default:
		return "", ErrInvalidSentiment
	}
}

// CheckIn records a progress conversation and the metrics it was based on.
type CheckIn struct {
	ID              string
	GoalID          *string // nil for a general check-in
	UserMessage     string
	AIResponse      string
	Confrontational bool
	Sentiment       Sentiment
	ScreentimeHours *float64
	Metrics
	CreatedAt time.Time
}

// CheckInInput holds the user-supplied parts of a check-in.
type CheckInInput struct {
	GoalID          *string
	Message         string
	Response        string
	Sentiment       string
	ScreentimeHours *float64
}

// NewCheckIn creates a CheckIn from user input and computed metrics.
// Confrontational is derived from the sentiment.
func NewCheckIn(in CheckInInput, m Metrics) (*CheckIn, error) {
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, ErrEmptyMessage
	}
	sentiment, err := ParseSentiment(in.Sentiment)
	if err != nil {
		return nil, err
	}
	if in.ScreentimeHours != nil && *in.ScreentimeHours < 0 {
		return nil, ErrNegativeHours
	}

	return &CheckIn{
		ID:              uuid.NewString(),
		GoalID:          in.GoalID,
		UserMessage:     msg,
		AIResponse:      strings.TrimSpace(in.Response),
		Confrontational: sentiment == SentimentConfrontational,
		Sentiment:       sentiment,
		ScreentimeHours: in.ScreentimeHours,
		Metrics:         m,
		CreatedAt:       time.Now(),
	}, nil
}
