package domain

import (
	"time"

	"github.com/google/uuid"
)

type Label string

const (
	LabelPositive Label = "Positive"
	LabelNegative Label = "Negative"
)

func (l Label) Valid() bool {
	return l == LabelPositive || l == LabelNegative
}

// ScoreResult is the outcome of scoring a single review text.
type ScoreResult struct {
	RawScore    float64  `json:"score"`
	Label       Label    `json:"sentiment"`
	Emojis      []string `json:"emojis"`
	EmojiScalar int      `json:"emoji_label"`
}

// Submission is a review as received from a client or a feed, before scoring.
type Submission struct {
	ID                 string    `json:"id"`
	AttractionThaiName string    `json:"attraction_thai_name"`
	Category           string    `json:"category"`
	Attraction         string    `json:"attraction"`
	Text               string    `json:"review"`
	Source             Source    `json:"source"`
	ReceivedAt         time.Time `json:"received_at"`
}

type Source string

const (
	SourceAPI  Source = "api"
	SourceFeed Source = "feed"
)

// Review is a scored and tagged submission as persisted.
type Review struct {
	ID                 uuid.UUID `json:"id"`
	AttractionThaiName string    `json:"attraction_thai_name"`
	Category           string    `json:"category"`
	Attraction         string    `json:"attraction"`
	Text               string    `json:"review"`
	Label              Label     `json:"label"`
	Score              float64   `json:"score"`
	Emojis             []string  `json:"emojis"`
	EmojiScalar        int       `json:"emoji_label"`
	Aspect             string    `json:"aspect"`
	Source             Source    `json:"source"`
	CreatedAt          time.Time `json:"created_at"`
}

// LabelCount is a positive/negative tally for one group key (place or aspect).
type LabelCount struct {
	Key      string `json:"key"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
}
