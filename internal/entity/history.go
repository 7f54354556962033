package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/health-summary/constants"
)

// Feedback holds a patient's 0..5 ratings of one summary.
type Feedback struct {
	Clarity      int `json:"clarity" bson:"clarity"`
	Helpfulness  int `json:"helpfulness" bson:"helpfulness"`
	Completeness int `json:"completeness" bson:"completeness"`
}

// RunHistoryEntry records one processed document. Index is the entry's
// position in its history store, starting at 0.
type RunHistoryEntry struct {
	ID                uuid.UUID                   `json:"id"`
	Index             int                         `json:"index"`
	Timestamp         time.Time                   `json:"timestamp"`
	InputMethod       constants.InputMethod       `json:"input_method"`
	ExtractionQuality constants.ExtractionQuality `json:"extraction_quality"`
	Summary           Summary                     `json:"summary"`
	Feedback          *Feedback                   `json:"feedback,omitempty"`
	Reward            *float64                    `json:"reward,omitempty"`
}
