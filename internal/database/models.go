package database

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRun identifies one pipeline execution whose derived series were
// persisted.
type AnalysisRun struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Kind      string    `gorm:"column:kind;not null" json:"kind"` // kt, poa, spectrum
	Site      string    `gorm:"column:site" json:"site"`
	Model     string    `gorm:"column:model" json:"model,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table name for AnalysisRun
func (AnalysisRun) TableName() string {
	return "analysis_runs"
}

// SeriesPoint is one sample of a named derived series. A missing value
// (NaN in memory) is stored as NULL.
type SeriesPoint struct {
	ID    uint      `gorm:"primaryKey;autoIncrement;column:id" json:"-"`
	RunID string    `gorm:"column:run_id;index;not null" json:"-"`
	Name  string    `gorm:"column:name;index;not null" json:"-"`
	Time  time.Time `gorm:"column:ts;not null" json:"ts"`
	Value *float64  `gorm:"column:value" json:"value"`
}

// TableName specifies the table name for SeriesPoint
func (SeriesPoint) TableName() string {
	return "series_points"
}

// NewRun builds an AnalysisRun with a fresh identity.
func NewRun(kind, site, model string) *AnalysisRun {
	return &AnalysisRun{
		ID:        uuid.New().String(),
		Kind:      kind,
		Site:      site,
		Model:     model,
		CreatedAt: time.Now().UTC(),
	}
}
