// Package archive persists completed analysis runs to Postgres so the
// web app can list historical results and reload the latest one.
package archive

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kpellard/heronet/pkg/analysis"
)

var ErrRunNotFound = errors.New("run not found")

// Run is one archived analysis. The headline numbers are stored as
// columns for cheap listing; the full summary rides along as JSONB.
type Run struct {
	ID          uuid.UUID     `json:"id"`
	Source      string        `json:"source"`
	NodeCount   int           `json:"node_count"`
	EdgeCount   int           `json:"edge_count"`
	Communities int           `json:"communities"`
	Modularity  float64       `json:"modularity"`
	Diameter    int           `json:"diameter"`
	Clustering  float64       `json:"clustering"`
	Elapsed     time.Duration `json:"elapsed"`
	CreatedAt   time.Time     `json:"created_at"`

	// Summary is nil on Runs returned by ListRuns.
	Summary *analysis.Summary `json:"summary,omitempty"`
}

// NewRun derives the archivable record from a computed summary.
func NewRun(source string, s *analysis.Summary) *Run {
	run := &Run{
		ID:        uuid.New(),
		Source:    source,
		NodeCount: s.Stats.NodeCount,
		EdgeCount: s.Stats.EdgeCount,
		Elapsed:   s.Elapsed,
		CreatedAt: time.Now().UTC(),
		Summary:   s,
	}
	if s.Communities != nil {
		run.Communities = len(s.Communities.Communities)
		run.Modularity = s.Communities.Modularity
	}
	if s.Distance != nil {
		run.Diameter = s.Distance.Diameter
	}
	if s.Clustering != nil {
		run.Clustering = s.Clustering.Global
	}
	return run
}
