package analysis

import (
	"sync"

	"github.com/chatlens/chatlens/pkg/models"
)

// ReportStore keeps finished analysis reports in memory, newest first.
// Durable persistence belongs to the surrounding application.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]*models.AnalysisReport
	order   []string
}

// NewReportStore creates an empty report store
func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string]*models.AnalysisReport),
	}
}

// Put stores a report, replacing any previous report with the same ID
func (s *ReportStore) Put(report *models.AnalysisReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[report.ID]; !exists {
		s.order = append(s.order, report.ID)
	}
	s.reports[report.ID] = report
}

// Get returns the report with the given ID
func (s *ReportStore) Get(id string) (*models.AnalysisReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	return report, ok
}

// List returns all stored reports, most recent first
func (s *ReportStore) List() []*models.AnalysisReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]*models.AnalysisReport, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		reports = append(reports, s.reports[s.order[i]])
	}
	return reports
}
