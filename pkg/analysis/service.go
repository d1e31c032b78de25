// Package analysis orchestrates the full export analysis pipeline: parse,
// aggregate, enrich, recap, index.
package analysis

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chatlens/chatlens/pkg/analytics"
	"github.com/chatlens/chatlens/pkg/models"
	"github.com/chatlens/chatlens/pkg/parser"
)

// ErrInvalidExport is returned when the input yields no parseable messages
// and is therefore not a recognizable chat export.
var ErrInvalidExport = errors.New("export contains no parseable messages")

// Pipeline stages reported to the progress notifier.
const (
	StageParsing   = "parsing"
	StageAnalyzing = "analyzing"
	StageEnriching = "enriching"
	StageRecap     = "recap"
	StageIndexing  = "indexing"
	StageDone      = "done"
)

// RecapGenerator produces a natural-language summary of an analyzed chat
type RecapGenerator interface {
	Generate(ctx context.Context, messages []models.Message, profiles []models.MemberProfile) (string, error)
}

// Indexer stores parsed messages for later semantic search
type Indexer interface {
	IndexMessages(ctx context.Context, analysisID string, messages []models.Message) error
}

// Notifier receives pipeline progress events
type Notifier interface {
	Notify(analysisID, stage string)
}

// ServiceConfig contains configuration for the analysis service
type ServiceConfig struct {
	ActivityWindowDays int            // window for the "active members" count
	EnrichTitles       bool           // fetch page titles for shared resources
	Location           *time.Location // timezone of export timestamps
}

// DefaultServiceConfig returns default service configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		ActivityWindowDays: 7,
		EnrichTitles:       false,
		Location:           time.Local,
	}
}

// Service runs the analysis pipeline over uploaded export text. Recap
// generation, indexing and progress notification are optional collaborators;
// their failures degrade the report but never fail the analysis.
type Service struct {
	cfg      ServiceConfig
	enricher *analytics.TitleEnricher
	recap    RecapGenerator
	indexer  Indexer
	notifier Notifier
	reports  *ReportStore
}

// NewService creates a new analysis service
func NewService(config ...ServiceConfig) *Service {
	cfg := DefaultServiceConfig()
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	return &Service{
		cfg:      cfg,
		enricher: analytics.NewTitleEnricher(),
		reports:  NewReportStore(),
	}
}

// SetRecapGenerator sets the optional recap generator
func (s *Service) SetRecapGenerator(g RecapGenerator) { s.recap = g }

// SetIndexer sets the optional message indexer
func (s *Service) SetIndexer(ix Indexer) { s.indexer = ix }

// SetNotifier sets the optional progress notifier
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// Reports returns the store of finished reports
func (s *Service) Reports() *ReportStore { return s.reports }

// Analyze parses the export text and computes the full analysis report.
// Returns ErrInvalidExport when the text contains no parseable messages.
func (s *Service) Analyze(ctx context.Context, exportText string) (*models.AnalysisReport, error) {
	id := uuid.New().String()

	s.notify(id, StageParsing)
	p := parser.NewParser(parser.ParserConfig{Location: s.cfg.Location})
	messages := p.Parse(exportText)
	for _, warning := range p.Warnings() {
		log.Printf("analysis %s: parse warning: %s", id, warning)
	}
	if len(messages) == 0 {
		return nil, ErrInvalidExport
	}

	s.notify(id, StageAnalyzing)

	// The analyzers are independent reads over the same immutable sequence.
	var (
		profiles  []models.MemberProfile
		resources []models.Resource
		daily     []models.DailyActivity
		hourly    []models.HourCount
		active    int
	)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		profiles = analytics.AnalyzeMembers(messages)
	}()
	go func() {
		defer wg.Done()
		resources = analytics.ExtractResources(messages)
	}()
	go func() {
		defer wg.Done()
		daily = analytics.GenerateDailyStats(messages)
		hourly = analytics.GenerateHourlyDistribution(messages)
		active = analytics.ActiveMembersInPeriod(messages, s.cfg.ActivityWindowDays)
	}()
	wg.Wait()

	if s.cfg.EnrichTitles && len(resources) > 0 {
		s.notify(id, StageEnriching)
		s.enricher.Enrich(ctx, resources)
	}

	report := &models.AnalysisReport{
		ID:                 id,
		CreatedAt:          time.Now(),
		MessageCount:       len(messages),
		Members:            profiles,
		Resources:          resources,
		DailyStats:         daily,
		HourlyDistribution: hourly,
		ActiveMembers:      active,
	}

	if s.recap != nil {
		s.notify(id, StageRecap)
		recapText, err := s.recap.Generate(ctx, messages, profiles)
		if err != nil {
			log.Printf("analysis %s: recap generation failed: %v", id, err)
		} else {
			report.Recap = recapText
		}
	}

	if s.indexer != nil {
		s.notify(id, StageIndexing)
		if err := s.indexer.IndexMessages(ctx, id, messages); err != nil {
			log.Printf("analysis %s: indexing failed: %v", id, err)
		}
	}

	s.reports.Put(report)
	s.notify(id, StageDone)

	return report, nil
}

func (s *Service) notify(id, stage string) {
	if s.notifier != nil {
		s.notifier.Notify(id, stage)
	}
}
