// Package rag orchestrates the retrieval-augmented answer pipeline:
// decompose the raw query, retrieve per question across the configured
// semantic indexes, enrich with application info, assemble a bounded
// knowledge block and complete once.
package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/topiclens/internal/domain"
	"github.com/kailas-cloud/topiclens/internal/domain/knowledge"
	"github.com/kailas-cloud/topiclens/internal/domain/record"
	"github.com/kailas-cloud/topiclens/internal/domain/semantic"
)

// topDocuments is how many ranked candidates each retrieval contributes.
const topDocuments = 3

// framingMessage is the fixed system framing for the final completion call.
const framingMessage = "You are a world-class technical documentation writer. " +
	"Use the following knowledge to answer the user's query."

// Entity fields collected from retrieval candidates for enrichment.
const (
	fieldConsumerApp = "Consumer_app"
	fieldAppOwner    = "App_owner"
)

// Application-info fields folded into the knowledge block, each defaulting
// to "" when absent; lines are never omitted.
const (
	fieldFullAppName     = "full_application_name"
	fieldApplicationID   = "application_id"
	fieldBusinessAppName = "business_application_name"
	fieldAppLevel        = "application_level"
	fieldService         = "service"
	fieldAppCategory     = "app_category"
)

// Semantic names one semantic configuration of an index and its selected
// fields.
type Semantic struct {
	Name         string
	SelectFields string
}

// Index is one searchable semantic index.
type Index struct {
	Name      string
	Semantics []Semantic
}

// AppInfoIndex is the fixed application-info index for entity enrichment.
// An empty Index disables enrichment.
type AppInfoIndex struct {
	Index                 string
	SemanticConfiguration string
	SelectFields          string
}

// Config holds the orchestration settings, immutable after construction.
type Config struct {
	Indexes         []Index
	AppInfo         AppInfoIndex
	StaticKnowledge string
	MaxQuestions    int
	KnowledgeBudget int
}

// Service runs the pipeline. Each request owns its own knowledge block;
// nothing is shared mutable state.
type Service struct {
	retriever Retriever
	completer Completer
	cfg       Config
	logger    *zap.Logger
}

// New creates the orchestrator.
func New(retriever Retriever, completer Completer, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{retriever: retriever, completer: completer, cfg: cfg, logger: logger}
}

// Answer runs the full pipeline for one query. Any retriever or completer
// failure aborts the run; partial knowledge is discarded.
func (s *Service) Answer(ctx context.Context, filter record.Filter, query string) (string, error) {
	if s.retriever == nil || s.completer == nil || len(s.cfg.Indexes) == 0 {
		return "", fmt.Errorf("semantic search is %w", domain.ErrNotConfigured)
	}

	work, err := s.decompose(ctx, query)
	if err != nil {
		return "", err
	}

	kb := knowledge.NewBlock(s.cfg.KnowledgeBudget)
	if s.cfg.StaticKnowledge != "" {
		kb.Add(knowledge.MaxRank, s.cfg.StaticKnowledge)
	}

	for _, question := range work {
		if err := s.retrieveQuestion(ctx, kb, filter, question); err != nil {
			return "", err
		}
	}

	answer, err := s.completer.Complete(ctx, framingMessage, kb.Render(), query)
	if err != nil {
		return "", fmt.Errorf("complete answer: %w", err)
	}
	return answer, nil
}

// decompose partitions the raw query into retrievable items. Questions and
// non-questions land on the same work list; the distinction only shaped the
// prompt. The list is capped to bound retrieval fan-out.
func (s *Service) decompose(ctx context.Context, query string) ([]string, error) {
	text, err := s.completer.Complete(ctx, "", "", decompositionPrompt(query))
	if err != nil {
		return nil, fmt.Errorf("decompose query: %w", err)
	}

	questions, nonQuestions := splitQuestions(text)
	work := append(questions, nonQuestions...)

	if s.cfg.MaxQuestions > 0 && len(work) > s.cfg.MaxQuestions {
		s.logger.Warn("decomposition exceeded question cap",
			zap.Int("questions", len(work)),
			zap.Int("cap", s.cfg.MaxQuestions),
		)
		work = work[:s.cfg.MaxQuestions]
	}

	s.logger.Debug("query decomposed",
		zap.Int("questions", len(questions)),
		zap.Int("non_questions", len(nonQuestions)),
	)
	return work, nil
}

// retrieveQuestion fans one work item out across every index and semantic
// configuration, folding answers, captions and application info into the
// knowledge block.
func (s *Service) retrieveQuestion(
	ctx context.Context, kb *knowledge.Block, filter record.Filter, question string,
) error {
	kb.Add(knowledge.MaxRank, "Question: "+question)

	combined := combineQuery(filter, question)
	for _, idx := range s.cfg.Indexes {
		for _, sem := range idx.Semantics {
			res, err := s.retriever.Retrieve(ctx, idx.Name, sem.Name, sem.SelectFields, combined)
			if err != nil {
				return fmt.Errorf("retrieve from index %q: %w", idx.Name, err)
			}

			for _, a := range res.Answers {
				kb.Add(a.Score, "Answer: "+a.Text)
			}

			top := semantic.TopN(res.Documents, topDocuments)
			for _, d := range top {
				for _, c := range d.Captions {
					if c.Text == "" || c.Highlights == "" {
						continue
					}
					kb.Add(d.Score, "Summary: "+c.Text)
				}
			}

			if err := s.enrich(ctx, kb, top); err != nil {
				return err
			}
		}
	}
	return nil
}

// enrich collects the distinct entity values of the top candidates and
// issues one lookup against the application-info index. Values are sorted so
// the same candidates always produce the same knowledge block.
func (s *Service) enrich(ctx context.Context, kb *knowledge.Block, top []semantic.Document) error {
	if s.cfg.AppInfo.Index == "" {
		return nil
	}

	seen := make(map[string]struct{})
	for _, d := range top {
		for _, field := range []string{fieldConsumerApp, fieldAppOwner} {
			if v := d.Field(field); v != "" {
				seen[v] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}

	apps := make([]string, 0, len(seen))
	for v := range seen {
		apps = append(apps, v)
	}
	sort.Strings(apps)
	list := strings.Join(apps, " or ")
	query := fmt.Sprintf("(%s: (%s) or %s: (%s))", fieldFullAppName, list, fieldBusinessAppName, list)

	res, err := s.retriever.Retrieve(
		ctx, s.cfg.AppInfo.Index, s.cfg.AppInfo.SemanticConfiguration, s.cfg.AppInfo.SelectFields, query,
	)
	if err != nil {
		return fmt.Errorf("retrieve application info: %w", err)
	}

	for _, d := range semantic.TopN(res.Documents, topDocuments) {
		kb.Add(d.Score, fmt.Sprintf(
			"Application Information of Application Name or App Name: %s\n"+
				"Application ID: %s\n"+
				"Business Application Name: %s\n"+
				"Application Level: %s\n"+
				"Service: %s\n"+
				"App Category: %s\n",
			d.Field(fieldFullAppName),
			d.Field(fieldApplicationID),
			d.Field(fieldBusinessAppName),
			d.Field(fieldAppLevel),
			d.Field(fieldService),
			d.Field(fieldAppCategory),
		))
	}
	return nil
}

// combineQuery ANDs the present structured filters, rendered as
// "Field: value", together with the question text.
func combineQuery(filter record.Filter, question string) string {
	parts := make([]string, 0, 4)
	if filter.Owner != "" {
		parts = append(parts, fieldAppOwner+": "+filter.Owner)
	}
	if filter.Topic != "" {
		parts = append(parts, "Topic_name: "+filter.Topic)
	}
	if filter.ConsumerApp != "" {
		parts = append(parts, fieldConsumerApp+": "+filter.ConsumerApp)
	}
	parts = append(parts, question)
	return strings.Join(parts, " and ")
}
