package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ishaan2692/matchify/internal/extract"
	"github.com/ishaan2692/matchify/internal/llm"
	"github.com/ishaan2692/matchify/internal/repository"
	"github.com/ishaan2692/matchify/internal/session"
	"github.com/ishaan2692/matchify/internal/storage"
)

var (
	ErrNoDocuments     = errors.New("no documents uploaded")
	ErrNoExtractedText = errors.New("no text could be extracted from the uploaded documents")
	ErrGeneration      = errors.New("generation failed")
)

const analysisPreamble = `Assess candidate fit for the job description. Consider substitutes for skills, experience, match percentage in tabular form:

Skills: Match or equivalent technologies.
Experience: Relevance to key responsibilities.
Fit: Suitability based on experience and skills.

`

// AnalysisReport is the service-level DTO for a completed comparison.
type AnalysisReport struct {
	Analysis      string   `json:"analysis"`
	ExtractedText string   `json:"extracted_text"`
	Documents     int      `json:"documents"`
	Warnings      []string `json:"warnings,omitempty"`
}

// AnalysisService compares a session's uploaded resumes against a job
// description using the model.
type AnalysisService interface {
	// Analyze extracts text from every document the session uploaded and asks
	// the model for a fit assessment. Files that cannot be fetched or parsed
	// are skipped with a warning; they do not fail the whole run.
	Analyze(ctx context.Context, sess *session.Session, jobDescription string) (*AnalysisReport, error)
}

type analysisService struct {
	repo      repository.DocumentRepository
	store     storage.Storage
	extractor extract.TextExtractor
	generator llm.Generator
}

// NewAnalysisService constructs a new AnalysisService.
func NewAnalysisService(repo repository.DocumentRepository, store storage.Storage, extractor extract.TextExtractor, generator llm.Generator) AnalysisService {
	return &analysisService{repo: repo, store: store, extractor: extractor, generator: generator}
}

func (s *analysisService) Analyze(ctx context.Context, sess *session.Session, jobDescription string) (*AnalysisReport, error) {
	docs, err := s.repo.AllBySession(ctx, sess.ID.String())
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	cache := sess.Cache()
	var combined strings.Builder
	var warnings []string
	used := 0

	for _, doc := range docs {
		content, err := s.download(ctx, doc.StoragePath)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: download failed: %v", doc.Filename, err))
			continue
		}

		contentType := doc.ContentType
		text, _, err := cache.GetOrExtract(content, func(b []byte) (string, error) {
			return s.extractor.Extract(contentType, b)
		})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s: extraction failed: %v", doc.Filename, err))
			continue
		}

		combined.WriteString(text)
		combined.WriteString("\n\n")
		used++
	}
	if used == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoExtractedText, strings.Join(warnings, "; "))
	}

	answer, err := s.generator.Generate(ctx, analysisPrompt(jobDescription, combined.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	return &AnalysisReport{
		Analysis:      answer,
		ExtractedText: combined.String(),
		Documents:     used,
		Warnings:      warnings,
	}, nil
}

// download fetches an object fully into memory; transient storage errors
// are retried.
func (s *analysisService) download(ctx context.Context, key string) ([]byte, error) {
	return retry(3, func() ([]byte, error) {
		rc, _, err := s.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	})
}

func analysisPrompt(jobDescription, resumeText string) string {
	return fmt.Sprintf("%sJob Description:\n%s\n\nResume Content:\n%s", analysisPreamble, jobDescription, resumeText)
}
