// Package pipeline wires the question-answering stages together:
// schema snapshot, SQL generation with guarded retries, limit policy,
// execution, packaging, summarization, and audit logging.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/finqlabs/finq/internal/auditlog"
	"github.com/finqlabs/finq/internal/executor"
	"github.com/finqlabs/finq/internal/genai"
	"github.com/finqlabs/finq/internal/packager"
	"github.com/finqlabs/finq/internal/sqlguard"
)

// Options configure a Pipeline. Zero values fall back to the package
// defaults of each stage.
type Options struct {
	DBPath        string
	DefaultLimit  int
	PreviewCap    int
	MaxGroups     int
	MaxDetailRows int
	MaxRetries    int
}

// DefaultLimit is the row cap appended to detail queries without an
// explicit ask.
const DefaultLimit = 500

// DefaultMaxRetries bounds the generate-validate loop.
const DefaultMaxRetries = 2

// Pipeline answers natural-language questions about the finance database.
// It holds no mutable state between questions; concurrent questions need
// independent pipelines only to avoid sharing the audit file handle.
type Pipeline struct {
	gen   genai.Generator
	sum   genai.Summarizer
	audit *auditlog.Logger
	log   *slog.Logger
	opts  Options
}

// Answer is the outcome of one question.
type Answer struct {
	Question string
	SQL      string
	Packaged *packager.Packaged
	Summary  string
	Elapsed  time.Duration
}

// New creates a pipeline. summarizer and audit may be nil; the summary is
// then skipped and audit records are dropped.
func New(gen genai.Generator, sum genai.Summarizer, audit *auditlog.Logger, log *slog.Logger, opts Options) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	return &Pipeline{gen: gen, sum: sum, audit: audit, log: log, opts: opts}
}

// Ask runs the full pipeline for one question. schemaJSON is the schema
// snapshot handed to the generator; it is never executed.
func (p *Pipeline) Ask(ctx context.Context, question, schemaJSON string) (*Answer, error) {
	start := time.Now()

	finalSQL, err := p.generateSafeSQL(ctx, question, schemaJSON)
	if err != nil {
		return nil, err
	}
	p.log.Debug("finalized sql", "sql", finalSQL)

	res, err := executor.Execute(ctx, p.opts.DBPath, finalSQL, p.opts.PreviewCap)
	if err != nil {
		return nil, err
	}
	p.log.Debug("query executed", "shape", res.Shape, "rows", res.RowCount, "elapsed", res.Elapsed)

	packaged := packager.Package(res, p.opts.MaxGroups, p.opts.MaxDetailRows)

	answer := &Answer{
		Question: question,
		SQL:      finalSQL,
		Packaged: packaged,
	}

	if p.sum != nil {
		packagedJSON, err := json.Marshal(packaged)
		if err != nil {
			return nil, fmt.Errorf("failed to encode packaged result: %w", err)
		}
		summary, err := p.sum.Summarize(ctx, question, finalSQL, string(packagedJSON))
		if err != nil {
			// A failed summary degrades to structured output only.
			p.log.Warn("summarization failed", "error", err)
		} else {
			answer.Summary = summary
		}
	}

	if p.audit != nil {
		p.audit.Record(question, finalSQL, res.RowCount, sampleRows(res, 3))
	}

	answer.Elapsed = time.Since(start)
	return answer, nil
}

// AskSQL runs operator-supplied SQL through the guard, limit policy,
// executor, and packager, skipping generation and summarization.
func (p *Pipeline) AskSQL(ctx context.Context, question, candidateSQL string) (*Answer, error) {
	validated, err := sqlguard.Validate(candidateSQL)
	if err != nil {
		return nil, err
	}
	finalSQL := sqlguard.ApplyLimitPolicy(validated, question, p.opts.DefaultLimit)

	res, err := executor.Execute(ctx, p.opts.DBPath, finalSQL, p.opts.PreviewCap)
	if err != nil {
		return nil, err
	}

	answer := &Answer{
		Question: question,
		SQL:      finalSQL,
		Packaged: packager.Package(res, p.opts.MaxGroups, p.opts.MaxDetailRows),
		Elapsed:  res.Elapsed,
	}

	if p.audit != nil {
		p.audit.Record(question, finalSQL, res.RowCount, sampleRows(res, 3))
	}
	return answer, nil
}

// generateSafeSQL runs the generate-validate loop. A guard rejection is
// fed back to the generator as part of the next question so it can
// correct itself; execution errors are never retried here.
func (p *Pipeline) generateSafeSQL(ctx context.Context, question, schemaJSON string) (string, error) {
	prompt := question
	var lastErr error

	for attempt := 0; attempt <= p.opts.MaxRetries; attempt++ {
		candidate, err := p.gen.Generate(ctx, prompt, schemaJSON)
		if err != nil {
			return "", fmt.Errorf("sql generation failed: %w", err)
		}

		validated, err := sqlguard.Validate(candidate)
		if err != nil {
			lastErr = err
			p.log.Warn("generated sql rejected", "attempt", attempt+1, "error", err)
			prompt = fmt.Sprintf("%s\n\nThe previous SQL was rejected (%v). Write a single safe SELECT statement instead.", question, err)
			continue
		}

		return sqlguard.ApplyLimitPolicy(validated, question, p.opts.DefaultLimit), nil
	}

	return "", fmt.Errorf("no valid sql after %d attempts: %w", p.opts.MaxRetries+1, lastErr)
}

func sampleRows(res *executor.Result, n int) []map[string]any {
	if len(res.Rows) < n {
		n = len(res.Rows)
	}
	return res.Rows[:n]
}
