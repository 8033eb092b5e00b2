package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spendinganalytics/spending_analytics_app/internal/core/domain"
	"github.com/spendinganalytics/spending_analytics_app/internal/core/ports"
	portssvc "github.com/spendinganalytics/spending_analytics_app/internal/core/ports/services"
	"github.com/spendinganalytics/spending_analytics_app/internal/dto"
	"github.com/spendinganalytics/spending_analytics_app/internal/statement"
	"golang.org/x/sync/errgroup"
)

const defaultParseWorkers = 4

// ParseFunc parses one statement payload into transactions plus row-level
// error messages, or a file-level error.
type ParseFunc func(data []byte, importedAt time.Time) ([]domain.Transaction, []string, error)

// importService implements the ImporterSvc interface.
type importService struct {
	BaseService
	repo    ports.TransactionRepository
	parse   ParseFunc
	workers int
	now     func() time.Time
}

// ImportServiceOption is a functional option for configuring the import service.
type ImportServiceOption func(*importService)

// WithParseWorkers bounds the number of files parsed concurrently.
func WithParseWorkers(n int) ImportServiceOption {
	return func(s *importService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithParseFunc replaces the statement parser.
func WithParseFunc(fn ParseFunc) ImportServiceOption {
	return func(s *importService) {
		s.parse = fn
	}
}

// WithImportClock replaces the wall clock.
func WithImportClock(now func() time.Time) ImportServiceOption {
	return func(s *importService) {
		s.now = now
	}
}

// NewImportService creates a new import service with the provided options.
func NewImportService(repo ports.TransactionRepository, options ...ImportServiceOption) portssvc.ImporterSvc {
	svc := &importService{
		repo:    repo,
		parse:   statement.Parse,
		workers: defaultParseWorkers,
		now:     time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ImporterSvc = (*importService)(nil)

type parsedFile struct {
	txns    []domain.Transaction
	rowErrs []string
	err     error
}

// ImportBatch parses every file independently (concurrently, bounded),
// deduplicates within the batch keeping the first occurrence in file order,
// drops hashes the store already holds, persists the remainder in one batch
// write and recomputes per-file statistics from the final inserted set.
// Per-file and per-row problems become report entries; only storage
// failures fail the whole batch.
func (s *importService) ImportBatch(ctx context.Context, files []dto.FileUpload) (*dto.BatchImportResult, error) {
	s.LogInfo(ctx, "Starting import", slog.Int("file_count", len(files)))

	importedAt := s.now()
	results := make([]parsedFile, len(files))

	// File parsing is stateless and CPU-bound; the serialized dedup and
	// persistence phase below is the only part touching shared state.
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range files {
		i := i
		g.Go(func() error {
			txns, rowErrs, err := s.parse(files[i].Content, importedAt)
			results[i] = parsedFile{txns: txns, rowErrs: rowErrs, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, res := range results {
		if res.err != nil {
			s.LogWarn(ctx, "Failed to parse statement file",
				slog.String("file", files[i].Filename),
				slog.String("error", res.err.Error()))
		}
	}

	// In-batch dedup: first occurrence in file order wins, and the winning
	// file index is what per-file insert counts are attributed to.
	firstSeenFile := make(map[string]int)
	var uniqueTxns []domain.Transaction
	for i, res := range results {
		if res.err != nil {
			continue
		}
		for _, t := range res.txns {
			if _, seen := firstSeenFile[t.DedupHash]; seen {
				s.LogInfo(ctx, "Duplicate transaction within batch",
					slog.String("hash", t.DedupHash),
					slog.String("merchant", t.Merchant),
					slog.String("date", t.Date.Format("2006-01-02")))
				continue
			}
			firstSeenFile[t.DedupHash] = i
			uniqueTxns = append(uniqueTxns, t)
		}
	}

	hashes := make([]string, 0, len(uniqueTxns))
	for _, t := range uniqueTxns {
		hashes = append(hashes, t.DedupHash)
	}

	existing, err := s.repo.FindExistingDedupHashes(ctx, hashes)
	if err != nil {
		s.LogError(ctx, err, "Failed to check existing dedup hashes")
		return nil, fmt.Errorf("failed to check existing dedup hashes: %w", err)
	}

	newTxns := make([]domain.Transaction, 0, len(uniqueTxns))
	for _, t := range uniqueTxns {
		if _, dup := existing[t.DedupHash]; dup {
			s.LogInfo(ctx, "Duplicate transaction already in store",
				slog.String("hash", t.DedupHash),
				slog.String("merchant", t.Merchant))
			continue
		}
		newTxns = append(newTxns, t)
	}

	inserted := map[string]struct{}{}
	if len(newTxns) > 0 {
		inserted, err = s.repo.SaveAll(ctx, newTxns)
		if err != nil {
			s.LogError(ctx, err, "Failed to persist transaction batch")
			return nil, fmt.Errorf("failed to persist transaction batch: %w", err)
		}
	}

	outcome := &dto.BatchImportResult{TotalFiles: len(files)}
	for i, res := range results {
		if res.err != nil {
			outcome.Files = append(outcome.Files, dto.FileImportResult{
				FileName: files[i].Filename,
				Errors:   []string{"Error: " + res.err.Error()},
			})
			continue
		}

		rowsParsed := len(res.txns)
		insertedCount := 0
		counted := map[string]bool{}
		for _, t := range res.txns {
			if counted[t.DedupHash] {
				continue
			}
			counted[t.DedupHash] = true
			if firstSeenFile[t.DedupHash] != i {
				continue
			}
			if _, ok := inserted[t.DedupHash]; ok {
				insertedCount++
			}
		}
		skipped := rowsParsed - insertedCount

		rowErrs := res.rowErrs
		if rowErrs == nil {
			rowErrs = []string{}
		}

		outcome.TotalRowsParsed += rowsParsed
		outcome.TotalInserted += insertedCount
		outcome.TotalSkippedDuplicates += skipped
		outcome.Files = append(outcome.Files, dto.FileImportResult{
			FileName:          files[i].Filename,
			RowsParsed:        rowsParsed,
			Inserted:          insertedCount,
			SkippedDuplicates: skipped,
			Errors:            rowErrs,
		})
	}

	s.LogInfo(ctx, "Import completed",
		slog.Int("files", outcome.TotalFiles),
		slog.Int("rows_parsed", outcome.TotalRowsParsed),
		slog.Int("inserted", outcome.TotalInserted),
		slog.Int("skipped_duplicates", outcome.TotalSkippedDuplicates))

	return outcome, nil
}
