package catalog

import (
	"context"
	"fmt"

	"orderbot/internal/models"

	"go.uber.org/zap"
)

// Result is the outcome of one catalog load. Err is set when the fetch itself
// failed; Rejected lists records dropped at ingestion.
type Result struct {
	Items    []models.MenuItem
	Rejected []error
	Err      error
}

// Loader reads the catalog once from a Source
type Loader struct {
	source Source
	logger *zap.Logger
}

// NewLoader creates a loader over source
func NewLoader(source Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{source: source, logger: logger}
}

// Load fetches and decodes all records. A failed fetch yields an empty
// catalog; a bad record is skipped and reported in Rejected.
func (l *Loader) Load(ctx context.Context) Result {
	records, err := l.source.Fetch(ctx)
	if err != nil {
		err = fmt.Errorf("failed to fetch menu: %w", err)
		l.logger.Error("catalog load failed", zap.Error(err))
		return Result{Items: []models.MenuItem{}, Err: err}
	}

	res := Result{Items: make([]models.MenuItem, 0, len(records))}
	for _, rec := range records {
		item, err := DecodeRecord(rec)
		if err != nil {
			l.logger.Warn("rejected catalog record", zap.String("id", rec.ID), zap.Error(err))
			res.Rejected = append(res.Rejected, err)
			continue
		}
		res.Items = append(res.Items, item)
	}

	l.logger.Info("catalog loaded",
		zap.Int("items", len(res.Items)),
		zap.Int("rejected", len(res.Rejected)),
	)
	return res
}
