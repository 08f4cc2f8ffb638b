package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/types"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/bqload"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/logging"
)

// SourceFailure is one failed source in a multi-source sync.
type SourceFailure struct {
	Source types.SourceName
	Err    error
}

// Summary reports the outcome of a multi-source BigQuery sync.
type Summary struct {
	Loaded  []*bqload.Result
	Skipped []types.SourceName
	Failed  []SourceFailure
}

// SyncBigQuery loads every non-excluded source table into the warehouse.
// Failures are isolated per source: one broken table never blocks the
// others. The returned error summarizes failures after all sources ran.
func (uc *UseCase) SyncBigQuery(ctx context.Context) (*Summary, error) {
	if uc.loader == nil {
		return nil, goerr.New("BigQuery destination is not configured", goerr.T(errs.TagConfig))
	}

	runID := uuid.New().String()
	logger := logging.From(ctx).With(slog.String("run_id", runID))
	ctx = logging.With(ctx, logger)

	tables, err := uc.source.Tables(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read source tables")
	}

	summary := &Summary{}
	for _, tbl := range tables {
		if uc.policy.IsExcluded(tbl.Name) {
			logger.Info("source excluded by policy", slog.Any("source", tbl.Name))
			summary.Skipped = append(summary.Skipped, tbl.Name)
			continue
		}

		result, err := uc.loader.Load(ctx, tbl, uc.policy.OverrideFor(tbl.Name))
		if err != nil {
			logger.Error("failed to load source", slog.Any("source", tbl.Name), logging.ErrAttr(err))
			summary.Failed = append(summary.Failed, SourceFailure{Source: tbl.Name, Err: err})
			continue
		}

		logger.Info("loaded source",
			slog.Any("source", tbl.Name),
			slog.Any("table_id", result.TableID),
			slog.Any("job_id", result.JobID),
			slog.Int("rows", result.Rows),
		)
		summary.Loaded = append(summary.Loaded, result)
	}

	if len(summary.Failed) > 0 {
		names := make([]string, len(summary.Failed))
		for i, f := range summary.Failed {
			names[i] = f.Source.String()
		}
		return summary, goerr.New("some sources failed to load",
			goerr.V("failed_sources", names),
			goerr.V("loaded", len(summary.Loaded)))
	}
	return summary, nil
}
