package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/utils/logging"
)

// SyncFirestore upserts every non-excluded source table into the document
// store. One token is minted for the whole invocation, so a credential
// failure is fatal; a write failure aborts the remaining sources (chunks
// already committed stay applied).
func (uc *UseCase) SyncFirestore(ctx context.Context) error {
	if uc.writer == nil || uc.minter == nil {
		return goerr.New("Firestore destination is not configured", goerr.T(errs.TagConfig))
	}

	runID := uuid.New().String()
	logger := logging.From(ctx).With(slog.String("run_id", runID))
	ctx = logging.With(ctx, logger)

	accessToken, err := uc.minter.Mint(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to mint access token")
	}
	logger.Info("minted access token", slog.Time("expires_at", accessToken.ExpiresAt))

	tables, err := uc.source.Tables(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to read source tables")
	}

	for _, tbl := range tables {
		if uc.policy.IsExcluded(tbl.Name) {
			logger.Info("source excluded by policy", slog.Any("source", tbl.Name))
			continue
		}
		if err := uc.writer.Sync(ctx, tbl, accessToken); err != nil {
			return goerr.Wrap(err, "failed to sync source to Firestore",
				goerr.V("source", tbl.Name))
		}
		logger.Info("synced source to Firestore", slog.Any("source", tbl.Name))
	}
	return nil
}
