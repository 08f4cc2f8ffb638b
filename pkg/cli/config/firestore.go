package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/errs"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/docsync"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/token"
)

type Firestore struct {
	projectID     string
	databaseID    string
	keyFile       string
	secretKeyJSON string
	batchSize     int64
}

func (x *Firestore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore project ID",
			Destination: &x.projectID,
			Category:    "Firestore",
			Sources:     cli.EnvVars("SBSYNC_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Destination: &x.databaseID,
			Category:    "Firestore",
			Value:       "(default)",
			Sources:     cli.EnvVars("SBSYNC_FIRESTORE_DATABASE_ID"),
		},
		&cli.StringFlag{
			Name:        "service-account-key-file",
			Usage:       "Path to the service account JSON key used to mint write tokens",
			Destination: &x.keyFile,
			Category:    "Firestore",
			Sources:     cli.EnvVars("SBSYNC_SERVICE_ACCOUNT_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "service-account-key",
			Usage:       "Service account JSON key content (alternative to the key file)",
			Destination: &x.secretKeyJSON,
			Category:    "Firestore",
			Sources:     cli.EnvVars("SBSYNC_SERVICE_ACCOUNT_KEY"),
		},
		&cli.Int64Flag{
			Name:        "batch-size",
			Usage:       "Maximum number of document writes per batch request",
			Destination: &x.batchSize,
			Category:    "Firestore",
			Value:       500,
			Sources:     cli.EnvVars("SBSYNC_BATCH_SIZE"),
		},
	}
}

func (x Firestore) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", x.projectID),
		slog.String("database_id", x.databaseID),
		slog.String("key_file", x.keyFile),
		slog.Int64("batch_size", x.batchSize),
	)
}

func (x *Firestore) IsConfigured() bool {
	return x.projectID != ""
}

func (x *Firestore) Configure() (*docsync.Writer, *token.Minter, error) {
	writer, err := docsync.New(docsync.Config{
		ProjectID:  x.projectID,
		DatabaseID: x.databaseID,
		BatchSize:  int(x.batchSize),
	})
	if err != nil {
		return nil, nil, err
	}

	keyJSON := []byte(x.secretKeyJSON)
	if len(keyJSON) == 0 {
		if x.keyFile == "" {
			return nil, nil, goerr.New("service account key is required (file or content)",
				goerr.T(errs.TagAuthConfig))
		}
		data, err := os.ReadFile(x.keyFile)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to read service account key file",
				goerr.V("path", x.keyFile),
				goerr.T(errs.TagAuthConfig))
		}
		keyJSON = data
	}

	account, err := token.ParseServiceAccount(keyJSON)
	if err != nil {
		return nil, nil, err
	}
	minter, err := token.New(account)
	if err != nil {
		return nil, nil, err
	}
	return writer, minter, nil
}
