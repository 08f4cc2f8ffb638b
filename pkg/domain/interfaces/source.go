package interfaces

import (
	"context"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
)

// TableSource provides the tabular data to synchronize. Implementations
// wrap a spreadsheet, a set of CSV files, or in-memory fixtures.
type TableSource interface {
	Tables(ctx context.Context) ([]*table.Table, error)
}
