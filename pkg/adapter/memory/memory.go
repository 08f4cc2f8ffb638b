package memory

import (
	"context"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/interfaces"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/table"
)

// Source is an in-memory table source for tests and fixtures.
type Source struct {
	tables []*table.Table
}

var _ interfaces.TableSource = (*Source)(nil)

func New(tables ...*table.Table) *Source {
	return &Source{tables: tables}
}

func (x *Source) Tables(ctx context.Context) ([]*table.Table, error) {
	return x.tables, nil
}
