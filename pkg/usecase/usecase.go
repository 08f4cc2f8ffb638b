package usecase

import (
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/interfaces"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/policy"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/bqload"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/docsync"
	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/service/token"
)

// UseCase wires a table source to the two destination paths. The BigQuery
// path and the Firestore path never share state beyond the source tables;
// either dependency may be nil when only the other path is used.
type UseCase struct {
	source interfaces.TableSource
	loader *bqload.Loader
	writer *docsync.Writer
	minter *token.Minter
	policy *policy.Policy
}

type Option func(*UseCase)

func WithLoader(loader *bqload.Loader) Option {
	return func(uc *UseCase) { uc.loader = loader }
}

func WithWriter(writer *docsync.Writer, minter *token.Minter) Option {
	return func(uc *UseCase) {
		uc.writer = writer
		uc.minter = minter
	}
}

func WithPolicy(p *policy.Policy) Option {
	return func(uc *UseCase) { uc.policy = p }
}

func New(source interfaces.TableSource, opts ...Option) *UseCase {
	uc := &UseCase{
		source: source,
		policy: &policy.Policy{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}
