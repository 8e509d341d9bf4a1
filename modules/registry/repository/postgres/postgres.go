// Package postgres persists the claim ledger. Chain state stays on chain;
// only the off-chain bookkeeping of batched claims lives here.
package postgres

import (
	"github.com/solstream-labs/creator-gateway/internal/postgres"
	"github.com/solstream-labs/creator-gateway/modules/registry/datagateway"
)

// Make sure Repository implements the ClaimsDataGateway interface
var _ datagateway.ClaimsDataGateway = (*Repository)(nil)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) *Repository {
	return &Repository{db: db}
}
