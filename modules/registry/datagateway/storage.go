package datagateway

import (
	"context"
)

// StorageGateway fetches immutable objects from content-addressed storage.
// Errors are errs.Unavailable (gateway unreachable or non-200) or
// errs.NotFound.
type StorageGateway interface {
	// Fetch returns the raw bytes and content type stored under cid.
	Fetch(ctx context.Context, cid string) ([]byte, string, error)

	// FetchJSON fetches and unmarshals a JSON object stored under cid.
	FetchJSON(ctx context.Context, cid string, out any) error

	// FetchAssetMetadata fetches off-chain NFT metadata by URI with a
	// bounded timeout. http(s) and ipfs URIs are supported.
	FetchAssetMetadata(ctx context.Context, uri string) (map[string]any, error)
}
