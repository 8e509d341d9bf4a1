// Package ipfs fetches immutable objects from a content-addressed storage
// gateway. Read-only: uploads happen elsewhere in the platform.
package ipfs

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/pkg/httpclient"
)

const defaultTimeout = 30 * time.Second

// metadataTimeout bounds off-chain NFT metadata fetches so a slow host can
// not stall an authorization decision.
const metadataTimeout = 5 * time.Second

type Config struct {
	// GatewayURL is the base URL of the storage gateway, e.g.
	// "https://ipfs.example.com/ipfs".
	GatewayURL string `mapstructure:"gateway_url"`

	// Timeout per object fetch. Default 30s.
	Timeout time.Duration `mapstructure:"timeout"`

	Debug bool `mapstructure:"debug"`
}

type Gateway struct {
	client  *httpclient.Client
	timeout time.Duration
}

func NewGateway(cfg Config) (*Gateway, error) {
	if cfg.GatewayURL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "gateway url is required")
	}
	client, err := httpclient.New(cfg.GatewayURL, httpclient.Config{Debug: cfg.Debug})
	if err != nil {
		return nil, errors.Wrap(err, "can't create gateway http client")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{client: client, timeout: timeout}, nil
}

// Fetch returns the raw bytes and content type stored under cid.
func (g *Gateway) Fetch(ctx context.Context, cid string) ([]byte, string, error) {
	resp, err := g.client.Get(ctx, "/"+cid, httpclient.RequestOptions{Timeout: g.timeout})
	if err != nil {
		return nil, "", errors.Wrapf(errs.Unavailable, "gateway fetch %s: %v", cid, err)
	}
	switch resp.StatusCode() {
	case 200:
	case 404:
		return nil, "", errors.Wrapf(errs.NotFound, "object %s", cid)
	default:
		return nil, "", errors.Wrapf(errs.Unavailable, "gateway status %d for %s", resp.StatusCode(), cid)
	}
	body, err := resp.BodyUncompressed()
	if err != nil {
		return nil, "", errors.Wrapf(errs.Unavailable, "gateway body %s: %v", cid, err)
	}
	return body, string(resp.Header.ContentType()), nil
}

// FetchJSON fetches and unmarshals a JSON object stored under cid.
func (g *Gateway) FetchJSON(ctx context.Context, cid string, out any) error {
	body, _, err := g.Fetch(ctx, cid)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrapf(errs.Unavailable, "object %s is not valid json: %v", cid, err)
	}
	return nil
}

// FetchAssetMetadata fetches off-chain NFT metadata by URI with a 5 second
// deadline. ipfs:// URIs are rewritten through the configured gateway.
func (g *Gateway) FetchAssetMetadata(ctx context.Context, uri string) (map[string]any, error) {
	var (
		resp *httpclient.HttpResponse
		err  error
	)
	switch {
	case strings.HasPrefix(uri, "ipfs://"):
		path := "/" + strings.TrimPrefix(uri, "ipfs://")
		resp, err = g.client.Get(ctx, path, httpclient.RequestOptions{Timeout: metadataTimeout})
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		var external *httpclient.Client
		external, err = httpclient.New(uri)
		if err != nil {
			return nil, errors.Wrapf(errs.Unavailable, "metadata uri %q: %v", uri, err)
		}
		resp, err = external.Get(ctx, "", httpclient.RequestOptions{Timeout: metadataTimeout})
	default:
		return nil, errors.Wrapf(errs.InvalidArgument, "unsupported metadata uri scheme %q", uri)
	}
	if err != nil {
		return nil, errors.Wrapf(errs.Unavailable, "metadata fetch %q: %v", uri, err)
	}
	if resp.StatusCode() != 200 {
		return nil, errors.Wrapf(errs.Unavailable, "metadata status %d for %q", resp.StatusCode(), uri)
	}

	var metadata map[string]any
	if err := resp.UnmarshalBody(&metadata); err != nil {
		return nil, errors.Wrapf(errs.Unavailable, "metadata body %q: %v", uri, err)
	}
	return metadata, nil
}
