// Package solana is a minimal JSON-RPC reader for chain accounts. It treats
// the chain as a byte-addressable key-value store: accounts are fetched raw
// and decoded elsewhere.
package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/pkg/httpclient"
)

type Config struct {
	// URL of the RPC endpoint.
	URL string `mapstructure:"url"`

	// Commitment level for reads. Default "confirmed".
	Commitment string `mapstructure:"commitment"`

	Debug bool `mapstructure:"debug"`
}

type Client struct {
	http       *httpclient.Client
	commitment string
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "rpc url is required")
	}
	client, err := httpclient.New(cfg.URL, httpclient.Config{Debug: cfg.Debug})
	if err != nil {
		return nil, errors.Wrap(err, "can't create rpc http client")
	}
	commitment := cfg.Commitment
	if commitment == "" {
		commitment = "confirmed"
	}
	return &Client{http: client, commitment: commitment}, nil
}

type rpcRequest struct {
	JsonRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	body, err := json.Marshal(rpcRequest{
		JsonRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp, err := c.http.Post(ctx, "", httpclient.RequestOptions{Body: body})
	if err != nil {
		return errors.Wrapf(errs.Unavailable, "rpc transport: %v", err)
	}
	if resp.StatusCode() != 200 {
		return errors.Wrapf(errs.Unavailable, "rpc status %d", resp.StatusCode())
	}

	var rpcResp rpcResponse
	if err := resp.UnmarshalBody(&rpcResp); err != nil {
		return errors.Wrapf(errs.Unavailable, "rpc response: %v", err)
	}
	if rpcResp.Error != nil {
		return errors.Wrapf(errs.Unavailable, "rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return errors.Wrapf(errs.Unavailable, "rpc result: %v", err)
	}
	return nil
}

type accountValue struct {
	Data []string `json:"data"` // [payload, encoding]
}

func decodeAccountData(value *accountValue) ([]byte, error) {
	if len(value.Data) < 1 {
		return nil, errors.Wrap(errs.Unavailable, "account data missing")
	}
	raw, err := base64.StdEncoding.DecodeString(value.Data[0])
	if err != nil {
		return nil, errors.Wrapf(errs.Unavailable, "account data encoding: %v", err)
	}
	return raw, nil
}

// GetAccountBytes fetches the raw data of one account. Returns
// errs.NotFound when the account does not exist.
func (c *Client) GetAccountBytes(ctx context.Context, address string) ([]byte, error) {
	var result struct {
		Value *accountValue `json:"value"`
	}
	params := []any{address, map[string]any{
		"encoding":   "base64",
		"commitment": c.commitment,
	}}
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, errors.WithStack(err)
	}
	if result.Value == nil {
		return nil, errors.Wrapf(errs.NotFound, "account %s", address)
	}
	return decodeAccountData(result.Value)
}

// Memcmp is a byte-equality filter at a fixed account offset.
type Memcmp struct {
	Offset int
	Bytes  []byte
}

// ProgramAccount is one account returned by a filtered program scan.
type ProgramAccount struct {
	Address string
	Data    []byte
}

// FindProgramAccounts scans a program's accounts with memcmp filters.
func (c *Client) FindProgramAccounts(ctx context.Context, programID string, filters []Memcmp) ([]ProgramAccount, error) {
	rpcFilters := make([]any, 0, len(filters))
	for _, f := range filters {
		rpcFilters = append(rpcFilters, map[string]any{
			"memcmp": map[string]any{
				"offset": f.Offset,
				"bytes":  base58.Encode(f.Bytes),
			},
		})
	}
	params := []any{programID, map[string]any{
		"encoding":   "base64",
		"commitment": c.commitment,
		"filters":    rpcFilters,
	}}

	var result []struct {
		Pubkey  string       `json:"pubkey"`
		Account accountValue `json:"account"`
	}
	if err := c.call(ctx, "getProgramAccounts", params, &result); err != nil {
		return nil, errors.WithStack(err)
	}

	accounts := make([]ProgramAccount, 0, len(result))
	for _, entry := range result {
		data, err := decodeAccountData(&entry.Account)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		accounts = append(accounts, ProgramAccount{Address: entry.Pubkey, Data: data})
	}
	return accounts, nil
}
