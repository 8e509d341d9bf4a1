// Package chain reads registry, NFT and reward program accounts over the
// chain RPC and decodes them into records. All reads use account scans with
// memcmp filters anchored on the record discriminator, so only accounts of
// the requested kind reach the decoder.
package chain

import (
	"context"
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
	"github.com/solstream-labs/creator-gateway/pkg/solana"
)

type Config struct {
	// RegistryProgram holds content, subscription and bundle accounts.
	RegistryProgram string `mapstructure:"registry_program"`

	// NftProgram holds NFT asset accounts.
	NftProgram string `mapstructure:"nft_program"`

	// RewardsProgram holds pool and position accounts.
	RewardsProgram string `mapstructure:"rewards_program"`
}

type Repository struct {
	client *solana.Client
	cfg    Config
}

func NewRepository(client *solana.Client, cfg Config) (*Repository, error) {
	for _, program := range []string{cfg.RegistryProgram, cfg.NftProgram, cfg.RewardsProgram} {
		if _, err := records.ParsePubkey(program); err != nil {
			return nil, errors.Wrapf(errs.InvalidArgument, "program id %q", program)
		}
	}
	return &Repository{client: client, cfg: cfg}, nil
}

// discFilter anchors an account scan on the record kind.
func discFilter(kind string) solana.Memcmp {
	disc := records.AccountDiscriminator(kind)
	return solana.Memcmp{Offset: 0, Bytes: disc[:]}
}

// keyFilter matches a 32-byte key field at a fixed offset.
func keyFilter(offset int, key records.Pubkey) solana.Memcmp {
	return solana.Memcmp{Offset: offset, Bytes: key[:]}
}

// stringFilter matches a length-prefixed string field at a fixed offset.
// The u32 length is part of the filter bytes so a cid can never match as a
// prefix of a longer value.
func stringFilter(offset int, s string) solana.Memcmp {
	buf := make([]byte, 4+len(s))
	binary.LittleEndian.PutUint32(buf, uint32(len(s)))
	copy(buf[4:], s)
	return solana.Memcmp{Offset: offset, Bytes: buf}
}

// Registry record layouts share a shape: discriminator, then one or two
// 32-byte keys, then variable fields. These offsets are fixed by the
// program and the filters below depend on them.
const (
	firstKeyOffset   = 8
	secondKeyOffset  = 40
	afterOneKey      = 40
	afterTwoKeys     = 72
	contentCIDOffset = afterOneKey // ContentRecord and BundleItem both
)

func (r *Repository) scan(ctx context.Context, program string, filters ...solana.Memcmp) ([]solana.ProgramAccount, error) {
	accounts, err := r.client.FindProgramAccounts(ctx, program, filters)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return accounts, nil
}

// scanOne returns the single account matching the filters. The program
// enforces uniqueness of these keys; more than one match means a corrupt
// scan and is treated as not found.
func (r *Repository) scanOne(ctx context.Context, program string, filters ...solana.Memcmp) (*solana.ProgramAccount, error) {
	accounts, err := r.scan(ctx, program, filters...)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(accounts) != 1 {
		return nil, errors.Wrapf(errs.NotFound, "expected one account, found %d", len(accounts))
	}
	return &accounts[0], nil
}
