package records

import (
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
)

// PubkeyLen is the byte length of a chain account address.
const PubkeyLen = 32

// Pubkey is a raw 32-byte chain account address.
type Pubkey [PubkeyLen]byte

// ParsePubkey decodes a base58 address string into a Pubkey.
func ParsePubkey(s string) (Pubkey, error) {
	decoded := base58.Decode(s)
	if len(decoded) != PubkeyLen {
		return Pubkey{}, errors.Wrapf(errs.InvalidArgument, "invalid pubkey %q", s)
	}
	var pk Pubkey
	copy(pk[:], decoded)
	return pk, nil
}

func (p Pubkey) String() string {
	return base58.Encode(p[:])
}

func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

func (p Pubkey) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Pubkey) UnmarshalText(text []byte) error {
	pk, err := ParsePubkey(string(text))
	if err != nil {
		return errors.WithStack(err)
	}
	*p = pk
	return nil
}
