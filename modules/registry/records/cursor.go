package records

import (
	"crypto/sha256"
	"encoding/binary"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/solstream-labs/creator-gateway/common/errs"
)

// maxStringLen caps length-prefixed strings so a corrupt length prefix can
// never cause an oversized allocation. On-chain strings are CIDs and URIs.
const maxStringLen = 4096

// discriminator returns the 8-byte account discriminator for the given
// record name, matching the program's own derivation.
func discriminator(name string) [8]byte {
	sum := sha256.Sum256([]byte("account:" + name))
	var d [8]byte
	copy(d[:], sum[:8])
	return d
}

// AccountDiscriminator exposes the discriminator of a record kind for use
// as an account-scan filter prefix.
func AccountDiscriminator(name string) [8]byte {
	return discriminator(name)
}

// Cursor is a position-tracking reader over a raw account buffer. Every read
// is bounds-checked; a read past the end returns errs.TruncatedRecord instead
// of panicking. Numeric fields are little-endian, strings are u32
// length-prefixed UTF-8.
type Cursor struct {
	buf []byte
	pos int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.buf) - c.pos
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, errors.Wrapf(errs.TruncatedRecord, "need %d bytes at offset %d, have %d", n, c.pos, c.Remaining())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ExpectDiscriminator consumes the 8-byte account discriminator and verifies
// it matches the expected record kind.
func (c *Cursor) ExpectDiscriminator(want [8]byte) error {
	b, err := c.take(8)
	if err != nil {
		return errors.WithStack(err)
	}
	if [8]byte(b) != want {
		return errors.Wrap(errs.InvalidRecord, "discriminator mismatch")
	}
	return nil
}

func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return b[0], nil
}

// ReadBool reads a single byte that must be exactly zero or one.
func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadU8()
	if err != nil {
		return false, errors.WithStack(err)
	}
	if v > 1 {
		return false, errors.Wrapf(errs.InvalidEnumValue, "bool byte %d", v)
	}
	return v == 1, nil
}

func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadU64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *Cursor) ReadI64() (int64, error) {
	v, err := c.ReadU64()
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return int64(v), nil
}

func (c *Cursor) ReadU128() (uint128.Uint128, error) {
	b, err := c.take(16)
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return uint128.FromBytes(b), nil
}

func (c *Cursor) ReadPubkey() (Pubkey, error) {
	b, err := c.take(PubkeyLen)
	if err != nil {
		return Pubkey{}, errors.WithStack(err)
	}
	var pk Pubkey
	copy(pk[:], b)
	return pk, nil
}

// ReadString reads a u32 length-prefixed UTF-8 string.
func (c *Cursor) ReadString() (string, error) {
	n, err := c.ReadU32()
	if err != nil {
		return "", errors.WithStack(err)
	}
	if n > maxStringLen {
		return "", errors.Wrapf(errs.InvalidRecord, "string length %d exceeds limit", n)
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", errors.WithStack(err)
	}
	if !utf8.Valid(b) {
		return "", errors.Wrap(errs.InvalidUTF8, "string field")
	}
	return string(b), nil
}
