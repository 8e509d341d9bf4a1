package records

import (
	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
)

// UpdateAuthorityType is the authority kind of an NFT asset account.
type UpdateAuthorityType uint8

const (
	AuthorityNone UpdateAuthorityType = iota
	AuthorityAddress
	AuthorityCollection
)

var assetDiscriminator = discriminator("AssetRecord")

// AssetRecord is an account of the external NFT program. The authority
// address is present only for Address and Collection authority kinds; for
// Collection it is the collection the asset belongs to.
type AssetRecord struct {
	Owner         Pubkey
	AuthorityType UpdateAuthorityType
	Authority     Pubkey // valid iff AuthorityType != AuthorityNone
	Name          string
	URI           string
}

// Collection returns the collection address of the asset, if it has one.
func (r *AssetRecord) Collection() (Pubkey, bool) {
	if r.AuthorityType != AuthorityCollection {
		return Pubkey{}, false
	}
	return r.Authority, true
}

func DecodeAssetRecord(buf []byte) (*AssetRecord, error) {
	c := NewCursor(buf)
	if err := c.ExpectDiscriminator(assetDiscriminator); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		rec AssetRecord
		err error
	)
	if rec.Owner, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	authorityType, err := c.ReadU8()
	if err != nil {
		return nil, errors.Wrap(err, "update_authority_type")
	}
	if authorityType > uint8(AuthorityCollection) {
		return nil, errors.Wrapf(errs.InvalidEnumValue, "update_authority_type %d", authorityType)
	}
	rec.AuthorityType = UpdateAuthorityType(authorityType)
	if rec.AuthorityType != AuthorityNone {
		if rec.Authority, err = c.ReadPubkey(); err != nil {
			return nil, errors.Wrap(err, "update_authority")
		}
	}
	if rec.Name, err = c.ReadString(); err != nil {
		return nil, errors.Wrap(err, "name")
	}
	if rec.URI, err = c.ReadString(); err != nil {
		return nil, errors.Wrap(err, "uri")
	}
	return &rec, nil
}

func (r *AssetRecord) Marshal() []byte {
	w := newWriter(assetDiscriminator)
	w.pubkey(r.Owner)
	w.u8(uint8(r.AuthorityType))
	if r.AuthorityType != AuthorityNone {
		w.pubkey(r.Authority)
	}
	w.str(r.Name)
	w.str(r.URI)
	return w.bytes()
}
