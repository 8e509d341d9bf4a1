package records

import (
	"github.com/cockroachdb/errors"
)

var (
	bundleDiscriminator           = discriminator("Bundle")
	bundleItemDiscriminator       = discriminator("BundleItem")
	bundleCollectionDiscriminator = discriminator("BundleCollection")
)

// Bundle groups multiple content records under one NFT collection.
type Bundle struct {
	Creator Pubkey
}

func DecodeBundle(buf []byte) (*Bundle, error) {
	c := NewCursor(buf)
	if err := c.ExpectDiscriminator(bundleDiscriminator); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		rec Bundle
		err error
	)
	if rec.Creator, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "creator")
	}
	return &rec, nil
}

func (r *Bundle) Marshal() []byte {
	w := newWriter(bundleDiscriminator)
	w.pubkey(r.Creator)
	return w.bytes()
}

// BundleItem links one content record into a bundle. Many items reference
// one bundle.
type BundleItem struct {
	BundleRef  Pubkey
	ContentCID string
}

func DecodeBundleItem(buf []byte) (*BundleItem, error) {
	c := NewCursor(buf)
	if err := c.ExpectDiscriminator(bundleItemDiscriminator); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		rec BundleItem
		err error
	)
	if rec.BundleRef, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "bundle_ref")
	}
	if rec.ContentCID, err = c.ReadString(); err != nil {
		return nil, errors.Wrap(err, "content_cid")
	}
	return &rec, nil
}

func (r *BundleItem) Marshal() []byte {
	w := newWriter(bundleItemDiscriminator)
	w.pubkey(r.BundleRef)
	w.str(r.ContentCID)
	return w.bytes()
}

// BundleCollection maps a bundle to the NFT collection whose members grant
// access to the bundle's contents. One per bundle.
type BundleCollection struct {
	BundleRef       Pubkey
	CollectionAsset Pubkey
}

func DecodeBundleCollection(buf []byte) (*BundleCollection, error) {
	c := NewCursor(buf)
	if err := c.ExpectDiscriminator(bundleCollectionDiscriminator); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		rec BundleCollection
		err error
	)
	if rec.BundleRef, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "bundle_ref")
	}
	if rec.CollectionAsset, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "collection_asset")
	}
	return &rec, nil
}

func (r *BundleCollection) Marshal() []byte {
	w := newWriter(bundleCollectionDiscriminator)
	w.pubkey(r.BundleRef)
	w.pubkey(r.CollectionAsset)
	return w.bytes()
}
