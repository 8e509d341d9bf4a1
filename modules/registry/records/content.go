package records

import (
	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
)

// VisibilityLevel is the 4-tier access policy of a content record.
type VisibilityLevel uint8

const (
	VisibilityPublic     VisibilityLevel = 0 // anyone
	VisibilityEcosystem  VisibilityLevel = 1 // any active ecosystem subscription
	VisibilitySubscriber VisibilityLevel = 2 // active patron subscription to the creator
	VisibilityNFTOnly    VisibilityLevel = 3 // NFT ownership only, subscriptions never qualify
)

func (v VisibilityLevel) Valid() bool {
	return v <= VisibilityNFTOnly
}

func (v VisibilityLevel) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityEcosystem:
		return "ecosystem"
	case VisibilitySubscriber:
		return "subscriber"
	case VisibilityNFTOnly:
		return "nft-only"
	}
	return "invalid"
}

// ContentType is the media kind of a published content record.
type ContentType uint8

const (
	ContentTypeImage ContentType = iota
	ContentTypeVideo
	ContentTypeAudio
	ContentTypeText
	ContentTypeArchive
)

var contentDiscriminator = discriminator("ContentRecord")

// ContentRecord is a published piece of content in the on-chain registry.
// Once MintedCount > 0 the record is locked and its metadata immutable.
type ContentRecord struct {
	Creator           Pubkey
	ContentCID        string
	MetadataCID       string
	ContentType       ContentType
	TipsReceived      uint64
	CreatedAt         int64
	IsLocked          bool
	MintedCount       uint64
	PendingCount      uint64
	IsEncrypted       bool
	PreviewCID        string
	EncryptionMetaCID string
	Visibility        VisibilityLevel
}

// DecodeContentRecord parses a raw content account buffer. Any structural
// problem, including an out-of-range visibility level, is a decode error:
// the caller must treat it as deny.
func DecodeContentRecord(buf []byte) (*ContentRecord, error) {
	c := NewCursor(buf)
	if err := c.ExpectDiscriminator(contentDiscriminator); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		rec ContentRecord
		err error
	)
	if rec.Creator, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "creator")
	}
	if rec.ContentCID, err = c.ReadString(); err != nil {
		return nil, errors.Wrap(err, "content_cid")
	}
	if rec.MetadataCID, err = c.ReadString(); err != nil {
		return nil, errors.Wrap(err, "metadata_cid")
	}
	contentType, err := c.ReadU8()
	if err != nil {
		return nil, errors.Wrap(err, "content_type")
	}
	if contentType > uint8(ContentTypeArchive) {
		return nil, errors.Wrapf(errs.InvalidEnumValue, "content_type %d", contentType)
	}
	rec.ContentType = ContentType(contentType)
	if rec.TipsReceived, err = c.ReadU64(); err != nil {
		return nil, errors.Wrap(err, "tips_received")
	}
	if rec.CreatedAt, err = c.ReadI64(); err != nil {
		return nil, errors.Wrap(err, "created_at")
	}
	if rec.IsLocked, err = c.ReadBool(); err != nil {
		return nil, errors.Wrap(err, "is_locked")
	}
	if rec.MintedCount, err = c.ReadU64(); err != nil {
		return nil, errors.Wrap(err, "minted_count")
	}
	if rec.PendingCount, err = c.ReadU64(); err != nil {
		return nil, errors.Wrap(err, "pending_count")
	}
	if rec.IsEncrypted, err = c.ReadBool(); err != nil {
		return nil, errors.Wrap(err, "is_encrypted")
	}
	if rec.PreviewCID, err = c.ReadString(); err != nil {
		return nil, errors.Wrap(err, "preview_cid")
	}
	if rec.EncryptionMetaCID, err = c.ReadString(); err != nil {
		return nil, errors.Wrap(err, "encryption_meta_cid")
	}
	visibility, err := c.ReadU8()
	if err != nil {
		return nil, errors.Wrap(err, "visibility_level")
	}
	rec.Visibility = VisibilityLevel(visibility)
	if !rec.Visibility.Valid() {
		return nil, errors.Wrapf(errs.InvalidEnumValue, "visibility_level %d", visibility)
	}
	return &rec, nil
}

// Marshal serializes the record back into its account byte layout.
func (r *ContentRecord) Marshal() []byte {
	w := newWriter(contentDiscriminator)
	w.pubkey(r.Creator)
	w.str(r.ContentCID)
	w.str(r.MetadataCID)
	w.u8(uint8(r.ContentType))
	w.u64(r.TipsReceived)
	w.i64(r.CreatedAt)
	w.bool(r.IsLocked)
	w.u64(r.MintedCount)
	w.u64(r.PendingCount)
	w.bool(r.IsEncrypted)
	w.str(r.PreviewCID)
	w.str(r.EncryptionMetaCID)
	w.u8(uint8(r.Visibility))
	return w.bytes()
}
