package records

import (
	"github.com/cockroachdb/errors"
)

var (
	ecosystemSubDiscriminator = discriminator("EcosystemSubscription")
	patronSubDiscriminator    = discriminator("CreatorPatronSubscription")
)

// EcosystemSubscription grants its subscriber access to all
// ecosystem-visible content while active and funded.
type EcosystemSubscription struct {
	Subscriber Pubkey
	StreamID   Pubkey
	StartedAt  int64
	IsActive   bool
}

func DecodeEcosystemSubscription(buf []byte) (*EcosystemSubscription, error) {
	c := NewCursor(buf)
	if err := c.ExpectDiscriminator(ecosystemSubDiscriminator); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		rec EcosystemSubscription
		err error
	)
	if rec.Subscriber, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "subscriber")
	}
	if rec.StreamID, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "stream_id")
	}
	if rec.StartedAt, err = c.ReadI64(); err != nil {
		return nil, errors.Wrap(err, "started_at")
	}
	if rec.IsActive, err = c.ReadBool(); err != nil {
		return nil, errors.Wrap(err, "is_active")
	}
	return &rec, nil
}

func (r *EcosystemSubscription) Marshal() []byte {
	w := newWriter(ecosystemSubDiscriminator)
	w.pubkey(r.Subscriber)
	w.pubkey(r.StreamID)
	w.i64(r.StartedAt)
	w.bool(r.IsActive)
	return w.bytes()
}

// CreatorPatronSubscription grants its subscriber access to one creator's
// subscriber-visible content while active and funded.
type CreatorPatronSubscription struct {
	Subscriber Pubkey
	Creator    Pubkey
	Tier       uint8
	StreamID   Pubkey
	StartedAt  int64
	IsActive   bool
}

func DecodeCreatorPatronSubscription(buf []byte) (*CreatorPatronSubscription, error) {
	c := NewCursor(buf)
	if err := c.ExpectDiscriminator(patronSubDiscriminator); err != nil {
		return nil, errors.WithStack(err)
	}

	var (
		rec CreatorPatronSubscription
		err error
	)
	if rec.Subscriber, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "subscriber")
	}
	if rec.Creator, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "creator")
	}
	if rec.Tier, err = c.ReadU8(); err != nil {
		return nil, errors.Wrap(err, "tier")
	}
	if rec.StreamID, err = c.ReadPubkey(); err != nil {
		return nil, errors.Wrap(err, "stream_id")
	}
	if rec.StartedAt, err = c.ReadI64(); err != nil {
		return nil, errors.Wrap(err, "started_at")
	}
	if rec.IsActive, err = c.ReadBool(); err != nil {
		return nil, errors.Wrap(err, "is_active")
	}
	return &rec, nil
}

func (r *CreatorPatronSubscription) Marshal() []byte {
	w := newWriter(patronSubDiscriminator)
	w.pubkey(r.Subscriber)
	w.pubkey(r.Creator)
	w.u8(r.Tier)
	w.pubkey(r.StreamID)
	w.i64(r.StartedAt)
	w.bool(r.IsActive)
	return w.bytes()
}
