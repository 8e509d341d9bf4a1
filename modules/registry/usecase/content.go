package usecase

import (
	"context"
	"encoding/base64"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/cid"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
	"github.com/solstream-labs/creator-gateway/pkg/cryptoutil"
	"github.com/solstream-labs/creator-gateway/pkg/logger"
	"github.com/solstream-labs/creator-gateway/pkg/logger/slogx"
)

const encryptionAlgorithm = "aes-256-gcm"

// encryptionMeta is the sidecar JSON stored next to an encrypted payload.
type encryptionMeta struct {
	CID          string `json:"cid"`
	Algorithm    string `json:"algorithm"`
	Nonce        string `json:"nonce"`
	ContentType  string `json:"content_type"`
	OriginalName string `json:"original_name"`
}

// FetchContent runs the full retrieval pipeline: session, authorization,
// storage fetch and decryption. The record's on-chain encryption metadata
// reference always wins; metaCID is only a fallback for records minted
// before the sidecar cid was pinned on chain, so a caller can never steer
// decryption away from what the record declares.
func (u *Usecase) FetchContent(ctx context.Context, token, contentCID, metaCID string) (*entity.ContentPayload, error) {
	wallet, err := u.verifier.Verify(ctx, token)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if !cid.IsValid(contentCID) {
		return nil, errors.Wrapf(errs.InvalidArgument, "content id %q", contentCID)
	}
	if metaCID != "" && !cid.IsValid(metaCID) {
		return nil, errors.Wrapf(errs.InvalidArgument, "metadata id %q", metaCID)
	}

	content, err := u.registryDg.GetContentByCID(ctx, contentCID)
	if err != nil {
		if errors.Is(err, errs.NotFound) || errors.Is(err, errs.Unavailable) {
			return nil, errors.WithStack(err)
		}
		logger.ErrorContext(ctx, "content record decode failed",
			slogx.String("contentCid", contentCID), slogx.Error(err))
		return nil, errors.Wrap(errs.Forbidden, "content record unreadable")
	}

	if !u.authorizeContent(ctx, wallet, content) {
		return nil, errors.Wrapf(errs.Forbidden, "wallet %s has no access to %s", wallet, contentCID)
	}

	if !content.IsEncrypted {
		data, contentType, err := u.storage.Fetch(ctx, contentCID)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return &entity.ContentPayload{Data: data, ContentType: contentType}, nil
	}

	sidecarCID := content.EncryptionMetaCID
	if sidecarCID == "" {
		sidecarCID = metaCID
	}
	if sidecarCID == "" {
		return nil, errors.Wrap(errs.InvalidRecord, "encrypted content without encryption metadata")
	}

	var meta encryptionMeta
	if err := u.storage.FetchJSON(ctx, sidecarCID, &meta); err != nil {
		return nil, errors.Wrap(err, "fetch encryption metadata")
	}
	if meta.Algorithm != encryptionAlgorithm {
		return nil, errors.Wrapf(errs.Unsupported, "encryption algorithm %q", meta.Algorithm)
	}
	nonce, err := base64.StdEncoding.DecodeString(meta.Nonce)
	if err != nil {
		return nil, errors.Wrap(errs.InvalidRecord, "encryption nonce is not valid base64")
	}

	payloadCID := meta.CID
	if payloadCID == "" {
		payloadCID = contentCID
	}
	ciphertext, _, err := u.storage.Fetch(ctx, payloadCID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	key, err := u.keyring.ContentKey(contentCID)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	plaintext, err := cryptoutil.Open(key, nonce, ciphertext)
	if err != nil {
		// tag mismatch or corrupted payload: internal fault, never
		// leak partial plaintext
		logger.ErrorContext(ctx, "content decryption failed",
			slogx.String("contentCid", contentCID), slogx.Error(err))
		return nil, errors.Wrap(errs.SomethingWentWrong, "decrypt content")
	}

	return &entity.ContentPayload{
		Data:        plaintext,
		ContentType: meta.ContentType,
		FileName:    meta.OriginalName,
		Encrypted:   true,
	}, nil
}

// CheckAccess answers the public "would this wallet get in" probe. No
// session needed: the answer is derivable from public chain state.
func (u *Usecase) CheckAccess(ctx context.Context, wallet, contentCID string) (bool, error) {
	pk, err := parseWallet(wallet)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return u.Authorize(ctx, pk, contentCID)
}
