package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/cid"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
	"github.com/solstream-labs/creator-gateway/pkg/logger"
	"github.com/solstream-labs/creator-gateway/pkg/logger/slogx"
)

// decision is the outcome of one grant evaluator.
type decision int

const (
	// decisionSkip means this grant does not apply (including evaluator
	// errors, which are swallowed): continue to the next evaluator.
	decisionSkip decision = iota
	decisionAllow
	decisionDeny
)

// authState carries per-decision caches so several evaluators can share one
// wallet-asset fetch. Lives for a single Authorize call.
type authState struct {
	wallet  records.Pubkey
	content *records.ContentRecord

	assets       []entity.WalletAsset
	assetsLoaded bool
}

// walletAssets fetches the wallet's NFT inventory once per decision. A fetch
// failure degrades to an empty inventory: ownership grants simply do not
// apply, the decision continues.
func (s *authState) walletAssets(ctx context.Context, u *Usecase) []entity.WalletAsset {
	if s.assetsLoaded {
		return s.assets
	}
	s.assetsLoaded = true
	assets, err := u.registryDg.GetWalletAssets(ctx, s.wallet)
	if err != nil {
		logger.WarnContext(ctx, "wallet asset lookup failed, ownership grants skipped",
			slogx.String("wallet", s.wallet.String()), slogx.Error(err))
		return nil
	}
	s.assets = assets
	return s.assets
}

// grantEvaluators run strictly in order; the first Allow or Deny ends the
// decision. Ownership runs before subscriptions: it is the strongest grant
// and evaluating it first lets the NFT-only gate skip subscription lookups
// entirely.
var grantEvaluators = []func(context.Context, *Usecase, *authState) decision{
	evalPublic,
	evalCreator,
	evalDirectNft,
	evalBundleNft,
	evalNftOnlyGate,
	evalPatronSubscription,
	evalEcosystemSubscription,
}

// Authorize decides whether wallet may access the content. Pure decision
// function, reusable outside HTTP.
//
// Fail-closed policy: a decode failure of the content record denies
// everything; errors inside individual grant evaluators are swallowed and
// treated as "grant does not apply". Only transport failure of the
// top-level content lookup is reported as an error (retryable).
func (u *Usecase) Authorize(ctx context.Context, wallet records.Pubkey, contentCID string) (bool, error) {
	if !cid.IsValid(contentCID) {
		return false, errors.Wrapf(errs.InvalidArgument, "content id %q", contentCID)
	}

	content, err := u.registryDg.GetContentByCID(ctx, contentCID)
	if err != nil {
		if errors.Is(err, errs.Unavailable) || errors.Is(err, errs.NotFound) {
			return false, errors.WithStack(err)
		}
		// malformed on-chain record: deny, log detail for operators only
		logger.ErrorContext(ctx, "content record decode failed, denying access",
			slogx.String("contentCid", contentCID), slogx.Error(err))
		return false, nil
	}

	return u.authorizeContent(ctx, wallet, content), nil
}

func (u *Usecase) authorizeContent(ctx context.Context, wallet records.Pubkey, content *records.ContentRecord) bool {
	if !content.Visibility.Valid() {
		return false
	}

	state := &authState{wallet: wallet, content: content}
	for _, eval := range grantEvaluators {
		switch eval(ctx, u, state) {
		case decisionAllow:
			return true
		case decisionDeny:
			return false
		}
	}
	return false
}

func evalPublic(_ context.Context, _ *Usecase, s *authState) decision {
	if s.content.Visibility == records.VisibilityPublic {
		return decisionAllow
	}
	return decisionSkip
}

func evalCreator(_ context.Context, _ *Usecase, s *authState) decision {
	if s.wallet == s.content.Creator {
		return decisionAllow
	}
	return decisionSkip
}

// evalDirectNft grants access when the wallet owns an NFT whose metadata
// references the content.
func evalDirectNft(ctx context.Context, u *Usecase, s *authState) decision {
	for _, asset := range s.walletAssets(ctx, u) {
		if u.assetReferencesContent(ctx, asset.Record, s.content.ContentCID) {
			return decisionAllow
		}
	}
	return decisionSkip
}

// assetReferencesContent checks the two match signals: the URI literally
// containing the cid, or the off-chain metadata JSON carrying it in a known
// field. The off-chain fetch is time-bounded and its failure is not an
// error, just "no match".
func (u *Usecase) assetReferencesContent(ctx context.Context, asset *records.AssetRecord, contentCID string) bool {
	if asset.URI == "" {
		return false
	}
	if strings.Contains(asset.URI, contentCID) {
		return true
	}

	metadata, err := u.storage.FetchAssetMetadata(ctx, asset.URI)
	if err != nil {
		logger.DebugContext(ctx, "asset metadata fetch failed",
			slogx.String("uri", asset.URI), slogx.Error(err))
		return false
	}
	for _, field := range []string{"content_cid", "contentCid", "image", "animation_url"} {
		if value, ok := metadata[field].(string); ok && strings.Contains(value, contentCID) {
			return true
		}
	}
	if properties, ok := metadata["properties"].(map[string]any); ok {
		if value, ok := properties["content_cid"].(string); ok && strings.Contains(value, contentCID) {
			return true
		}
	}
	return false
}

// evalBundleNft grants access when the wallet owns an NFT from a bundle
// collection containing the content. Three-hop join: bundle items by cid ->
// bundle -> registered collection -> wallet asset in that collection.
func evalBundleNft(ctx context.Context, u *Usecase, s *authState) decision {
	items, err := u.registryDg.GetBundleItemsByContentCID(ctx, s.content.ContentCID)
	if err != nil {
		logger.WarnContext(ctx, "bundle item lookup failed, bundle grant skipped",
			slogx.String("contentCid", s.content.ContentCID), slogx.Error(err))
		return decisionSkip
	}
	if len(items) == 0 {
		return decisionSkip
	}

	assets := s.walletAssets(ctx, u)
	if len(assets) == 0 {
		return decisionSkip
	}

	ownedCollections := make(map[records.Pubkey]struct{})
	for _, asset := range assets {
		if collection, ok := asset.Record.Collection(); ok {
			ownedCollections[collection] = struct{}{}
		}
	}
	if len(ownedCollections) == 0 {
		return decisionSkip
	}

	for _, item := range items {
		collection, err := u.registryDg.GetBundleCollection(ctx, item.Record.BundleRef)
		if err != nil {
			logger.DebugContext(ctx, "bundle collection lookup failed",
				slogx.String("bundle", item.Record.BundleRef.String()), slogx.Error(err))
			continue
		}
		if _, ok := ownedCollections[collection.CollectionAsset]; ok {
			return decisionAllow
		}
	}
	return decisionSkip
}

// evalNftOnlyGate terminates the decision for NFT-only content before any
// subscription lookup runs. Correctness and cost: subscriptions never
// satisfy level 3, and the gate saves the extra chain round trips.
func evalNftOnlyGate(_ context.Context, _ *Usecase, s *authState) decision {
	if s.content.Visibility == records.VisibilityNFTOnly {
		return decisionDeny
	}
	return decisionSkip
}

func evalPatronSubscription(ctx context.Context, u *Usecase, s *authState) decision {
	sub, err := u.registryDg.GetPatronSubscription(ctx, s.wallet, s.content.Creator)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			logger.DebugContext(ctx, "patron subscription lookup failed",
				slogx.String("wallet", s.wallet.String()), slogx.Error(err))
		}
		return decisionSkip
	}
	if !sub.IsActive {
		return decisionSkip
	}
	funded, err := u.registryDg.IsStreamFunded(ctx, sub.StreamID)
	if err != nil || !funded {
		return decisionSkip
	}
	return decisionAllow
}

func evalEcosystemSubscription(ctx context.Context, u *Usecase, s *authState) decision {
	// an ecosystem subscription only reaches ecosystem-tier content;
	// subscriber tier requires the patron path above
	if s.content.Visibility != records.VisibilityEcosystem {
		return decisionSkip
	}
	sub, err := u.registryDg.GetEcosystemSubscription(ctx, s.wallet)
	if err != nil {
		if !errors.Is(err, errs.NotFound) {
			logger.DebugContext(ctx, "ecosystem subscription lookup failed",
				slogx.String("wallet", s.wallet.String()), slogx.Error(err))
		}
		return decisionSkip
	}
	if !sub.IsActive {
		return decisionSkip
	}
	funded, err := u.registryDg.IsStreamFunded(ctx, sub.StreamID)
	if err != nil || !funded {
		return decisionSkip
	}
	return decisionAllow
}
