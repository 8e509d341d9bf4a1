package usecase

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/solstream-labs/creator-gateway/common/errs"
	"github.com/solstream-labs/creator-gateway/modules/registry/entity"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
	"github.com/solstream-labs/creator-gateway/modules/registry/session"
	"github.com/solstream-labs/creator-gateway/pkg/cryptoutil"
	"github.com/stretchr/testify/require"
)

const (
	testContentCID = "Qm" + "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testMetaCID    = "Qm" + "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testPayloadCID = "Qm" + "cccccccccccccccccccccccccccccccccccccccccccc"
	testMasterKey  = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
)

func pk(t *testing.T, fill byte) records.Pubkey {
	t.Helper()
	var p records.Pubkey
	for i := range p {
		p[i] = fill
	}
	return p
}

type testIdentity struct {
	wallet records.Pubkey
	priv   ed25519.PrivateKey
}

func newIdentity(t *testing.T) testIdentity {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	var wallet records.Pubkey
	copy(wallet[:], pub)
	return testIdentity{wallet: wallet, priv: priv}
}

func (id testIdentity) token(t *testing.T) string {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"wallet":    id.wallet.String(),
		"issued_at": time.Now().Unix(),
		"nonce":     "test-nonce",
	})
	require.NoError(t, err)
	sig := ed25519.Sign(id.priv, payload)
	return base64.RawURLEncoding.EncodeToString(payload) + "." + base64.RawURLEncoding.EncodeToString(sig)
}

type patronKey struct {
	subscriber records.Pubkey
	creator    records.Pubkey
}

type fakeRegistry struct {
	contents          map[string]*records.ContentRecord
	contentErr        error
	ecoSubs           map[records.Pubkey]*records.EcosystemSubscription
	patronSubs        map[patronKey]*records.CreatorPatronSubscription
	fundedStreams     map[records.Pubkey]bool
	assets            map[records.Pubkey][]entity.WalletAsset
	assetsErr         error
	bundleItems       map[string][]entity.BundleItemAccount
	bundleCollections map[records.Pubkey]*records.BundleCollection
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		contents:          make(map[string]*records.ContentRecord),
		ecoSubs:           make(map[records.Pubkey]*records.EcosystemSubscription),
		patronSubs:        make(map[patronKey]*records.CreatorPatronSubscription),
		fundedStreams:     make(map[records.Pubkey]bool),
		assets:            make(map[records.Pubkey][]entity.WalletAsset),
		bundleItems:       make(map[string][]entity.BundleItemAccount),
		bundleCollections: make(map[records.Pubkey]*records.BundleCollection),
	}
}

func (f *fakeRegistry) GetContentByCID(_ context.Context, cid string) (*records.ContentRecord, error) {
	if f.contentErr != nil {
		return nil, f.contentErr
	}
	content, ok := f.contents[cid]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "content %s", cid)
	}
	return content, nil
}

func (f *fakeRegistry) GetEcosystemSubscription(_ context.Context, wallet records.Pubkey) (*records.EcosystemSubscription, error) {
	sub, ok := f.ecoSubs[wallet]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return sub, nil
}

func (f *fakeRegistry) GetPatronSubscription(_ context.Context, wallet, creator records.Pubkey) (*records.CreatorPatronSubscription, error) {
	sub, ok := f.patronSubs[patronKey{subscriber: wallet, creator: creator}]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return sub, nil
}

func (f *fakeRegistry) IsStreamFunded(_ context.Context, streamID records.Pubkey) (bool, error) {
	return f.fundedStreams[streamID], nil
}

func (f *fakeRegistry) GetWalletAssets(_ context.Context, wallet records.Pubkey) ([]entity.WalletAsset, error) {
	if f.assetsErr != nil {
		return nil, f.assetsErr
	}
	return f.assets[wallet], nil
}

func (f *fakeRegistry) GetBundleItemsByContentCID(_ context.Context, cid string) ([]entity.BundleItemAccount, error) {
	return f.bundleItems[cid], nil
}

func (f *fakeRegistry) GetBundleCollection(_ context.Context, bundleRef records.Pubkey) (*records.BundleCollection, error) {
	collection, ok := f.bundleCollections[bundleRef]
	if !ok {
		return nil, errors.WithStack(errs.NotFound)
	}
	return collection, nil
}

type fakeRewards struct {
	pools     map[records.Pubkey]*entity.PoolAccount
	positions map[records.Pubkey][]*records.NftPosition

	directPools  map[string]*records.RewardPool
	globalPool   *records.GlobalHolderPool
	creatorPools map[records.Pubkey]*records.CreatorDistPool
}

func newFakeRewards() *fakeRewards {
	return &fakeRewards{
		pools:        make(map[records.Pubkey]*entity.PoolAccount),
		positions:    make(map[records.Pubkey][]*records.NftPosition),
		directPools:  make(map[string]*records.RewardPool),
		creatorPools: make(map[records.Pubkey]*records.CreatorDistPool),
	}
}

func (f *fakeRewards) GetRewardPoolByContent(_ context.Context, cid string) (*records.RewardPool, error) {
	pool, ok := f.directPools[cid]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "direct pool for %s", cid)
	}
	return pool, nil
}

func (f *fakeRewards) GetGlobalHolderPool(context.Context) (*records.GlobalHolderPool, error) {
	if f.globalPool == nil {
		return nil, errors.WithStack(errs.NotFound)
	}
	return f.globalPool, nil
}

func (f *fakeRewards) GetCreatorDistPool(_ context.Context, creator records.Pubkey) (*records.CreatorDistPool, error) {
	pool, ok := f.creatorPools[creator]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "creator pool for %s", creator)
	}
	return pool, nil
}

func (f *fakeRewards) GetPoolAccount(_ context.Context, pool records.Pubkey) (*entity.PoolAccount, error) {
	account, ok := f.pools[pool]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "pool %s", pool)
	}
	return account, nil
}

func (f *fakeRewards) GetNftPositions(_ context.Context, asset records.Pubkey) ([]*records.NftPosition, error) {
	return f.positions[asset], nil
}

type fakeObject struct {
	data        []byte
	contentType string
}

type fakeStorage struct {
	objects  map[string]fakeObject
	metadata map[string]map[string]any
	err      error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects:  make(map[string]fakeObject),
		metadata: make(map[string]map[string]any),
	}
}

func (f *fakeStorage) Fetch(_ context.Context, cid string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	obj, ok := f.objects[cid]
	if !ok {
		return nil, "", errors.Wrapf(errs.NotFound, "object %s", cid)
	}
	return obj.data, obj.contentType, nil
}

func (f *fakeStorage) FetchJSON(ctx context.Context, cid string, out any) error {
	data, _, err := f.Fetch(ctx, cid)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeStorage) FetchAssetMetadata(_ context.Context, uri string) (map[string]any, error) {
	metadata, ok := f.metadata[uri]
	if !ok {
		return nil, errors.Wrapf(errs.Unavailable, "metadata %s", uri)
	}
	return metadata, nil
}

type fakeClaims struct {
	batches map[string]*entity.ClaimBatch
	created []*entity.ClaimBatch
}

func newFakeClaims() *fakeClaims {
	return &fakeClaims{batches: make(map[string]*entity.ClaimBatch)}
}

func (f *fakeClaims) CreateClaimBatch(_ context.Context, batch *entity.ClaimBatch) error {
	f.batches[batch.ID] = batch
	f.created = append(f.created, batch)
	return nil
}

func (f *fakeClaims) GetClaimBatch(_ context.Context, id string) (*entity.ClaimBatch, error) {
	batch, ok := f.batches[id]
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "batch %s", id)
	}
	return batch, nil
}

func (f *fakeClaims) GetClaimBatchesByWallet(_ context.Context, wallet records.Pubkey, limit int32) ([]*entity.ClaimBatch, error) {
	var out []*entity.ClaimBatch
	for _, batch := range f.batches {
		if batch.Wallet == wallet && int32(len(out)) < limit {
			out = append(out, batch)
		}
	}
	return out, nil
}

func (f *fakeClaims) MarkBatchSubmitted(_ context.Context, id string, _ string) error {
	batch, ok := f.batches[id]
	if !ok {
		return errors.WithStack(errs.NotFound)
	}
	batch.Status = entity.ClaimBatchSubmitted
	return nil
}

func (f *fakeClaims) MarkBatchFailed(_ context.Context, id string, _ string) error {
	batch, ok := f.batches[id]
	if !ok {
		return errors.WithStack(errs.NotFound)
	}
	batch.Status = entity.ClaimBatchFailed
	return nil
}

type testEnv struct {
	registry *fakeRegistry
	rewards  *fakeRewards
	storage  *fakeStorage
	claims   *fakeClaims
	usecase  *Usecase
}

func newTestEnv(t *testing.T, adminWallets ...records.Pubkey) *testEnv {
	t.Helper()
	registry := newFakeRegistry()
	rewards := newFakeRewards()
	storage := newFakeStorage()
	claims := newFakeClaims()
	keyring, err := cryptoutil.NewKeyring(testMasterKey)
	require.NoError(t, err)
	verifier := session.NewVerifier(session.Config{JWTSecret: "test-secret"})
	return &testEnv{
		registry: registry,
		rewards:  rewards,
		storage:  storage,
		claims:   claims,
		usecase:  New(registry, rewards, claims, storage, verifier, keyring, adminWallets),
	}
}

// addContent registers a content record keyed by its cid.
func (e *testEnv) addContent(creator records.Pubkey, cid string, visibility records.VisibilityLevel) *records.ContentRecord {
	content := &records.ContentRecord{
		Creator:     creator,
		ContentCID:  cid,
		ContentType: records.ContentTypeImage,
		Visibility:  visibility,
	}
	e.registry.contents[cid] = content
	return content
}

func assetWithURI(address records.Pubkey, owner records.Pubkey, uri string) entity.WalletAsset {
	return entity.WalletAsset{
		Address: address,
		Record: &records.AssetRecord{
			Owner: owner,
			Name:  "asset " + strings.ToLower(address.String()[:4]),
			URI:   uri,
		},
	}
}
