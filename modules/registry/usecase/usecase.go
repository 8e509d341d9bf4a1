package usecase

import (
	"github.com/samber/lo"
	"github.com/solstream-labs/creator-gateway/modules/registry/datagateway"
	"github.com/solstream-labs/creator-gateway/modules/registry/records"
	"github.com/solstream-labs/creator-gateway/modules/registry/session"
	"github.com/solstream-labs/creator-gateway/pkg/cryptoutil"
)

type Usecase struct {
	registryDg datagateway.RegistryDataGateway
	rewardDg   datagateway.RewardDataGateway
	claimsDg   datagateway.ClaimsDataGateway
	storage    datagateway.StorageGateway
	verifier   *session.Verifier
	keyring    *cryptoutil.Keyring

	// operator wallets allowed to act on another wallet's claims
	admins map[records.Pubkey]struct{}
}

func New(
	registryDg datagateway.RegistryDataGateway,
	rewardDg datagateway.RewardDataGateway,
	claimsDg datagateway.ClaimsDataGateway,
	storage datagateway.StorageGateway,
	verifier *session.Verifier,
	keyring *cryptoutil.Keyring,
	adminWallets []records.Pubkey,
) *Usecase {
	return &Usecase{
		registryDg: registryDg,
		rewardDg:   rewardDg,
		claimsDg:   claimsDg,
		storage:    storage,
		verifier:   verifier,
		keyring:    keyring,
		admins: lo.SliceToMap(adminWallets, func(pk records.Pubkey) (records.Pubkey, struct{}) {
			return pk, struct{}{}
		}),
	}
}
