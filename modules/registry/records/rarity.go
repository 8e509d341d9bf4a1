package records

// RarityTier is the display bucket of a bundle NFT, derived from the
// on-chain weight field. The boundaries are fixed by the program; this side
// only consumes the weight.
type RarityTier string

const (
	RarityCommon    RarityTier = "common"
	RarityUncommon  RarityTier = "uncommon"
	RarityRare      RarityTier = "rare"
	RarityEpic      RarityTier = "epic"
	RarityLegendary RarityTier = "legendary"
)

// RarityFromWeight maps a reward weight to its rarity tier.
func RarityFromWeight(weight uint64) RarityTier {
	switch {
	case weight <= 1:
		return RarityCommon
	case weight <= 5:
		return RarityUncommon
	case weight <= 20:
		return RarityRare
	case weight <= 100:
		return RarityEpic
	default:
		return RarityLegendary
	}
}
