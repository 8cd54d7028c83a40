package renvm

import (
	"fmt"

	"github.com/renbridge/ren-sdk-go/common"
)

type Direction string

const (
	DirectionTo   Direction = "to"
	DirectionFrom Direction = "from"
)

// Selector identifies one leg of one asset's bridge, for example
// "BTC/toSolana" for locking BTC and minting its wrapped representation on
// Solana.
type Selector struct {
	AssetSymbol string
	ChainName   string
	Direction   Direction
}

func NewSelector(assetSymbol, chainName string, direction Direction) Selector {
	return Selector{
		AssetSymbol: assetSymbol,
		ChainName:   chainName,
		Direction:   direction,
	}
}

func (s Selector) String() string {
	return fmt.Sprintf("%s/%s%s", s.AssetSymbol, s.Direction, s.ChainName)
}

// Hash is the selector hash used as the on-chain discriminator for this
// asset/direction/chain combination.
func (s Selector) Hash() common.Hash {
	return SHash(s)
}
