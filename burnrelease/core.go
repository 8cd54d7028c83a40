package burnrelease

import (
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/renvm"
)

// BurnState is the recomputed working set for one burn, everything needed to
// submit the release to the bridge network.
type BurnState struct {
	State renvm.State
	Nonce common.Hash
}

// Store persists burns between submission and release. A burn saved here
// must survive a crash, a burned but unreleased fund is never silently
// dropped.
type Store interface {
	GetPendingBurns() ([]chain.BurnDetails, error)
	SaveBurn(details chain.BurnDetails) error
	MarkAsReleased(confirmedSignature string) error
}
