package core

import (
	"net/http"

	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/lockmint"
	"github.com/renbridge/ren-sdk-go/renvm"
)

type API interface {
	Start()
	Dispose() error
}

type APIController interface {
	GetPathPrefix() string
	GetEndpoints() []*APIEndpoint
}

type APIEndpointHandler = func(w http.ResponseWriter, r *http.Request)

type APIEndpoint struct {
	Path       string
	Method     string
	Handler    APIEndpointHandler
	APIKeyAuth bool
}

// BridgeStateDB is the read-only view of the bridge database exposed
// through the API.
type BridgeStateDB interface {
	GetSession() (*renvm.Session, error)
	GetGatewayInfo() (*lockmint.GatewayInfo, error)
	GetProcessingTxs() ([]lockmint.ProcessingTx, error)
	GetProcessingTx(id string) (*lockmint.ProcessingTx, error)
	GetPendingBurns() ([]chain.BurnDetails, error)
	GetReleasedBurns() ([]chain.BurnDetails, error)
}
