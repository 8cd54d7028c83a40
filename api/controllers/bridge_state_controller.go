package controllers

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/api/core"
	"github.com/renbridge/ren-sdk-go/api/model/response"
	"github.com/renbridge/ren-sdk-go/api/utils"
)

// BridgeStateControllerImpl exposes the persisted bridge state: the current
// gateway address, observed deposits and burns. It never mutates the store.
type BridgeStateControllerImpl struct {
	db     core.BridgeStateDB
	logger hclog.Logger
}

var _ core.APIController = (*BridgeStateControllerImpl)(nil)

func NewBridgeStateController(db core.BridgeStateDB, logger hclog.Logger) *BridgeStateControllerImpl {
	return &BridgeStateControllerImpl{
		db:     db,
		logger: logger,
	}
}

func (*BridgeStateControllerImpl) GetPathPrefix() string {
	return "BridgeState"
}

func (c *BridgeStateControllerImpl) GetEndpoints() []*core.APIEndpoint {
	return []*core.APIEndpoint{
		{Path: "GetGatewayAddress", Method: http.MethodGet, Handler: c.getGatewayAddress, APIKeyAuth: true},
		{Path: "GetDeposits", Method: http.MethodGet, Handler: c.getDeposits, APIKeyAuth: true},
		{Path: "GetDeposit", Method: http.MethodGet, Handler: c.getDeposit, APIKeyAuth: true},
		{Path: "GetBurns", Method: http.MethodGet, Handler: c.getBurns, APIKeyAuth: true},
	}
}

func (c *BridgeStateControllerImpl) getGatewayAddress(w http.ResponseWriter, r *http.Request) {
	session, err := c.db.GetSession()
	if err != nil {
		utils.WriteErrorResponse(w, r, http.StatusInternalServerError, err, c.logger)

		return
	}

	gateway, err := c.db.GetGatewayInfo()
	if err != nil {
		utils.WriteErrorResponse(w, r, http.StatusInternalServerError, err, c.logger)

		return
	}

	if session == nil || gateway == nil {
		utils.WriteErrorResponse(w, r, http.StatusNotFound,
			errors.New("no active session"), c.logger)

		return
	}

	utils.WriteResponse(w, r, http.StatusOK, response.GatewayStateResponse{
		GatewayAddress:     gateway.GatewayAddress,
		DestinationAddress: session.DestinationAddress,
		SessionNonce:       hex.EncodeToString(session.Nonce[:]),
		SessionEndAt:       session.EndAt,
	}, c.logger)
}

func (c *BridgeStateControllerImpl) getDeposits(w http.ResponseWriter, r *http.Request) {
	processingTxs, err := c.db.GetProcessingTxs()
	if err != nil {
		utils.WriteErrorResponse(w, r, http.StatusInternalServerError, err, c.logger)

		return
	}

	utils.WriteResponse(w, r, http.StatusOK, response.NewDepositsResponse(processingTxs), c.logger)
}

func (c *BridgeStateControllerImpl) getDeposit(w http.ResponseWriter, r *http.Request) {
	queryValues := r.URL.Query()

	idArr, exists := queryValues["id"]
	if !exists || len(idArr) == 0 {
		utils.WriteErrorResponse(w, r, http.StatusBadRequest,
			errors.New("id missing from query"), c.logger)

		return
	}

	processingTx, err := c.db.GetProcessingTx(idArr[0])
	if err != nil {
		utils.WriteErrorResponse(w, r, http.StatusInternalServerError, err, c.logger)

		return
	}

	if processingTx == nil {
		utils.WriteErrorResponse(w, r, http.StatusNotFound,
			fmt.Errorf("unknown deposit: %s", idArr[0]), c.logger)

		return
	}

	utils.WriteResponse(w, r, http.StatusOK, response.NewDepositResponse(*processingTx), c.logger)
}

func (c *BridgeStateControllerImpl) getBurns(w http.ResponseWriter, r *http.Request) {
	pending, err := c.db.GetPendingBurns()
	if err != nil {
		utils.WriteErrorResponse(w, r, http.StatusInternalServerError, err, c.logger)

		return
	}

	released, err := c.db.GetReleasedBurns()
	if err != nil {
		utils.WriteErrorResponse(w, r, http.StatusInternalServerError, err, c.logger)

		return
	}

	utils.WriteResponse(w, r, http.StatusOK, response.BurnsResponse{
		Pending:  pending,
		Released: released,
	}, c.logger)
}
