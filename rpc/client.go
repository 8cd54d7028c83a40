package rpc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/ybbus/jsonrpc/v3"
)

// Client is the bridge network (lightnode) JSON-RPC surface consumed by the
// orchestrators.
type Client interface {
	QueryTx(ctx context.Context, txHash string) (*ResponseQueryTx, error)
	QueryBlockState(ctx context.Context) (*ResponseQueryBlockState, error)
	QueryConfig(ctx context.Context) (*ResponseQueryConfig, error)
	SubmitTx(
		ctx context.Context, hash common.Hash,
		selector renvm.Selector, input renvm.MintTransactionInput,
	) (*ResponseSubmitTx, error)
	SelectPublicKey(ctx context.Context, assetSymbol string) ([]byte, error)
	EstimateTransactionFee(ctx context.Context, assetSymbol string) (uint64, error)
}

type ClientImpl struct {
	rpcClient jsonrpc.RPCClient
	logger    hclog.Logger
}

var _ Client = (*ClientImpl)(nil)

func NewClient(network renvm.Network, logger hclog.Logger) *ClientImpl {
	return &ClientImpl{
		rpcClient: jsonrpc.NewClient(network.LightNode),
		logger:    logger.Named("lightnode"),
	}
}

func (c *ClientImpl) QueryTx(ctx context.Context, txHash string) (*ResponseQueryTx, error) {
	result := &ResponseQueryTx{}
	if err := c.call(ctx, "ren_queryTx", ParamsQueryTx{TxHash: txHash}, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *ClientImpl) QueryBlockState(ctx context.Context) (*ResponseQueryBlockState, error) {
	result := &ResponseQueryBlockState{}
	if err := c.call(ctx, "ren_queryBlockState", struct{}{}, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *ClientImpl) QueryConfig(ctx context.Context) (*ResponseQueryConfig, error) {
	result := &ResponseQueryConfig{}
	if err := c.call(ctx, "ren_queryConfig", struct{}{}, result); err != nil {
		return nil, err
	}

	return result, nil
}

func (c *ClientImpl) SubmitTx(
	ctx context.Context, hash common.Hash,
	selector renvm.Selector, input renvm.MintTransactionInput,
) (*ResponseSubmitTx, error) {
	params := ParamsSubmitTx{
		Tx: TxSubmission{
			Hash:     common.EncodeBase64URL(hash.Bytes()),
			Version:  renvm.Version,
			Selector: selector.String(),
			In: TypedInput{
				T: renvm.MintTransactionTypeDescriptor(),
				V: NewMintValues(input),
			},
		},
	}

	c.logger.Debug("submitting tx", "hash", params.Tx.Hash, "selector", params.Tx.Selector)

	result := &ResponseSubmitTx{}
	if err := c.call(ctx, "ren_submitTx", params, result); err != nil {
		return nil, err
	}

	return result, nil
}

// SelectPublicKey returns the network's current shard public key for the
// asset, the key deposits to a gateway address are locked to.
func (c *ClientImpl) SelectPublicKey(ctx context.Context, assetSymbol string) ([]byte, error) {
	blockState, err := c.QueryBlockState(ctx)
	if err != nil {
		return nil, err
	}

	assetState, ok := blockState.State.V[assetSymbol]
	if !ok {
		return nil, fmt.Errorf("no block state for asset %s", assetSymbol)
	}

	if len(assetState.Shards) == 0 {
		return nil, fmt.Errorf("no shards for asset %s", assetSymbol)
	}

	pubKey, err := decodeBase64Any(assetState.Shards[0].PubKey)
	if err != nil {
		return nil, fmt.Errorf("could not decode shard public key: %w", err)
	}

	return pubKey, nil
}

// EstimateTransactionFee returns gasLimit * gasCap for the asset, the fee
// the network deducts when releasing.
func (c *ClientImpl) EstimateTransactionFee(ctx context.Context, assetSymbol string) (uint64, error) {
	blockState, err := c.QueryBlockState(ctx)
	if err != nil {
		return 0, err
	}

	assetState, ok := blockState.State.V[assetSymbol]
	if !ok {
		return 0, fmt.Errorf("no block state for asset %s", assetSymbol)
	}

	gasLimit, ok := new(big.Int).SetString(assetState.GasLimit, 10)
	if !ok {
		return 0, fmt.Errorf("invalid gasLimit: %q", assetState.GasLimit)
	}

	gasCap, ok := new(big.Int).SetString(assetState.GasCap, 10)
	if !ok {
		return 0, fmt.Errorf("invalid gasCap: %q", assetState.GasCap)
	}

	fee := new(big.Int).Mul(gasLimit, gasCap)
	if !fee.IsUint64() {
		return 0, fmt.Errorf("fee out of range: %s", fee)
	}

	return fee.Uint64(), nil
}

func (c *ClientImpl) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	response, err := c.rpcClient.Call(ctx, method, params)
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}

	if response.Error != nil {
		return &Error{Message: response.Error.Message, Code: response.Error.Code}
	}

	if err := response.GetObject(result); err != nil {
		return fmt.Errorf("could not decode %s response: %w", method, err)
	}

	return nil
}
