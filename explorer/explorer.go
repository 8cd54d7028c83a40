package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/renbridge/ren-sdk-go/renvm"
)

const (
	mainnetAPIURL = "https://blockstream.info/api"
	testnetAPIURL = "https://blockstream.info/testnet/api"

	defaultRequestTimeout = time.Second * 30
	defaultRetryMax       = 3
)

// TxStatus is the confirmation state of a transaction as reported by the
// block explorer.
type TxStatus struct {
	Confirmed   bool   `json:"confirmed"`
	BlockHeight uint64 `json:"block_height"`
}

// IncomingTransaction is one unspent output paying a gateway address.
type IncomingTransaction struct {
	ID     string   `json:"txid"`
	Vout   uint32   `json:"vout"`
	Value  uint64   `json:"value"`
	Status TxStatus `json:"status"`
}

// Confirmations returns how many blocks confirm the transaction at the
// given chain tip, zero while still in the mempool.
func (tx IncomingTransaction) Confirmations(tipHeight uint64) uint64 {
	if !tx.Status.Confirmed || tipHeight < tx.Status.BlockHeight {
		return 0
	}

	return tipHeight - tx.Status.BlockHeight + 1
}

// Observer reads the state of the lock chain.
type Observer interface {
	// GetIncomingTransactions lists unspent outputs paying address
	GetIncomingTransactions(ctx context.Context, address string) ([]IncomingTransaction, error)
	GetTipHeight(ctx context.Context) (uint64, error)
}

// BlockstreamObserverImpl reads lock chain state from a blockstream.info
// compatible esplora endpoint.
type BlockstreamObserverImpl struct {
	baseURL string
	client  *retryablehttp.Client
	logger  hclog.Logger
}

var _ Observer = (*BlockstreamObserverImpl)(nil)

func NewBlockstreamObserver(network renvm.Network, logger hclog.Logger) *BlockstreamObserverImpl {
	baseURL := mainnetAPIURL
	if network.IsTestnet {
		baseURL = testnetAPIURL
	}

	return NewBlockstreamObserverWithURL(baseURL, logger)
}

func NewBlockstreamObserverWithURL(baseURL string, logger hclog.Logger) *BlockstreamObserverImpl {
	namedLogger := logger.Named("explorer")

	client := retryablehttp.NewClient()
	client.RetryMax = defaultRetryMax
	client.HTTPClient.Timeout = defaultRequestTimeout
	client.Logger = namedLogger

	return &BlockstreamObserverImpl{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		logger:  namedLogger,
	}
}

func (o *BlockstreamObserverImpl) GetIncomingTransactions(
	ctx context.Context, address string,
) ([]IncomingTransaction, error) {
	body, err := o.get(ctx, fmt.Sprintf("/address/%s/utxo", address))
	if err != nil {
		return nil, err
	}

	var txs []IncomingTransaction
	if err := json.Unmarshal(body, &txs); err != nil {
		return nil, fmt.Errorf("could not decode utxo response: %w", err)
	}

	return txs, nil
}

func (o *BlockstreamObserverImpl) GetTipHeight(ctx context.Context) (uint64, error) {
	body, err := o.get(ctx, "/blocks/tip/height")
	if err != nil {
		return 0, err
	}

	height, err := strconv.ParseUint(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("could not parse tip height: %w", err)
	}

	return height, nil
}

func (o *BlockstreamObserverImpl) get(ctx context.Context, path string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explorer request failed: %w", err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
