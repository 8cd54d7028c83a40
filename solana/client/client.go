package client

import (
	"context"
	"fmt"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/solana"
)

const defaultPollInterval = time.Second * 2

// ClientImpl talks to a Solana RPC node on behalf of the chain adapter.
// Transactions are signed by the caller-supplied signer, keys never enter
// this package.
type ClientImpl struct {
	cli          *rpc.Client
	wsCli        *ws.Client
	commitment   rpc.CommitmentType
	pollInterval time.Duration
	logger       hclog.Logger
}

var _ solana.ProgramClient = (*ClientImpl)(nil)

type clientOption func(*ClientImpl) error

func WithCommitment(commitment rpc.CommitmentType) clientOption {
	return func(c *ClientImpl) error {
		c.commitment = commitment

		return nil
	}
}

// WithWSURL enables signature confirmation over a websocket subscription
// instead of status polling.
func WithWSURL(ctx context.Context, wsURL string) clientOption {
	return func(c *ClientImpl) error {
		wsCli, err := ws.Connect(ctx, wsURL)
		if err != nil {
			return fmt.Errorf("failed to connect to ws endpoint: %w", err)
		}

		c.wsCli = wsCli

		return nil
	}
}

func WithPollInterval(interval time.Duration) clientOption {
	return func(c *ClientImpl) error {
		c.pollInterval = interval

		return nil
	}
}

func NewClient(rpcURL string, logger hclog.Logger, opts ...clientOption) (*ClientImpl, error) {
	c := &ClientImpl{
		cli:          rpc.New(rpcURL),
		commitment:   rpc.CommitmentFinalized,
		pollInterval: defaultPollInterval,
		logger:       logger.Named("solana_client"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func (c *ClientImpl) Close() {
	if c.wsCli != nil {
		c.wsCli.Close()
	}

	if c.cli != nil {
		if err := c.cli.Close(); err != nil {
			c.logger.Error("error while closing rpc client", "err", err)
		}
	}
}

func (c *ClientImpl) AccountData(ctx context.Context, account solanago.PublicKey) ([]byte, error) {
	info, err := c.cli.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Commitment: c.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account %s: %w", account, err)
	}

	if info.Value == nil {
		return nil, fmt.Errorf("account %s does not exist", account)
	}

	return info.Value.Data.GetBinary(), nil
}

// ExecuteInstructions builds one transaction from the given instructions,
// has the signer sign its message and sends it. The fee payer is the
// signer's public key.
func (c *ClientImpl) ExecuteInstructions(
	ctx context.Context, instructions []solanago.Instruction, signer chain.Signer,
) (string, error) {
	blockhash, err := c.cli.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return "", fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	payer := solanago.PublicKeyFromBytes(signer.PublicKey())

	builder := solanago.NewTransactionBuilder().
		SetRecentBlockHash(blockhash.Value.Blockhash).
		SetFeePayer(payer)

	for _, instruction := range instructions {
		builder.AddInstruction(instruction)
	}

	tx, err := builder.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build transaction: %w", err)
	}

	message, err := tx.Message.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction message: %w", err)
	}

	signature, err := signer.Sign(message)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	tx.Signatures = []solanago.Signature{solanago.SignatureFromBytes(signature)}

	sig, err := c.cli.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return sig.String(), nil
}

func (c *ClientImpl) WaitForSignature(ctx context.Context, signature string) error {
	sig, err := solanago.SignatureFromBase58(signature)
	if err != nil {
		return fmt.Errorf("invalid signature: %w", err)
	}

	if c.wsCli != nil {
		return c.waitForSignatureWS(ctx, sig)
	}

	return c.waitForSignaturePoll(ctx, sig)
}

func (c *ClientImpl) waitForSignatureWS(ctx context.Context, sig solanago.Signature) error {
	sub, err := c.wsCli.SignatureSubscribe(sig, c.commitment)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case result := <-sub.Response():
		if result.Value.Err != nil {
			return fmt.Errorf("transaction failed: %v", result.Value.Err)
		}

		return nil
	case err := <-sub.Err():
		return err
	}
}

func (c *ClientImpl) waitForSignaturePoll(ctx context.Context, sig solanago.Signature) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		statuses, err := c.cli.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			c.logger.Debug("failed to fetch signature status", "signature", sig, "err", err)

			continue
		}

		if len(statuses.Value) == 0 || statuses.Value[0] == nil {
			continue
		}

		status := statuses.Value[0]
		if status.Err != nil {
			return fmt.Errorf("transaction failed: %v", status.Err)
		}

		if status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
			return nil
		}
	}
}
