package burnrelease

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/renbridge/ren-sdk-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testBurnAccount   = "3h1zGmCwsRJnVk5BuRNMLsPaQu1y2aqXqXDWYCgrp5UG"
	testBurnRecipient = "tb1ql7w62elx9ucw4pj5lgw4l028hmuw80sndtntxt"
	// a Solana transaction signature, base58 of 64 bytes
	testBurnSignature = "CDsK2CsmBnLqupzsv9EeDHwc5ZYQxXt9LKzpkmusasc5z2LdDiKHqnCXpiCZTEXDYZtP7JgY4Ur9fkAU5RWSwxrnn"
)

func newTestBurnAction(t *testing.T) (*BurnAndRelease, *rpc.ClientMock, *chain.ChainMock) {
	t.Helper()

	rpcClient := &rpc.ClientMock{}
	sourceChain := &chain.ChainMock{}
	sourceChain.On("Name").Return("Solana")

	action := NewBurnAndRelease(rpcClient, sourceChain, "BTC", "Bitcoin", hclog.NewNullLogger())
	require.Equal(t, "BTC/fromSolana", action.BurnSelector().String())

	return action, rpcClient, sourceChain
}

func testBurnDetails() chain.BurnDetails {
	return chain.BurnDetails{
		ConfirmedSignature: testBurnSignature,
		Nonce:              6,
		Recipient:          testBurnRecipient,
		Amount:             9000,
	}
}

func TestSubmitBurnTransaction(t *testing.T) {
	action, _, sourceChain := newTestBurnAction(t)
	signer := &chain.SignerMock{}

	t.Run("success", func(t *testing.T) {
		sourceChain.On("SubmitBurn",
			mock.Anything, "BTC", testBurnAccount, uint64(9000), testBurnRecipient, signer).
			Return(testBurnDetails(), nil).Once()

		details, err := action.SubmitBurnTransaction(
			context.Background(), testBurnAccount, 9000, testBurnRecipient, signer)
		require.NoError(t, err)
		assert.Equal(t, testBurnDetails(), details)

		sourceChain.AssertExpectations(t)
	})

	t.Run("invalid recipient fails before burning", func(t *testing.T) {
		_, err := action.SubmitBurnTransaction(
			context.Background(), testBurnAccount, 9000, "0OIl", signer)
		require.Error(t, err)

		sourceChain.AssertNotCalled(t, "SubmitBurn",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, "0OIl", mock.Anything)
	})
}

func TestGetBurnState(t *testing.T) {
	action, _, _ := newTestBurnAction(t)

	burnState, err := action.GetBurnState(testBurnDetails())
	require.NoError(t, err)

	state := burnState.State

	// the burn signature doubles as the origin txid
	assert.Equal(t, base58.Decode(testBurnSignature), state.Txid)
	assert.Equal(t, uint32(0), state.TxIndex)
	assert.Equal(t, uint64(9000), state.Amount)
	assert.Equal(t, testBurnRecipient, state.SendTo)
	assert.Empty(t, state.GPubkey)
	assert.NotEmpty(t, state.TxHash)

	// the burn count is the nonce, big endian in the low bytes
	assert.Equal(t, uint64(6), binary.BigEndian.Uint64(burnState.Nonce[24:]))
	assert.Equal(t, [24]byte{}, [24]byte(burnState.Nonce[:24]))

	expectedNHash := renvm.NHash(burnState.Nonce, state.Txid, 0)
	assert.Equal(t, expectedNHash, state.NHash)

	// gHash commits to the release leg, not the burn leg
	recipientBytes, err := AddressToBytes(testBurnRecipient)
	require.NoError(t, err)

	releaseSelector := renvm.NewSelector("BTC", "Bitcoin", renvm.DirectionTo)
	require.Equal(t, "BTC/toBitcoin", releaseSelector.String())
	assert.Equal(t,
		renvm.GHash(renvm.PHash(), releaseSelector.Hash(), recipientBytes, burnState.Nonce),
		state.GHash)

	t.Run("deterministic", func(t *testing.T) {
		again, err := action.GetBurnState(testBurnDetails())
		require.NoError(t, err)
		assert.Equal(t, burnState, again)
	})

	t.Run("invalid signature", func(t *testing.T) {
		details := testBurnDetails()
		details.ConfirmedSignature = "0OIl"

		_, err := action.GetBurnState(details)
		require.Error(t, err)
	})
}

func TestRelease(t *testing.T) {
	action, rpcClient, _ := newTestBurnAction(t)

	burnState, err := action.GetBurnState(testBurnDetails())
	require.NoError(t, err)

	input := renvm.NewMintTransactionInput(burnState.State, burnState.Nonce)

	expectedHash, err := input.Hash(action.BurnSelector())
	require.NoError(t, err)

	rpcClient.On("SubmitTx", mock.Anything, expectedHash, action.BurnSelector(), input).
		Return(&rpc.ResponseSubmitTx{}, nil).Once()

	txHash, err := action.Release(context.Background(), burnState)
	require.NoError(t, err)
	assert.Equal(t, burnState.State.TxHash, txHash)

	rpcClient.AssertExpectations(t)
}

func TestFee(t *testing.T) {
	action, rpcClient, _ := newTestBurnAction(t)

	rpcClient.On("EstimateTransactionFee", mock.Anything, "BTC").Return(uint64(2400), nil).Once()

	fee, err := action.Fee(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2400), fee)
}
