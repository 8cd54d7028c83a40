package solana

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	solanago "github.com/gagliardetto/solana-go"
	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/renvm"
	"github.com/renbridge/ren-sdk-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// registry account snapshot of the testnet gateway registry
const testRegistryBase64 = "AeUC/+ddaHyeNUw2z5rXC14JT/L5iP5XK0mntqa7XCxlBwAAAAAAAAAgAAAAFqxvuLgA/54kIgR5" +
	"1p04tZoHeWb1AMe700NdrXjY/AKV6ll5U+NOJAuSpS1MEZjUKyxi4wlqU+YEJ52Z7s4YFSA+bXjO" +
	"X3F7RHMxRq123Ox1wS/t/9HBDwNSeFD8DK9hyU5eII+zVE2ExcMXZUncKLG+CoIEWXDYPpjHI53A" +
	"EJbElO3RrCEmv30v7t+S9aOqeUdpFFBb1x5bAq9TqTcSaz1tl5JHhes5x7+TYVSrw8Gc9EQLvsD0" +
	"B0LuU09HvaCPDTzteFAQ1hYPjymyoXBm6JKineCC2+TSGe80Tr/PKvUAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAACAAAADc4YkuqUGY4mRZ" +
	"qlFyxHlx2TKnqFLGpEz10ZNNNQGHfA1/dEqPy9mwBhyspaFIeXt5VXRlelXLdpiVQannlTY6dqAq" +
	"zAx7JqIY4rr0MUIuoJF7jmWJC1UBtEVnIe1Q8WCcSBTCod3mdyscOmDKfzECswApEyfqxNBuQKGQ" +
	"ZKZy/zDaOXDT2/ccrtZkUzub+Du0s15MbOsq/t5t5EWrjpxsOcwqf2byASDdaXaT/Q/Px9EJInBu" +
	"ql31tHlPMovtAqpks254VtB/XdueMdW4CyG6i/Z8B7lFtqvdTdNbgHp+YQAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

func testRegistryData(t *testing.T) []byte {
	t.Helper()

	data, err := base64.StdEncoding.DecodeString(testRegistryBase64)
	require.NoError(t, err)

	return data
}

func testGatewayStateData(authority [20]byte, burnCount uint64) []byte {
	data := make([]byte, 0, 62)
	data = append(data, 1) // initialized
	data = append(data, authority[:]...)
	data = append(data, make([]byte, 32)...) // selectors

	var count [8]byte

	binary.LittleEndian.PutUint64(count[:], burnCount)
	data = append(data, count[:]...)
	data = append(data, 8) // underlying decimals

	return data
}

func newTestChain(t *testing.T, client *ProgramClientMock) *ChainImpl {
	t.Helper()

	registryAccount, err := RegistryStateAccount(renvm.Testnet)
	require.NoError(t, err)

	registryData := testRegistryData(t)

	prevFn := client.AccountDataFn
	client.AccountDataFn = func(account solanago.PublicKey) ([]byte, error) {
		if account.Equals(registryAccount) {
			return registryData, nil
		}

		if prevFn != nil {
			return prevFn(account)
		}

		return nil, fmt.Errorf("unexpected account: %s", account)
	}

	chainImpl, err := LoadChain(context.Background(), renvm.Testnet, client, hclog.NewNullLogger())
	require.NoError(t, err)

	return chainImpl
}

func TestLoadChainResolvesGateways(t *testing.T) {
	chainImpl := newTestChain(t, &ProgramClientMock{})

	sHash := renvm.SHash(renvm.NewSelector("BTC", "Solana", renvm.DirectionTo))

	program, err := chainImpl.registry.ResolveTokenGatewayContract(sHash)
	require.NoError(t, err)
	assert.Equal(t, "FsEACSS3nKamRKdJBaBDpZtDXWrHR2nByahr4ReoYMBH", program.String())

	mint, err := SPLTokenPubkey(program, sHash)
	require.NoError(t, err)
	assert.Equal(t, "FsaLodPu4VmSwXGr3gWfwANe4vKf8XSZcCh1CEeJ3jpD", mint.String())

	_, err = chainImpl.registry.ResolveTokenGatewayContract(common.Hash{})
	require.Error(t, err)
}

func TestDeriveAssociatedAddress(t *testing.T) {
	chainImpl := newTestChain(t, &ProgramClientMock{})

	associated, err := chainImpl.DeriveAssociatedAddress(
		context.Background(), "3h1zGmCwsRJnVk5BuRNMLsPaQu1y2aqXqXDWYCgrp5UG", "BTC")
	require.NoError(t, err)

	address, err := chainImpl.BytesToAddress(associated)
	require.NoError(t, err)
	assert.Equal(t, "4Z9Dv58aSkG9bC8stA3aqsMNXnSbJHDQTDSeddxAD1tb", address)

	roundTrip, err := chainImpl.AddressToBytes(address)
	require.NoError(t, err)
	assert.Equal(t, associated, roundTrip)
}

func TestSubmitMint(t *testing.T) {
	client := &ProgramClientMock{}

	var authority [20]byte

	copy(authority[:], []byte("renvm-authority-0000"))

	program := solanago.MustPublicKeyFromBase58("FsEACSS3nKamRKdJBaBDpZtDXWrHR2nByahr4ReoYMBH")

	gatewayAccount, err := GatewayStateAccount(program)
	require.NoError(t, err)

	client.AccountDataFn = func(account solanago.PublicKey) ([]byte, error) {
		if account.Equals(gatewayAccount) {
			return testGatewayStateData(authority, 0), nil
		}

		return nil, fmt.Errorf("unexpected account: %s", account)
	}

	chainImpl := newTestChain(t, client)

	signer := &chain.SignerMock{}
	signer.On("PublicKey").Return(
		solanago.MustPublicKeyFromBase58("3h1zGmCwsRJnVk5BuRNMLsPaQu1y2aqXqXDWYCgrp5UG").Bytes())

	var queryResponse rpc.ResponseQueryTx

	sig := make([]byte, 65)
	responseJSON := fmt.Sprintf(`{
		"tx": {
			"hash": "LLg3jxVXS4NEixjaBOUXocRqaK_Y0wk5HPshI1H3e6c",
			"in": {"v": {"phash": "%s", "nhash": "%s"}},
			"out": {"v": {"amount": "10000", "sig": "%s"}}
		},
		"txStatus": "done"
	}`,
		common.EncodeBase64URL(renvm.PHash().Bytes()),
		common.EncodeBase64URL(make([]byte, 32)),
		common.EncodeBase64URL(sig))

	require.NoError(t, json.Unmarshal([]byte(responseJSON), &queryResponse))

	client.On("ExecuteInstructions", mock.Anything, mock.MatchedBy(func(instructions []solanago.Instruction) bool {
		return len(instructions) == 2 &&
			instructions[0].ProgramID().Equals(program) &&
			instructions[1].ProgramID().Equals(solanago.Secp256k1ProgramID)
	}), signer).Return("mint-signature", nil)

	txRef, err := chainImpl.SubmitMint(
		context.Background(), "3h1zGmCwsRJnVk5BuRNMLsPaQu1y2aqXqXDWYCgrp5UG", "BTC",
		signer, &queryResponse)
	require.NoError(t, err)
	assert.Equal(t, "mint-signature", txRef)

	client.AssertExpectations(t)
}

func TestSubmitBurn(t *testing.T) {
	client := &ProgramClientMock{}

	program := solanago.MustPublicKeyFromBase58("FsEACSS3nKamRKdJBaBDpZtDXWrHR2nByahr4ReoYMBH")

	gatewayAccount, err := GatewayStateAccount(program)
	require.NoError(t, err)

	client.AccountDataFn = func(account solanago.PublicKey) ([]byte, error) {
		if account.Equals(gatewayAccount) {
			return testGatewayStateData([20]byte{}, 5), nil
		}

		return nil, fmt.Errorf("unexpected account: %s", account)
	}

	chainImpl := newTestChain(t, client)

	signer := &chain.SignerMock{}

	client.On("ExecuteInstructions", mock.Anything, mock.MatchedBy(func(instructions []solanago.Instruction) bool {
		return len(instructions) == 2 && instructions[1].ProgramID().Equals(program)
	}), signer).Return("burn-signature", nil)

	details, err := chainImpl.SubmitBurn(
		context.Background(), "BTC", "3h1zGmCwsRJnVk5BuRNMLsPaQu1y2aqXqXDWYCgrp5UG",
		10000, "tb1ql7w62elx9ucw4pj5lgw4l028hmuw80sndtntxt", signer)
	require.NoError(t, err)

	assert.Equal(t, "burn-signature", details.ConfirmedSignature)
	assert.Equal(t, uint64(6), details.Nonce)
	assert.Equal(t, uint64(10000), details.Amount)
	assert.Equal(t, "tb1ql7w62elx9ucw4pj5lgw4l028hmuw80sndtntxt", details.Recipient)

	client.AssertExpectations(t)
}

func TestIsAlreadyMintedError(t *testing.T) {
	chainImpl := &ChainImpl{logger: hclog.NewNullLogger()}

	assert.False(t, chainImpl.IsAlreadyMintedError(nil))
	assert.False(t, chainImpl.IsAlreadyMintedError(fmt.Errorf("connection refused")))
	assert.True(t, chainImpl.IsAlreadyMintedError(
		fmt.Errorf("failed to send transaction: Allocate: account Address already in use")))
	assert.True(t, chainImpl.IsAlreadyMintedError(
		fmt.Errorf("mint log account already initialized")))
}

func TestFixSignatureSimple(t *testing.T) {
	sig, err := common.DecodeBase64URL(
		"fypvW39VUS6tB8basjmi3YsSn_GR7uLTw_lGcJhQYFcRVemsA1LkF8FQKH_1XJR-bQGP6AXsPbnmB1H8AvKBWgA")
	require.NoError(t, err)
	require.Len(t, sig, 65)

	fixed, err := FixSignatureSimple(sig)
	require.NoError(t, err)
	assert.Equal(t,
		"CDsK2CsmBnLqupzsv9EeDHwc5ZYQxXt9LKzpkmusasc5z2LdDiKHqnCXpiCZTEXDYZtP7JgY4Ur9fkAU5RWSwxrnn",
		base58.Encode(fixed))

	// already normalized signatures are left alone
	again, err := FixSignatureSimple(fixed)
	require.NoError(t, err)
	assert.Equal(t, fixed, again)

	_, err = FixSignatureSimple(sig[:64])
	require.Error(t, err)
}

func TestSecpInstructionLayout(t *testing.T) {
	ethAddress := make([]byte, 20)
	signature := make([]byte, 64)
	message := []byte("renvm message")

	instruction, err := SecpInstruction(ethAddress, message, signature, 1, 1)
	require.NoError(t, err)

	data, err := instruction.Data()
	require.NoError(t, err)

	require.Len(t, data, 12+20+64+1+len(message))
	assert.Equal(t, byte(1), data[0])
	// signature offset points past header and eth address
	assert.Equal(t, uint16(32), binary.LittleEndian.Uint16(data[1:3]))
	assert.Equal(t, uint16(12), binary.LittleEndian.Uint16(data[4:6]))
	assert.Equal(t, uint16(97), binary.LittleEndian.Uint16(data[7:9]))
	assert.Equal(t, uint16(len(message)), binary.LittleEndian.Uint16(data[9:11]))
	assert.Equal(t, message, data[97:])

	_, err = SecpInstruction(ethAddress[:19], message, signature, 1, 1)
	require.Error(t, err)
}
