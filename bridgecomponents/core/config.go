package core

import (
	apiCore "github.com/renbridge/ren-sdk-go/api/core"
	"github.com/renbridge/ren-sdk-go/burnrelease"
	"github.com/renbridge/ren-sdk-go/common"
	"github.com/renbridge/ren-sdk-go/lockmint"
	"github.com/renbridge/ren-sdk-go/telemetry"
)

type SolanaConfig struct {
	RPCURL string `json:"rpcUrl"`
	WSURL  string `json:"wsUrl"`
	// KeypairPath points to a keypair file in the solana-keygen json format
	KeypairPath string `json:"keypairPath"`
}

type AppSettings struct {
	DbsPath string              `json:"dbsPath"`
	Logger  common.LoggerConfig `json:"logger"`
}

// AppConfig is the full configuration of the bridge process.
type AppConfig struct {
	// Network selects the bridge environment, "mainnet" or "testnet"
	Network     string `json:"network"`
	AssetSymbol string `json:"assetSymbol"`
	// DestinationAddress receives minted assets on the destination chain
	DestinationAddress string `json:"destinationAddress"`
	// ReleaseChainName is the chain released burns settle on, e.g. "Bitcoin"
	ReleaseChainName string `json:"releaseChainName"`

	Solana      SolanaConfig              `json:"solana"`
	LockMint    lockmint.ServiceConfig    `json:"lockMint"`
	BurnRelease burnrelease.ServiceConfig `json:"burnRelease"`
	APIConfig   apiCore.APIConfig         `json:"api"`
	Telemetry   telemetry.TelemetryConfig `json:"telemetry"`
	Settings    AppSettings               `json:"appSettings"`
}

type BridgeComponents interface {
	Start() error
	Dispose() error
}
