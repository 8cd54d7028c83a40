package databaseaccess

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/renbridge/ren-sdk-go/burnrelease"
	"github.com/renbridge/ren-sdk-go/chain"
	"github.com/renbridge/ren-sdk-go/explorer"
	"github.com/renbridge/ren-sdk-go/lockmint"
	"github.com/renbridge/ren-sdk-go/renvm"
	"go.etcd.io/bbolt"
)

var (
	SessionBucket       = []byte("Session")
	ProcessingTxsBucket = []byte("ProcessingTxs")
	PendingBurnsBucket  = []byte("PendingBurns")
	ReleasedBurnsBucket = []byte("ReleasedBurns")
)

var (
	sessionKey     = []byte("session")
	gatewayInfoKey = []byte("gatewayInfo")
)

// BBoltDB persists the lock-and-mint and burn-and-release state in a single
// bbolt file, one bucket per collection, JSON values.
type BBoltDB struct {
	DB *bbolt.DB
}

var (
	_ lockmint.PersistentStore = (*BBoltDB)(nil)
	_ burnrelease.Store        = (*BBoltDB)(nil)
)

func (bd *BBoltDB) Init(filePath string) error {
	db, err := bbolt.Open(filePath, 0660, nil)
	if err != nil {
		return fmt.Errorf("could not open db: %w", err)
	}

	bd.DB = db

	return db.Update(func(tx *bbolt.Tx) error {
		for _, bn := range [][]byte{
			SessionBucket, ProcessingTxsBucket, PendingBurnsBucket, ReleasedBurnsBucket,
		} {
			_, err := tx.CreateBucketIfNotExists(bn)
			if err != nil {
				return fmt.Errorf("could not bucket: %s, err: %w", string(bn), err)
			}
		}

		return nil
	})
}

func (bd *BBoltDB) Close() error {
	return bd.DB.Close()
}

func (bd *BBoltDB) GetSession() (*renvm.Session, error) {
	var result *renvm.Session

	err := bd.DB.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(SessionBucket).Get(sessionKey); len(data) > 0 {
			result = &renvm.Session{}

			return json.Unmarshal(data, result)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (bd *BBoltDB) SaveSession(session *renvm.Session) error {
	return bd.DB.Update(func(tx *bbolt.Tx) error {
		bytes, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("could not marshal session: %w", err)
		}

		return tx.Bucket(SessionBucket).Put(sessionKey, bytes)
	})
}

func (bd *BBoltDB) GetGatewayInfo() (*lockmint.GatewayInfo, error) {
	var result *lockmint.GatewayInfo

	err := bd.DB.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(SessionBucket).Get(gatewayInfoKey); len(data) > 0 {
			result = &lockmint.GatewayInfo{}

			return json.Unmarshal(data, result)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (bd *BBoltDB) SaveGatewayInfo(info *lockmint.GatewayInfo) error {
	return bd.DB.Update(func(tx *bbolt.Tx) error {
		bytes, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("could not marshal gateway info: %w", err)
		}

		return tx.Bucket(SessionBucket).Put(gatewayInfoKey, bytes)
	})
}

func (bd *BBoltDB) GetProcessingTxs() ([]lockmint.ProcessingTx, error) {
	var result []lockmint.ProcessingTx

	err := bd.DB.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(ProcessingTxsBucket).Cursor()

		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var processingTx lockmint.ProcessingTx

			if err := json.Unmarshal(v, &processingTx); err != nil {
				return err
			}

			result = append(result, processingTx)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (bd *BBoltDB) GetProcessingTx(id string) (*lockmint.ProcessingTx, error) {
	var result *lockmint.ProcessingTx

	err := bd.DB.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(ProcessingTxsBucket).Get([]byte(id)); len(data) > 0 {
			result = &lockmint.ProcessingTx{}

			return json.Unmarshal(data, result)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (bd *BBoltDB) MarkAsConfirming(
	tx explorer.IncomingTransaction, gateway *lockmint.GatewayInfo, confirmations uint64, at time.Time,
) error {
	return bd.upsertProcessingTx(tx, gateway, lockmint.MintStateConfirming,
		func(processingTx *lockmint.ProcessingTx) {
			processingTx.Vote(confirmations, at)
		})
}

func (bd *BBoltDB) MarkAsConfirmed(
	tx explorer.IncomingTransaction, gateway *lockmint.GatewayInfo, confirmations uint64, at time.Time,
) error {
	return bd.upsertProcessingTx(tx, gateway, lockmint.MintStateConfirmed,
		func(processingTx *lockmint.ProcessingTx) {
			// deposits first seen past the threshold still get a vote
			processingTx.Vote(confirmations, at)
			processingTx.ToConfirmed(at)
		})
}

func (bd *BBoltDB) MarkAsSubmitted(id string, txHash string, at time.Time) error {
	return bd.updateProcessingTx(id, lockmint.MintStateSubmitted,
		func(processingTx *lockmint.ProcessingTx) {
			processingTx.ToSubmitted(txHash, at)
		})
}

func (bd *BBoltDB) MarkAsMinted(id string, mintTxRef string, at time.Time) error {
	return bd.updateProcessingTx(id, lockmint.MintStateMinted,
		func(processingTx *lockmint.ProcessingTx) {
			processingTx.ToMinted(mintTxRef, at)
		})
}

func (bd *BBoltDB) MarkAsIgnored(
	id string, processingError lockmint.ProcessingError, at time.Time,
) error {
	return bd.updateProcessingTx(id, lockmint.MintStateIgnored,
		func(processingTx *lockmint.ProcessingTx) {
			processingTx.ToIgnored(processingError, at)
		})
}

func (bd *BBoltDB) MarkAsProcessing(id string) (acquired bool, err error) {
	err = bd.DB.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(ProcessingTxsBucket)

		data := bucket.Get([]byte(id))
		if len(data) == 0 {
			return nil
		}

		var processingTx lockmint.ProcessingTx

		if err := json.Unmarshal(data, &processingTx); err != nil {
			return err
		}

		if processingTx.IsProcessing {
			return nil
		}

		processingTx.IsProcessing = true
		acquired = true

		return putProcessingTx(bucket, &processingTx)
	})

	return acquired, err
}

func (bd *BBoltDB) MarkAllAsNotProcessing() error {
	return bd.DB.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(ProcessingTxsBucket)
		cursor := bucket.Cursor()

		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var processingTx lockmint.ProcessingTx

			if err := json.Unmarshal(v, &processingTx); err != nil {
				return err
			}

			if !processingTx.IsProcessing {
				continue
			}

			processingTx.IsProcessing = false

			if err := putProcessingTx(bucket, &processingTx); err != nil {
				return err
			}
		}

		return nil
	})
}

// ClearSession drops the session and gateway keys only. Processing txs stay,
// deposits to earlier gateways keep draining after a rotation.
func (bd *BBoltDB) ClearSession() error {
	return bd.DB.Update(func(tx *bbolt.Tx) error {
		sessionBucket := tx.Bucket(SessionBucket)

		if err := sessionBucket.Delete(sessionKey); err != nil {
			return err
		}

		return sessionBucket.Delete(gatewayInfoKey)
	})
}

func (bd *BBoltDB) GetPendingBurns() ([]chain.BurnDetails, error) {
	return bd.getBurns(PendingBurnsBucket)
}

func (bd *BBoltDB) GetReleasedBurns() ([]chain.BurnDetails, error) {
	return bd.getBurns(ReleasedBurnsBucket)
}

func (bd *BBoltDB) SaveBurn(details chain.BurnDetails) error {
	return bd.DB.Update(func(tx *bbolt.Tx) error {
		bytes, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("could not marshal burn details: %w", err)
		}

		return tx.Bucket(PendingBurnsBucket).Put([]byte(details.ConfirmedSignature), bytes)
	})
}

func (bd *BBoltDB) MarkAsReleased(confirmedSignature string) error {
	return bd.DB.Update(func(tx *bbolt.Tx) error {
		key := []byte(confirmedSignature)
		pendingBucket := tx.Bucket(PendingBurnsBucket)

		data := pendingBucket.Get(key)
		if len(data) == 0 {
			return fmt.Errorf("unknown burn: %s", confirmedSignature)
		}

		if err := tx.Bucket(ReleasedBurnsBucket).Put(key, data); err != nil {
			return fmt.Errorf("released burn write error: %w", err)
		}

		return pendingBucket.Delete(key)
	})
}

func (bd *BBoltDB) upsertProcessingTx(
	tx explorer.IncomingTransaction, gateway *lockmint.GatewayInfo,
	newState lockmint.MintState, apply func(*lockmint.ProcessingTx),
) error {
	return bd.DB.Update(func(dbTx *bbolt.Tx) error {
		bucket := dbTx.Bucket(ProcessingTxsBucket)

		processingTx := &lockmint.ProcessingTx{}

		if data := bucket.Get([]byte(tx.ID)); len(data) > 0 {
			if err := json.Unmarshal(data, processingTx); err != nil {
				return err
			}

			processingTx.Tx = tx

			// the gateway binding is set on first observation, never replaced
			if processingTx.Gateway == nil {
				processingTx.Gateway = gateway
			}
		} else {
			processingTx = &lockmint.ProcessingTx{
				Tx: tx, State: lockmint.MintStateConfirming, Gateway: gateway,
			}
		}

		if err := processingTx.IsTransitionPossible(newState); err != nil {
			return err
		}

		apply(processingTx)

		return putProcessingTx(bucket, processingTx)
	})
}

func (bd *BBoltDB) updateProcessingTx(
	id string, newState lockmint.MintState, apply func(*lockmint.ProcessingTx),
) error {
	return bd.DB.Update(func(dbTx *bbolt.Tx) error {
		bucket := dbTx.Bucket(ProcessingTxsBucket)

		data := bucket.Get([]byte(id))
		if len(data) == 0 {
			return fmt.Errorf("unknown deposit: %s", id)
		}

		var processingTx lockmint.ProcessingTx

		if err := json.Unmarshal(data, &processingTx); err != nil {
			return err
		}

		if err := processingTx.IsTransitionPossible(newState); err != nil {
			return err
		}

		apply(&processingTx)

		return putProcessingTx(bucket, &processingTx)
	})
}

func (bd *BBoltDB) getBurns(bucketName []byte) ([]chain.BurnDetails, error) {
	var result []chain.BurnDetails

	err := bd.DB.View(func(tx *bbolt.Tx) error {
		cursor := tx.Bucket(bucketName).Cursor()

		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var details chain.BurnDetails

			if err := json.Unmarshal(v, &details); err != nil {
				return err
			}

			result = append(result, details)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func putProcessingTx(bucket *bbolt.Bucket, processingTx *lockmint.ProcessingTx) error {
	bytes, err := json.Marshal(processingTx)
	if err != nil {
		return fmt.Errorf("could not marshal processing tx: %w", err)
	}

	if err := bucket.Put([]byte(processingTx.Tx.ID), bytes); err != nil {
		return fmt.Errorf("processing tx write error: %w", err)
	}

	return nil
}
