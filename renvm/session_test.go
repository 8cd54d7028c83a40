package renvm

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/renbridge/ren-sdk-go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionNonce(t *testing.T) {
	assert.Equal(t,
		"2020202020202020202020202020202020202020202020202020202034396236",
		SessionNonce(time.Unix(18870*86400, 0)).String())

	assert.Equal(t,
		"2020202020202020202020202020202020202020202020202020202034396261",
		SessionNonce(time.Unix(18874*86400, 0)).String())

	// same calendar day, same nonce
	assert.Equal(t,
		SessionNonce(time.Unix(18870*86400, 0)),
		SessionNonce(time.Unix(18870*86400+86399, 0)))
}

func TestNewSession(t *testing.T) {
	createdAt := time.Unix(18870*86400, 0)

	t.Run("defaults", func(t *testing.T) {
		session, err := NewSession("3h1zGmCwsRJnVk5BuRNMLsPaQu1y2aqXqXDWYCgrp5UG", createdAt)
		require.NoError(t, err)

		assert.Equal(t, SessionNonce(createdAt), session.Nonce)
		assert.Equal(t, createdAt.Add(DefaultSessionLifetime), session.EndAt)
	})

	t.Run("explicit nonce", func(t *testing.T) {
		nonce := common.NewHashFromBytes([]byte{0x01})

		session, err := NewSession("dest", createdAt, WithNonce(nonce))
		require.NoError(t, err)
		assert.Equal(t, nonce, session.Nonce)
	})

	t.Run("end before creation", func(t *testing.T) {
		_, err := NewSession("dest", createdAt, WithEndAt(createdAt.Add(-time.Hour)))
		require.Error(t, err)

		_, err = NewSession("dest", createdAt, WithEndAt(createdAt))
		require.Error(t, err)
	})

	t.Run("validity follows wall clock", func(t *testing.T) {
		session, err := NewSession("dest", time.Now())
		require.NoError(t, err)
		assert.True(t, session.IsValid())

		expired, err := NewSession("dest", time.Now().Add(-2*DefaultSessionLifetime))
		require.NoError(t, err)
		assert.False(t, expired.IsValid())
	})
}

func TestSessionRoundTrip(t *testing.T) {
	session, err := NewSession("3h1zGmCwsRJnVk5BuRNMLsPaQu1y2aqXqXDWYCgrp5UG", time.Unix(18870*86400, 0))
	require.NoError(t, err)

	data, err := json.Marshal(session)
	require.NoError(t, err)

	var restored Session

	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, session.Nonce, restored.Nonce)
	assert.Equal(t, session.DestinationAddress, restored.DestinationAddress)
	assert.True(t, session.EndAt.Equal(restored.EndAt))
}
