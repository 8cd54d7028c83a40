package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/renbridge/ren-sdk-go/api/core"
	"github.com/stretchr/testify/assert"
)

func TestWithAPIKeyAuth(t *testing.T) {
	apiConfig := core.APIConfig{
		APIKeyHeader: "X-API-Key",
		APIKeys:      []string{"valid-key"},
	}

	called := false
	handler := withAPIKeyAuth(apiConfig, func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}, hclog.NewNullLogger())

	t.Run("missing key", func(t *testing.T) {
		called = false
		recorder := httptest.NewRecorder()

		handler(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, called)
	})

	t.Run("wrong key", func(t *testing.T) {
		called = false
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-API-Key", "wrong-key")

		handler(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.False(t, called)
	})

	t.Run("valid key", func(t *testing.T) {
		called = false
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("X-API-Key", "valid-key")

		handler(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, called)
	})
}
