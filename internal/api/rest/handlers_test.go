package rest

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/davidleathers/muletrace-analytics/internal/infrastructure/cache"
	"github.com/davidleathers/muletrace-analytics/internal/infrastructure/config"
	"github.com/davidleathers/muletrace-analytics/internal/service/enrichment"
)

const validPayload = `{
	"suspicious_accounts": [
		{
			"account_id": "HUB",
			"ring_id": "FAN-IN-0001",
			"score": 31.2,
			"skipped": false,
			"has_cycle": false,
			"has_fan": true,
			"has_shell": false,
			"has_velocity": false,
			"total_txns": 14,
			"reasons": "fan-in hub with 14 counterparties"
		}
	],
	"fraud_rings": {
		"FAN-IN-0001": {
			"ring_id": "FAN-IN-0001",
			"type": "FAN-IN",
			"accounts": ["A", "B", "HUB"],
			"tx_ids": ["T1", "T2", "T3"],
			"total_amount": "42000.00",
			"window_start": "2024-03-01 09:00:00",
			"window_end": "2024-03-01 15:00:00",
			"counterparty_count": 14
		}
	},
	"summary": {"total_accounts": 1}
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHandler(t *testing.T, resultCache cache.Cache) *Handler {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) }
	svc := enrichment.NewService(resultCache, testLogger(), enrichment.WithClock(clock))
	return NewHandler(svc, resultCache, testLogger(), nil, "test")
}

func TestHandleEnrich_Success(t *testing.T) {
	h := testHandler(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/enrich", strings.NewReader(validPayload))
	rec := httptest.NewRecorder()
	h.handleEnrich(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope struct {
		Success bool               `json:"success"`
		Data    *enrichment.Result `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NotNil(t, envelope.Data)

	require.Len(t, envelope.Data.Accounts, 1)
	hub := envelope.Data.Accounts[0]
	assert.Equal(t, "HUB", hub.AccountID)
	require.Len(t, hub.Segments, 1)
	assert.Equal(t, 31.2, hub.ReconstructedTotal)
	assert.Equal(t, 31.2, hub.DisplayScore)

	assert.NotEmpty(t, envelope.Data.Timeline)
	assert.Len(t, envelope.Data.Graph.Edges, 2)
}

func TestHandleEnrich_Errors(t *testing.T) {
	h := testHandler(t, nil)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "EMPTY_PAYLOAD",
		},
		{
			name:       "malformed json",
			body:       `{"suspicious_accounts": [`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "MALFORMED_PAYLOAD",
		},
		{
			name:       "score out of range",
			body:       `{"suspicious_accounts":[{"account_id":"A","score":250,"total_txns":1}],"fraud_rings":{},"summary":{}}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "MALFORMED_PAYLOAD",
		},
		{
			name:       "contract violation",
			body:       `{"suspicious_accounts":[{"score":10,"total_txns":1}],"fraud_rings":{},"summary":{}}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "PAYLOAD_CONTRACT_VIOLATION",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/enrich", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.handleEnrich(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)

			var envelope struct {
				Success bool       `json:"success"`
				Error   *ErrorBody `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
			assert.False(t, envelope.Success)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestHandleHealth(t *testing.T) {
	t.Run("no cache configured", func(t *testing.T) {
		h := testHandler(t, nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		h.handleHealth(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var envelope struct {
			Data HealthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "healthy", envelope.Data.Status)
	})

	t.Run("redis reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c, err := cache.NewRedisCache(&config.RedisConfig{
			URL:         mr.Addr(),
			PoolSize:    5,
			DialTimeout: 5 * time.Second,
			ReadTimeout: 3 * time.Second,
		}, zaptest.NewLogger(t))
		require.NoError(t, err)
		defer c.Close()

		h := testHandler(t, c)
		rec := httptest.NewRecorder()
		h.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var envelope struct {
			Data HealthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "healthy", envelope.Data.Status)
		assert.Equal(t, "ok", envelope.Data.Dependencies["redis"])
	})

	t.Run("redis down degrades", func(t *testing.T) {
		mr := miniredis.RunT(t)
		c, err := cache.NewRedisCache(&config.RedisConfig{
			URL:         mr.Addr(),
			PoolSize:    5,
			DialTimeout: 5 * time.Second,
			ReadTimeout: time.Second,
		}, zaptest.NewLogger(t))
		require.NoError(t, err)
		defer c.Close()
		mr.Close()

		h := testHandler(t, c)
		rec := httptest.NewRecorder()
		h.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var envelope struct {
			Data HealthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "degraded", envelope.Data.Status)
		assert.Equal(t, "unreachable", envelope.Data.Dependencies["redis"])
	})
}
