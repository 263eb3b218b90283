package twelvedata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	drepo "FxSignals/internal/domain/repository"
	xhttp "FxSignals/pkg/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valuesJSON(n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		// newest first
		minute := (n - 1 - i) * 5
		parts[i] = fmt.Sprintf(`{"datetime":"2024-05-01 %02d:%02d:00","open":"1.%04d","high":"1.%04d","low":"1.%04d","close":"1.%04d"}`,
			10+minute/60, minute%60, n-i, n-i+1, n-i-1, n-i)
	}
	return `{"meta":{"symbol":"EUR/USD"},"status":"ok","values":[` + strings.Join(parts, ",") + `]}`
}

func TestGetCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time_series", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "EUR/USD", q.Get("symbol"))
		assert.Equal(t, "5min", q.Get("interval"))
		assert.Equal(t, "100", q.Get("outputsize"))
		assert.Equal(t, "secret", q.Get("apikey"))
		_, _ = w.Write([]byte(valuesJSON(60)))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "secret", 50, xhttp.NewClient())
	got, err := c.GetCandles(context.Background(), "EUR/USD", drepo.Interval5m, 100)
	require.NoError(t, err)
	require.Len(t, got, 60)

	assert.Equal(t, "2024-05-01 10:00:00", got[0].Time)
	assert.Equal(t, "2024-05-01 14:55:00", got[59].Time)
	assert.InDelta(t, 1.0001, got[0].Close, 1e-9)
	assert.InDelta(t, 1.0060, got[59].Close, 1e-9)
	assert.InDelta(t, 1.0061, got[59].High, 1e-9)
	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i].Close, got[i-1].Close)
	}
}

func TestGetCandlesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"api error", http.StatusOK, `{"status":"error","code":429,"message":"You have run out of API credits"}`, drepo.ErrUpstream},
		{"http error", http.StatusBadGateway, `bad gateway`, drepo.ErrUpstream},
		{"too few values", http.StatusOK, valuesJSON(49), drepo.ErrInsufficientData},
		{"missing close", http.StatusOK, strings.Replace(valuesJSON(50), `"close":"1.0050"`, `"close":""`, 1), drepo.ErrUpstream},
		{"bad close", http.StatusOK, strings.Replace(valuesJSON(50), `"close":"1.0050"`, `"close":"n/a"`, 1), drepo.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, "k", 50, nil).GetCandles(context.Background(), "USD/JPY", drepo.Interval5m, 100)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Contains(t, err.Error(), "USD/JPY")
		})
	}
}
