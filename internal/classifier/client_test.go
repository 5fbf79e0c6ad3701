package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suaraedu/sentimen/internal/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Config{
		Endpoint: srv.URL,
		APIToken: "test-token",
		Timeout:  2 * time.Second,
	}, testLogger())
	return c, srv
}

func TestClassifySuccessNestedResponse(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[[
			{"label": "LABEL_1", "score": 0.10},
			{"label": "LABEL_0", "score": 0.85},
			{"label": "LABEL_2", "score": 0.05}
		]]`))
	})

	preds, err := client.Classify(context.Background(), "pelayanan sangat baik")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "pelayanan sangat baik", gotBody["inputs"])

	require.Len(t, preds, 3)
	assert.Equal(t, Prediction{Label: "LABEL_0", Score: 0.85}, preds[0])
	assert.Equal(t, Prediction{Label: "LABEL_1", Score: 0.10}, preds[1])
	assert.Equal(t, Prediction{Label: "LABEL_2", Score: 0.05}, preds[2])
}

func TestClassifySuccessFlatResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"label": "LABEL_2", "score": 0.55}, {"label": "LABEL_1", "score": 0.30}]`))
	})

	preds, err := client.Classify(context.Background(), "antrian terlalu lama")
	require.NoError(t, err)
	require.Len(t, preds, 2)
	assert.Equal(t, "LABEL_2", preds[0].Label)
}

func TestClassifySortIsStable(t *testing.T) {
	// Equal scores keep the order the service returned them in.
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[
			{"label": "LABEL_1", "score": 0.40},
			{"label": "LABEL_0", "score": 0.40},
			{"label": "LABEL_2", "score": 0.20}
		]`))
	})

	preds, err := client.Classify(context.Background(), "biasa saja")
	require.NoError(t, err)
	require.Len(t, preds, 3)
	assert.Equal(t, "LABEL_1", preds[0].Label)
	assert.Equal(t, "LABEL_0", preds[1].Label)
	assert.Equal(t, "LABEL_2", preds[2].Label)
}

func TestClassifyEmptyPredictionArray(t *testing.T) {
	for name, body := range map[string]string{
		"empty outer": `[]`,
		"empty inner": `[[]]`,
	} {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			_, err := client.Classify(context.Background(), "some text")
			assert.True(t, errors.Is(err, core.ErrMalformedResponse), "got %v", err)
		})
	}
}

func TestClassifyMalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": "model is loading"}`))
	})

	_, err := client.Classify(context.Background(), "some text")
	assert.True(t, errors.Is(err, core.ErrMalformedResponse), "got %v", err)
}

func TestClassifyServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.Classify(context.Background(), "some text")
	assert.True(t, errors.Is(err, core.ErrServiceUnavailable), "got %v", err)
}

func TestClassifyTimeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(`[[{"label": "LABEL_0", "score": 0.9}]]`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Classify(ctx, "some text")
	assert.True(t, errors.Is(err, core.ErrServiceUnavailable), "timeout should read as transient, got %v", err)
}

func TestClassifyMissingToken(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := New(Config{Endpoint: srv.URL, APIToken: ""}, testLogger())

	_, err := client.Classify(context.Background(), "some text")
	assert.True(t, errors.Is(err, core.ErrMissingCredentials), "got %v", err)
	assert.False(t, called, "client must fail fast without hitting the network")
}
