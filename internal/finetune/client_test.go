// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finetune

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/quote-forge/internal/httputil"
	"github.com/pdiddy/quote-forge/pkg/types"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL+"/", "sk-test", srv.Client())
	log, _ := test.NewNullLogger()
	c.Log = log
	return c
}

func fastRetries(t *testing.T) {
	t.Helper()
	orig := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = orig })
}

func TestUploadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"messages":[]}`+"\n"), 0o644))

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/files", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "fine-tune", r.FormValue("purpose"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "train.jsonl", hdr.Filename)
		assert.Equal(t, `{"messages":[]}`+"\n", string(data))

		io.WriteString(w, `{"id":"file-abc","filename":"train.jsonl","bytes":16,"purpose":"fine-tune","status":"uploaded"}`)
	})

	got, err := c.UploadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "file-abc", got.ID)
	assert.Equal(t, int64(16), got.Bytes)
	assert.Equal(t, types.FileUploaded, got.Status)
}

func TestUploadFileMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := c.UploadFile(context.Background(), filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCreateJob(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/fine_tuning/jobs", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini-2024-07-18", body["model"])
		assert.Equal(t, "file-abc", body["training_file"])
		assert.Equal(t, "gandhi-vn", body["suffix"])
		assert.Equal(t, map[string]any{"n_epochs": float64(3)}, body["hyperparameters"])

		io.WriteString(w, `{"id":"ftjob-1","model":"gpt-4o-mini-2024-07-18","training_file":"file-abc","status":"validating_files"}`)
	})

	j, err := c.CreateJob(context.Background(), JobRequest{
		Model: "gpt-4o-mini-2024-07-18", TrainingFile: "file-abc", Suffix: "gandhi-vn", Epochs: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "ftjob-1", j.ID)
	assert.Equal(t, types.JobValidatingFiles, j.Status)
}

func TestRetrieveAndCancelJob(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/fine_tuning/jobs/ftjob-1":
			io.WriteString(w, `{"id":"ftjob-1","status":"succeeded","fine_tuned_model":"ft:gpt-4o-mini:org:gandhi-vn:xyz","trained_tokens":1200}`)
		case r.Method == http.MethodPost && r.URL.Path == "/v1/fine_tuning/jobs/ftjob-1/cancel":
			io.WriteString(w, `{"id":"ftjob-1","status":"cancelled"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/files/file-abc":
			io.WriteString(w, `{"id":"file-abc","status":"processed"}`)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	j, err := c.RetrieveJob(ctx, "ftjob-1")
	require.NoError(t, err)
	assert.Equal(t, "ft:gpt-4o-mini:org:gandhi-vn:xyz", j.FineTunedModel)
	assert.Equal(t, int64(1200), j.TrainedTokens)

	j, err = c.CancelJob(ctx, "ftjob-1")
	require.NoError(t, err)
	assert.Equal(t, types.JobCancelled, j.Status)

	f, err := c.RetrieveFile(ctx, "file-abc")
	require.NoError(t, err)
	assert.Equal(t, types.FileProcessed, f.Status)
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "structured error",
			status:   http.StatusUnauthorized,
			body:     `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			wantCode: "invalid_api_key",
			wantMsg:  "Incorrect API key provided",
		},
		{
			name:    "plain text body",
			status:  http.StatusBadRequest,
			body:    "bad request\n",
			wantMsg: "bad request",
		},
		{
			name:    "null code",
			status:  http.StatusNotFound,
			body:    `{"error":{"message":"No such job","type":"invalid_request_error","code":null}}`,
			wantMsg: "No such job",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := c.RetrieveJob(context.Background(), "ftjob-1")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestClientRetriesRateLimit(t *testing.T) {
	fastRetries(t)
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		io.WriteString(w, `{"id":"ftjob-1","status":"running"}`)
	})
	c.MaxRetries = 5

	j, err := c.RetrieveJob(context.Background(), "ftjob-1")
	require.NoError(t, err)
	assert.Equal(t, types.JobRunning, j.Status)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestClientGivesUpAfterRetries(t *testing.T) {
	fastRetries(t)
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`)
	})
	c.MaxRetries = 2

	_, err := c.RetrieveJob(context.Background(), "ftjob-1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "rate_limit_exceeded", apiErr.Code)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}
