// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package finetune drives a chat-completion fine-tuning API: it uploads a
// training file, creates a job, and polls both until they settle.
package finetune

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/quote-forge/internal/httputil"
	"github.com/pdiddy/quote-forge/pkg/types"
)

// APIError is a non-2xx response from the fine-tuning API.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("fine-tuning API returned %d (%s): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("fine-tuning API returned %d: %s", e.StatusCode, msg)
}

// Client calls the fine-tuning REST API with Bearer authentication.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTP       *http.Client
	MaxRetries int
	Log        logrus.FieldLogger
}

// NewClient returns a client for baseURL (e.g. "https://api.openai.com").
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTP:    httpClient,
		Log:     logrus.StandardLogger(),
	}
}

// JobRequest holds the parameters of a new fine-tuning job.
type JobRequest struct {
	Model        string
	TrainingFile string
	Suffix       string
	Epochs       int
}

type jobRequestBody struct {
	Model           string           `json:"model"`
	TrainingFile    string           `json:"training_file"`
	Suffix          string           `json:"suffix,omitempty"`
	Hyperparameters *hyperparameters `json:"hyperparameters,omitempty"`
}

type hyperparameters struct {
	NEpochs int `json:"n_epochs"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// UploadFile uploads a JSONL training file with purpose "fine-tune".
func (c *Client) UploadFile(ctx context.Context, path string) (types.UploadedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.UploadedFile{}, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("purpose", "fine-tune"); err != nil {
		return types.UploadedFile{}, err
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return types.UploadedFile{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return types.UploadedFile{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return types.UploadedFile{}, err
	}

	var out types.UploadedFile
	err = c.do(ctx, http.MethodPost, "/v1/files", mw.FormDataContentType(), bytes.NewReader(body.Bytes()), &out)
	return out, err
}

// RetrieveFile returns the current state of an uploaded file.
func (c *Client) RetrieveFile(ctx context.Context, id string) (types.UploadedFile, error) {
	var out types.UploadedFile
	err := c.do(ctx, http.MethodGet, "/v1/files/"+id, "", nil, &out)
	return out, err
}

// CreateJob starts a fine-tuning job.
func (c *Client) CreateJob(ctx context.Context, r JobRequest) (types.FineTuneJob, error) {
	reqBody := jobRequestBody{
		Model:        r.Model,
		TrainingFile: r.TrainingFile,
		Suffix:       r.Suffix,
	}
	if r.Epochs > 0 {
		reqBody.Hyperparameters = &hyperparameters{NEpochs: r.Epochs}
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return types.FineTuneJob{}, fmt.Errorf("marshaling request: %w", err)
	}
	var out types.FineTuneJob
	err = c.do(ctx, http.MethodPost, "/v1/fine_tuning/jobs", "application/json", bytes.NewReader(data), &out)
	return out, err
}

// RetrieveJob returns the current state of a job.
func (c *Client) RetrieveJob(ctx context.Context, id string) (types.FineTuneJob, error) {
	var out types.FineTuneJob
	err := c.do(ctx, http.MethodGet, "/v1/fine_tuning/jobs/"+id, "", nil, &out)
	return out, err
}

// CancelJob asks the API to cancel a running job.
func (c *Client) CancelJob(ctx context.Context, id string) (types.FineTuneJob, error) {
	var out types.FineTuneJob
	err := c.do(ctx, http.MethodPost, "/v1/fine_tuning/jobs/"+id+"/cancel", "", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body *bytes.Reader, out any) error {
	var rdr io.Reader
	if body != nil {
		rdr = body
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.MaxRetries, c.Log)
	if err != nil {
		return fmt.Errorf("calling fine-tuning API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var eb errorBody
	if json.Unmarshal(data, &eb) == nil && eb.Error.Message != "" {
		apiErr.Message = eb.Error.Message
		apiErr.Type = eb.Error.Type
		if eb.Error.Code != nil {
			apiErr.Code = fmt.Sprint(eb.Error.Code)
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}
