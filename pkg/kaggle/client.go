// Package kaggle publishes the compiled dataset to Kaggle. It talks to
// the public Kaggle API directly: check whether the dataset exists,
// upload each export file, then create the dataset or a new version of
// it.
package kaggle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for dataset uploads.
var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kaggle_uploads_total",
		Help: "Dataset uploads by result (created, versioned, failed)",
	}, []string{"result"})

	uploadBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaggle_upload_bytes_total",
		Help: "Bytes uploaded to Kaggle across all files",
	})
)

// DefaultBaseURL is the public Kaggle API endpoint.
const DefaultBaseURL = "https://www.kaggle.com/api/v1"

// Client uploads datasets to Kaggle.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a Kaggle API client.
func NewClient(creds Credentials) *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		creds:      creds,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		logger:     log.With().Str("component", "kaggle").Logger(),
	}
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// DatasetExists reports whether the dataset already exists on Kaggle.
func (c *Client) DatasetExists(ctx context.Context, meta Metadata) (bool, error) {
	owner, slug, err := meta.OwnerSlug()
	if err != nil {
		return false, err
	}

	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/datasets/status/%s/%s", owner, slug), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("dataset status: unexpected HTTP %d", resp.StatusCode)
	}
}

// Upload publishes the export files as the dataset described by meta.
// It creates the dataset when it does not exist yet and a new version
// otherwise.
func (c *Client) Upload(ctx context.Context, meta Metadata, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("no files to upload")
	}

	owner, slug, err := meta.OwnerSlug()
	if err != nil {
		return err
	}

	exists, err := c.DatasetExists(ctx, meta)
	if err != nil {
		uploadsTotal.WithLabelValues("failed").Inc()
		return err
	}

	tokens := make([]fileToken, 0, len(files))
	for _, path := range files {
		token, err := c.uploadFile(ctx, path)
		if err != nil {
			uploadsTotal.WithLabelValues("failed").Inc()
			return fmt.Errorf("upload %s: %w", path, err)
		}
		tokens = append(tokens, token)
	}

	if exists {
		err = c.createVersion(ctx, owner, slug, tokens)
	} else {
		err = c.createNew(ctx, owner, slug, meta, tokens)
	}
	if err != nil {
		uploadsTotal.WithLabelValues("failed").Inc()
		return err
	}

	result := "created"
	if exists {
		result = "versioned"
	}
	uploadsTotal.WithLabelValues(result).Inc()

	c.logger.Info().
		Str("dataset", meta.ID).
		Int("files", len(files)).
		Bool("new_version", exists).
		Msg("Dataset uploaded")
	return nil
}

type fileToken struct {
	Token string `json:"token"`
}

type uploadFileResponse struct {
	Token     string `json:"token"`
	CreateURL string `json:"createUrl"`
}

// uploadFile registers one file with the upload service and pushes its
// bytes, returning the token the create/version call references.
func (c *Client) uploadFile(ctx context.Context, path string) (fileToken, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileToken{}, err
	}

	body, err := json.Marshal(map[string]string{"fileName": filepath.Base(path)})
	if err != nil {
		return fileToken{}, err
	}

	endpoint := fmt.Sprintf("/datasets/upload/file/%d/%d", info.Size(), info.ModTime().Unix())
	resp, err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fileToken{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fileToken{}, fmt.Errorf("register upload: unexpected HTTP %d", resp.StatusCode)
	}

	var upload uploadFileResponse
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return fileToken{}, fmt.Errorf("decode upload response: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fileToken{}, err
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, upload.CreateURL, f)
	if err != nil {
		return fileToken{}, err
	}
	req.ContentLength = info.Size()

	putResp, err := c.httpClient.Do(req)
	if err != nil {
		return fileToken{}, err
	}
	defer putResp.Body.Close()
	io.Copy(io.Discard, putResp.Body)

	if putResp.StatusCode != http.StatusOK && putResp.StatusCode != http.StatusCreated {
		return fileToken{}, fmt.Errorf("push file bytes: unexpected HTTP %d", putResp.StatusCode)
	}

	uploadBytes.Add(float64(info.Size()))
	c.logger.Debug().
		Str("file", filepath.Base(path)).
		Int64("bytes", info.Size()).
		Msg("Uploaded dataset file")

	return fileToken{Token: upload.Token}, nil
}

func (c *Client) createNew(ctx context.Context, owner, slug string, meta Metadata, tokens []fileToken) error {
	licenseName := ""
	if len(meta.Licenses) > 0 {
		licenseName = meta.Licenses[0].Name
	}

	body, err := json.Marshal(map[string]interface{}{
		"ownerSlug":   owner,
		"slug":        slug,
		"title":       meta.Title,
		"licenseName": licenseName,
		"description": meta.Description,
		"isPrivate":   false,
		"files":       tokens,
	})
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, http.MethodPost, "/datasets/create/new", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("create dataset: unexpected HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) createVersion(ctx context.Context, owner, slug string, tokens []fileToken) error {
	body, err := json.Marshal(map[string]interface{}{
		"versionNotes": "Updated dataset",
		"files":        tokens,
	})
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("/datasets/create/version/%s/%s", owner, slug)
	resp, err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("create dataset version: unexpected HTTP %d", resp.StatusCode)
	}
	return nil
}

// do issues an authenticated API request.
func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, err
	}

	req.SetBasicAuth(c.creds.Username, c.creds.Key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kaggle api %s %s: %w", method, endpoint, err)
	}
	return resp, nil
}
