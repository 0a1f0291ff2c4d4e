package healthenc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// cap on how much of an error body is quoted back to the caller
const maxErrorBody = 512

// UploadPayload is the body POSTed to the upload endpoint.
type UploadPayload struct {
	SensorID string `json:"sensor_id,omitempty"`
	Type     Metric `json:"type"`
	SerializedCiphertext
}

func NewPayload(sensorID string, metric Metric, c *Ciphertext) UploadPayload {
	return UploadPayload{
		SensorID:             sensorID,
		Type:                 metric,
		SerializedCiphertext: Encode(c),
	}
}

// FetchPublicKey GETs url and parses {"n": "<base-10>"}.
func FetchPublicKey(ctx context.Context, client *http.Client, url string) (*PublicKey, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransportFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrTransportFailure, url, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}

	var pk PublicKey
	if err := json.NewDecoder(resp.Body).Decode(&pk); err != nil {
		// malformed JSON never reaches PublicKey.UnmarshalJSON
		if !errors.Is(err, ErrInvalidPublicKey) && !errors.Is(err, ErrDegenerateModulus) {
			err = fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
		}
		return nil, fmt.Errorf("decode public key from %s: %w", url, err)
	}
	return &pk, nil
}

// Uploader POSTs encrypted readings. It never retries.
type Uploader struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

// NewUploader returns an Uploader for url. A zero timeout leaves the deadline
// to the caller's context.
func NewUploader(client *http.Client, url string, timeout time.Duration) *Uploader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Uploader{client: client, url: url, timeout: timeout}
}

func (u *Uploader) Upload(ctx context.Context, payload UploadPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransportFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: POST %s: %w", ErrTransportFailure, u.url, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("POST %s: %w", u.url, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("%w: %s: %s", ErrTransportFailure, resp.Status, strings.TrimSpace(string(msg)))
}
