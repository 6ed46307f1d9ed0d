package firebase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultIdentityURL  = "https://identitytoolkit.googleapis.com"
	DefaultFirestoreURL = "https://firestore.googleapis.com"
)

var ErrUnexpectedResponse = errors.New("unexpected firebase response")

// APIError is the error envelope returned by Google REST APIs.
type APIError struct {
	Status  int
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("firebase api error %d: %s", e.Status, e.Message)
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var envelope errorEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil || envelope.Error == nil {
			return fmt.Errorf("%w: status %d", ErrUnexpectedResponse, resp.StatusCode)
		}
		envelope.Error.Status = resp.StatusCode
		return envelope.Error
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return nil
}
