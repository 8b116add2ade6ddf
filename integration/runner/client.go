package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/burrow/pkg/session"
	"github.com/jwebster45206/burrow/pkg/sprite"
)

// InteractResponse mirrors the API's interact response body
type InteractResponse struct {
	Interaction sprite.Interaction `json:"interaction"`
	Session     *session.Session   `json:"session"`
	MapAsset    string             `json:"map_asset,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// do sends a JSON request and returns the status code. out is decoded only
// when the status matches want.
func do(ctx context.Context, client *http.Client, method, url string, in any, want int, out any) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != want {
		var errResp errorResponse
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error != "" {
			return resp.StatusCode, fmt.Errorf("API returned status %d: %s", resp.StatusCode, errResp.Error)
		}
		return resp.StatusCode, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// CreateSession starts a session in level
func CreateSession(ctx context.Context, client *http.Client, baseURL, level string) (*session.Session, error) {
	var s session.Session
	if _, err := do(ctx, client, http.MethodPost, baseURL+"/v1/sessions", map[string]string{"level": level}, http.StatusCreated, &s); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &s, nil
}

// Interact clicks a sprite. A non-200 status is returned without an error
// so that callers can assert on it.
func Interact(ctx context.Context, client *http.Client, baseURL string, id uuid.UUID, spriteID string) (*InteractResponse, int, error) {
	var resp InteractResponse
	url := fmt.Sprintf("%s/v1/sessions/%s/interact", baseURL, id)
	status, err := do(ctx, client, http.MethodPost, url, map[string]string{"sprite": spriteID}, http.StatusOK, &resp)
	if status == 0 {
		return nil, 0, err
	}
	if status != http.StatusOK {
		return nil, status, nil
	}
	if err != nil {
		return nil, status, err
	}
	return &resp, status, nil
}

// DeleteSession removes a session and its history
func DeleteSession(ctx context.Context, client *http.Client, baseURL string, id uuid.UUID) error {
	_, err := do(ctx, client, http.MethodDelete, fmt.Sprintf("%s/v1/sessions/%s", baseURL, id), nil, http.StatusNoContent, nil)
	return err
}
