package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/moviebuzz/internal/pkg/goerror"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/instrument"
	"github.com/shandysiswandi/moviebuzz/internal/pkg/uid"
)

// statusError carries a non-2xx response so callers can inspect the body.
type statusError struct {
	status int
	body   []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("auth service responded with status %d", e.status)
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return goerror.NewServer(fmt.Errorf("failed to marshal json: %w", err), "")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return goerror.NewServer(fmt.Errorf("failed to instantiate request: %w", err), "")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	cID := instrument.GetCorrelationID(ctx)
	if !uid.IsUUID(cID) {
		cID = c.uuid.Generate()
	}
	req.Header.Set(instrument.HeaderCorrelationID, cID)

	res, err := c.http.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "auth service request failed", "method", method, "path", path, "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return goerror.FromStatus(http.StatusGatewayTimeout, "")
		}
		return goerror.NewServer(fmt.Errorf("failed to make request: %w", err), "")
	}
	defer func() {
		_ = res.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return goerror.NewServer(fmt.Errorf("failed to read response: %w", err), "")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &statusError{status: res.StatusCode, body: raw}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return goerror.NewServer(fmt.Errorf("failed to decode response: %w", err), "")
		}
	}

	return nil
}

// toError maps a transport or status failure onto a goerror.
func toError(err error) error {
	var se *statusError
	if !errors.As(err, &se) {
		return err
	}

	var body errorResponse
	_ = json.Unmarshal(se.body, &body)

	return goerror.FromStatus(se.status, body.text())
}
