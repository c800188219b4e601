package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/groblegark/fleetboard/internal/model"
)

// HTTPClient talks to the fleetboard HTTP/JSON API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func New(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{},
	}
}

// PostUpdate submits a punctuality report. Reports with an image are sent as
// multipart form data, the rest as JSON.
func (c *HTTPClient) PostUpdate(ctx context.Context, req *UpdateRequest) (*UpdateAck, error) {
	if len(req.Image) > 0 {
		return c.postUpdateMultipart(ctx, req)
	}

	body := map[string]any{
		"name": req.Name,
	}
	if req.Status != "" {
		body["status"] = req.Status
	}
	if req.IsLate != nil {
		body["is_late"] = *req.IsLate
	}
	if req.Description != "" {
		body["description"] = req.Description
	}

	var ack UpdateAck
	if err := c.doJSON(ctx, http.MethodPost, "/v1/updates", body, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

func (c *HTTPClient) postUpdateMultipart(ctx context.Context, req *UpdateRequest) (*UpdateAck, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	writeField := func(name, value string) {
		if value != "" {
			_ = mw.WriteField(name, value)
		}
	}
	writeField("name", req.Name)
	writeField("status", req.Status)
	writeField("description", req.Description)
	if req.IsLate != nil {
		_ = mw.WriteField("is_late", strconv.FormatBool(*req.IsLate))
	}

	filename := req.ImageName
	if filename == "" {
		filename = "image"
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	if req.ImageMIME != "" {
		header.Set("Content-Type", req.ImageMIME)
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("create image part: %w", err)
	}
	if _, err := part.Write(req.Image); err != nil {
		return nil, fmt.Errorf("write image part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/updates", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	c.setAuth(httpReq)

	var ack UpdateAck
	if err := c.do(httpReq, &ack); err != nil {
		return nil, err
	}
	return &ack, nil
}

// Reset zeroes all counters and returns the server's message.
func (c *HTTPClient) Reset(ctx context.Context) (string, error) {
	var resp struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/reset", nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListVehicles returns all counter rows.
func (c *HTTPClient) ListVehicles(ctx context.Context) (*VehicleList, error) {
	var list VehicleList
	if err := c.doJSON(ctx, http.MethodGet, "/v1/vehicles", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetVehicle returns the counters for a single plate.
func (c *HTTPClient) GetVehicle(ctx context.Context, plate string) (*model.Vehicle, error) {
	var v model.Vehicle
	if err := c.doJSON(ctx, http.MethodGet, "/v1/vehicles/"+url.PathEscape(plate), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Snapshot returns the current broadcast snapshot, or nil when none exists yet.
func (c *HTTPClient) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	var snap model.Snapshot
	err := c.doJSON(ctx, http.MethodGet, "/v1/snapshot", nil, &snap)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}

// Health checks the service health endpoint.
func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

func (c *HTTPClient) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if json.Unmarshal(data, &errBody) == nil && errBody.Error != "" {
			return &StatusError{Code: resp.StatusCode, Message: errBody.Error}
		}
		return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
