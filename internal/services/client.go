package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/discos/internal/formatter"
	"github.com/desertthunder/discos/internal/models"
	"github.com/desertthunder/discos/internal/shared"
)

const defaultBaseURL = "http://127.0.0.1:5000"

// Client calls the HTTP API of a running discos server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for baseURL. Empty values fall back to the default server address and [http.DefaultClient].
func NewClient(baseURL string, client *http.Client) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client}
}

// Response is a raw API response with status and body.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// recordRequest is the JSON body of POST /record
type recordRequest struct {
	Artist      string  `json:"artist"`
	Title       string  `json:"title"`
	Label       string  `json:"label"`
	TrackCount  int     `json:"track_count"`
	ReleaseYear int     `json:"release_year"`
	Origin      string  `json:"origin"`
	Promo       string  `json:"promo"`
	Price       float64 `json:"price"`
	Notes       string  `json:"notes"`
}

// trackRequest is the JSON body of POST /track
type trackRequest struct {
	RecordID int64  `json:"record_id"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	Duration string `json:"duration"`
}

// Do sends a request with an optional JSON body and returns the raw response.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: data}, nil
}

// call performs the request and decodes a 200 body into out, or the error body into a [shared.CatalogError].
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// AddRecord creates a record on the server.
func (c *Client) AddRecord(ctx context.Context, fields models.RecordFields) (*formatter.RecordView, error) {
	body := recordRequest{
		Artist:      fields.Artist,
		Title:       fields.Title,
		Label:       fields.Label,
		TrackCount:  fields.TrackCount,
		ReleaseYear: fields.ReleaseYear,
		Origin:      fields.Origin,
		Promo:       fields.Promo,
		Price:       fields.Price,
		Notes:       fields.Notes,
	}

	var view formatter.RecordView
	if err := c.call(ctx, http.MethodPost, "/record", body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// ListRecords fetches the record listing.
func (c *Client) ListRecords(ctx context.Context) (*formatter.RecordList, error) {
	var list formatter.RecordList
	if err := c.call(ctx, http.MethodGet, "/records", nil, &list); err != nil {
		return nil, err
	}
	if list.Records == nil {
		list.Records = []formatter.RecordSummary{}
	}
	return &list, nil
}

// GetRecord fetches one record with its tracks by title.
func (c *Client) GetRecord(ctx context.Context, title string) (*formatter.RecordView, error) {
	var view formatter.RecordView
	if err := c.call(ctx, http.MethodGet, "/record?title="+url.QueryEscape(title), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// DeleteRecord removes the records matching title.
func (c *Client) DeleteRecord(ctx context.Context, title string) (*formatter.DeletionView, error) {
	var view formatter.DeletionView
	// the server percent-decodes delete titles up to twice more, so escape twice to round-trip titles containing '%'
	escaped := url.PathEscape(url.PathEscape(title))
	if err := c.call(ctx, http.MethodDelete, "/record?title="+url.QueryEscape(escaped), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// AddTrack attaches a track to the record with recordID.
func (c *Client) AddTrack(ctx context.Context, recordID int64, fields models.TrackFields) (*formatter.RecordView, error) {
	body := trackRequest{RecordID: recordID, Name: fields.Name, Version: fields.Version, Duration: fields.Duration}

	var view formatter.RecordView
	if err := c.call(ctx, http.MethodPost, "/track", body, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Export downloads the catalog in the given format.
func (c *Client) Export(ctx context.Context, format formatter.Format) ([]byte, error) {
	resp, err := c.Do(ctx, http.MethodGet, "/records/export?format="+url.QueryEscape(string(format)), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	return resp.Body, nil
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/health", nil, nil)
}

// decodeError maps an error response back to the catalog error kinds.
func decodeError(resp *Response) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil || body.Message == "" {
		body.Message = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusConflict:
		return shared.NewCatalogError(shared.ErrConflict, "%s", body.Message)
	case http.StatusNotFound:
		return shared.NewCatalogError(shared.ErrNotFound, "%s", body.Message)
	case http.StatusBadRequest:
		return shared.NewCatalogError(shared.ErrBadRequest, "%s", body.Message)
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Message)
	}
}
