package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client calls a remote pricing service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client posting to baseURL + "/pricing/calculate". A nil
// httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) Calculate(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode pricing request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pricing/calculate", bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build pricing request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("call pricing service: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var out Response
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return Response{}, fmt.Errorf("decode pricing response: %w", err)
		}
		return out, nil
	case http.StatusUnprocessableEntity:
		return Response{}, &NoMatchError{Reason: errorMessage(resp.Body, reasonNotFound)}
	default:
		return Response{}, fmt.Errorf("pricing service returned %d: %s", resp.StatusCode, errorMessage(resp.Body, resp.Status))
	}
}

// errorMessage reads an {"error": "..."} body, falling back to def.
func errorMessage(r io.Reader, def string) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 1<<16)).Decode(&body); err != nil || body.Error == "" {
		return def
	}
	return body.Error
}
