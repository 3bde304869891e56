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
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/dealerdash/internal/common"
	"github.com/dmitrijs2005/dealerdash/internal/logging"
)

// TokenSource supplies the bearer token attached to each request. An empty
// token sends the request without Authorization.
type TokenSource interface {
	Token() string
}

// HTTPClient talks JSON to the dealership API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Discard()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.With("component", "api"),
	}
}

// Do sends body (JSON-encoded when non-nil) and returns the raw response
// body of a 2xx reply.
func (c *HTTPClient) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, query, rdr)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	data, _, err := c.send(req)
	return data, err
}

// DoJSON is Do followed by decoding the reply into out.
func (c *HTTPClient) DoJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	raw, err := c.Do(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// PostFile uploads r as a multipart form file under field and returns the
// raw reply. The body is streamed through a pipe so large files are never
// buffered whole.
func (c *HTTPClient) PostFile(ctx context.Context, path, field, filename string, r io.Reader) (json.RawMessage, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile(field, filename)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, pr)
	if err != nil {
		_ = pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	data, _, err := c.send(req)
	return data, err
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+tok)
		}
	}
	return req, nil
}

func (c *HTTPClient) send(req *http.Request) (json.RawMessage, http.Header, error) {
	ctx := req.Context()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		if errors.Is(err, context.Canceled) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}
	c.log.Debug(ctx, "request done", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.Header, newAPIError(resp.StatusCode, data)
	}
	return data, resp.Header, nil
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)
	msg := payload.Message
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = "request failed"
	}
	return &APIError{Status: status, Message: msg}
}

// cookieToken finds the access token cookie in a response, if any.
func cookieToken(h http.Header) string {
	resp := http.Response{Header: h}
	for _, ck := range resp.Cookies() {
		if ck.Name == common.AccessTokenKey {
			return ck.Value
		}
	}
	return ""
}
