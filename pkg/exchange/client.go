package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// nodePattern matches the 6-digit node identifiers used by the platform.
var nodePattern = regexp.MustCompile(`^\d{6}$`)

// ValidNode reports whether node is a well-formed 6-digit node id.
func ValidNode(node string) bool {
	return nodePattern.MatchString(node)
}

// validateOnBehalfOf rejects a malformed optional on-behalf-of node
// before any network call. Empty means "no header".
func validateOnBehalfOf(node string) error {
	if node == "" || ValidNode(node) {
		return nil
	}
	return &ValidationError{Field: "onBehalfOf", Value: node, Reason: "node must be 6 digits"}
}

// requireOnBehalfOf is the strict variant used by hook operations, where
// the header is mandatory.
func requireOnBehalfOf(node string) error {
	if ValidNode(node) {
		return nil
	}
	return &ValidationError{Field: "onBehalfOf", Value: node, Reason: "node is required and must be 6 digits"}
}

// Response wraps a raw platform response: status code, headers, raw body,
// and the parsed JSON body when the content type indicated JSON.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte

	jsonBody map[string]any
	hasJSON  bool
}

func newResponse(resp *http.Response) (*Response, error) {
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	r := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if strings.Contains(resp.Header.Get(headerContent), contentJSON) && len(body) > 0 {
		var parsed map[string]any
		if err := json.Unmarshal(body, &parsed); err == nil {
			r.jsonBody = parsed
			r.hasJSON = true
		}
	}
	return r, nil
}

// HasJSON reports whether the platform returned a JSON body.
func (r *Response) HasJSON() bool { return r.hasJSON }

// JSON returns the parsed JSON body. The second return value is false
// when the response carried no JSON; callers get an explicit absent-value
// signal instead of a panic.
func (r *Response) JSON() (map[string]any, bool) {
	return r.jsonBody, r.hasJSON
}

// Decode unmarshals the JSON body into v, or ErrNoJSONBody when the
// response carried none.
func (r *Response) Decode(v any) error {
	if !r.hasJSON {
		return ErrNoJSONBody
	}
	return json.Unmarshal(r.Body, v)
}

// ok reports a 2xx status.
func (r *Response) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// protocolErr turns a non-2xx response into its typed error.
func (r *Response) protocolErr() *ProtocolError {
	return &ProtocolError{StatusCode: r.StatusCode, Body: r.Body}
}

// Get issues an authenticated GET. path is relative to the base URL and
// may carry a query string; node, when non-empty, is sent as
// x-on-behalf-of and must be 6 digits.
func (s *Session) Get(ctx context.Context, path, node string) (*Response, error) {
	return s.do(ctx, http.MethodGet, path, nil, node)
}

// Post issues an authenticated POST with an optional JSON body.
func (s *Session) Post(ctx context.Context, path string, body []byte, node string) (*Response, error) {
	return s.do(ctx, http.MethodPost, path, body, node)
}

// Put issues an authenticated PUT with an optional JSON body.
func (s *Session) Put(ctx context.Context, path string, body []byte, node string) (*Response, error) {
	return s.do(ctx, http.MethodPut, path, body, node)
}

// Delete issues an authenticated DELETE.
func (s *Session) Delete(ctx context.Context, path, node string) (*Response, error) {
	return s.do(ctx, http.MethodDelete, path, nil, node)
}

func (s *Session) do(ctx context.Context, method, path string, body []byte, node string) (*Response, error) {
	if err := validateOnBehalfOf(node); err != nil {
		s.logger.Error("rejecting malformed on-behalf-of node", zap.String("node", node))
		return nil, err
	}

	token, err := s.accessToken()
	if err != nil {
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set(headerAuth, headerAuthPrefix+token)
	req.Header.Set(headerContent, contentJSON)
	if node != "" {
		req.Header.Set(headerOnBehalfOf, node)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	wrapped, err := newResponse(resp)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", wrapped.StatusCode),
	)
	return wrapped, nil
}
