package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Invoker is the network surface the sync core depends on. The concrete
// Client resolves endpoint shapes and retries transient failures; tests
// substitute fakes.
type Invoker interface {
	Invoke(ctx context.Context, op Operation, params map[string]string) (json.RawMessage, error)
}

// shapeState tracks resolution progress for one operation within a session.
type shapeState struct {
	next        int  // first candidate not yet ruled out
	resolved    bool // candidates[next] is known to work
	unsupported bool // every candidate exhausted
}

// Client talks to the gym-tracker backend. It discovers which request shape
// each deployment implements and caches the winner for the session.
type Client struct {
	// Attempts is the per-request budget for transient failures. Backoff is
	// the initial delay, doubled per retry.
	Attempts int
	Backoff  time.Duration

	base string
	hc   *http.Client

	mu     sync.Mutex
	token  string
	shapes map[Operation]*shapeState
}

func NewClient(base string) *Client {
	return &Client{
		Attempts: 3,
		Backoff:  250 * time.Millisecond,
		base:     strings.TrimRight(base, "/"),
		hc:       &http.Client{Timeout: 15 * time.Second},
		shapes:   make(map[Operation]*shapeState),
	}
}

// SetToken attaches a bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string { return c.base }

func (c *Client) state(op Operation) *shapeState {
	st, ok := c.shapes[op]
	if !ok {
		st = &shapeState{}
		c.shapes[op] = st
	}
	return st
}

// errShapeMiss marks a "route does not exist here" response (404/405/501),
// which rules the candidate out rather than failing the operation.
type errShapeMiss struct{ status int }

func (e *errShapeMiss) Error() string { return fmt.Sprintf("endpoint missing (status %d)", e.status) }

// Invoke performs op against the backend. On first use it walks the candidate
// shapes in order until one is implemented; the winner is cached for the
// session. A cached shape that later starts returning 404-class errors is
// invalidated and resolution resumes with the remaining candidates.
func (c *Client) Invoke(ctx context.Context, op Operation, params map[string]string) (json.RawMessage, error) {
	candidates := Candidates(op)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("unknown operation %q", op)
	}

	c.mu.Lock()
	st := c.state(op)
	if st.unsupported {
		c.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", op, ErrUnsupported)
	}
	start := st.next
	c.mu.Unlock()

	for i := start; i < len(candidates); i++ {
		payload, err := c.send(ctx, op, candidates[i], params)

		if _, miss := err.(*errShapeMiss); miss {
			c.mu.Lock()
			st.resolved = false
			st.next = i + 1
			c.mu.Unlock()
			continue
		}

		// Success and semantic rejections both prove the shape exists.
		// Transient exhaustion proves nothing, so it neither caches the
		// shape nor rules it out, and is never treated as "unsupported".
		if _, transient := err.(*PersistenceError); !transient {
			c.mu.Lock()
			st.next = i
			st.resolved = true
			c.mu.Unlock()
		}
		return payload, err
	}

	c.mu.Lock()
	st.unsupported = true
	c.mu.Unlock()
	return nil, fmt.Errorf("%s: %w", op, ErrUnsupported)
}

// send performs one shape with the transient retry budget applied.
func (c *Client) send(ctx context.Context, op Operation, shape Shape, params map[string]string) (json.RawMessage, error) {
	var lastErr error
	delay := c.Backoff

	for attempt := 0; attempt < c.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &PersistenceError{Op: op, Err: ctx.Err()}
			}
			delay *= 2
		}

		payload, err := c.do(ctx, shape, params)
		if err == nil {
			return payload, nil
		}
		if _, ok := err.(*TransientError); !ok {
			return nil, err
		}
		lastErr = err
	}

	return nil, &PersistenceError{Op: op, Err: lastErr}
}

// do performs a single HTTP exchange and classifies the outcome.
func (c *Client) do(ctx context.Context, shape Shape, params map[string]string) (json.RawMessage, error) {
	path, rest := expandPath(shape.Path, params)

	reqURL := c.base + path
	var body io.Reader
	contentType := ""

	switch shape.Encoding {
	case EncForm:
		if shape.Method == http.MethodGet || shape.Method == http.MethodDelete {
			reqURL = attachQuery(reqURL, rest)
		} else {
			body = strings.NewReader(encodeValues(rest))
			contentType = "application/x-www-form-urlencoded"
		}
	case EncJSON:
		if len(rest) > 0 {
			data, err := json.Marshal(rest)
			if err != nil {
				return nil, &TransientError{Err: err}
			}
			body = bytes.NewReader(data)
			contentType = "application/json"
		}
	default: // EncQuery
		reqURL = attachQuery(reqURL, rest)
	}

	req, err := http.NewRequestWithContext(ctx, shape.Method, reqURL, body)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	c.mu.Lock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.Unlock()

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &TransientError{Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return json.RawMessage(data), nil
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusMethodNotAllowed,
		resp.StatusCode == http.StatusNotImplemented:
		return nil, &errShapeMiss{status: resp.StatusCode}
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", errDetail(data), ErrUnauthorized)
	case resp.StatusCode == http.StatusConflict:
		return nil, &ConflictError{Detail: errDetail(data)}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, &RequestError{Status: resp.StatusCode, Detail: errDetail(data)}
	default:
		return nil, &TransientError{Err: fmt.Errorf("server error (status %d)", resp.StatusCode)}
	}
}

// expandPath substitutes {name} segments from params and returns the leftover
// params for query/body encoding.
func expandPath(path string, params map[string]string) (string, map[string]string) {
	rest := make(map[string]string, len(params))
	for k, v := range params {
		rest[k] = v
	}
	for k, v := range params {
		placeholder := "{" + k + "}"
		if strings.Contains(path, placeholder) {
			path = strings.ReplaceAll(path, placeholder, url.PathEscape(v))
			delete(rest, k)
		}
	}
	return path, rest
}

func attachQuery(reqURL string, params map[string]string) string {
	if len(params) == 0 {
		return reqURL
	}
	return reqURL + "?" + encodeValues(params)
}

func encodeValues(params map[string]string) string {
	vals := url.Values{}
	for k, v := range params {
		vals.Set(k, v)
	}
	return vals.Encode()
}

// errDetail extracts the backend's error message ({"detail": "..."} in the
// deployments seen so far) with a couple of tolerated spellings.
func errDetail(data []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	switch {
	case payload.Detail != "":
		return payload.Detail
	case payload.Message != "":
		return payload.Message
	default:
		return payload.Error
	}
}
