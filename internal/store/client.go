// Package store implements the remote row store client: parameterized SQL
// statements are serialized into single pipelined HTTP requests against the
// Turso/libsql gateway, and typed result cells decode back to native values.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"filmrate/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// Client issues pipeline requests against the store gateway. One shared HTTP
// client, no retries; each call is its own implicit commit.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a store client for the given database URL and auth token.
// libsql:// URLs are rewritten to https:// for the HTTP gateway.
func New(databaseURL, authToken string) *Client {
	base := strings.TrimSuffix(databaseURL, "/")
	if rest, ok := strings.CutPrefix(base, "libsql://"); ok {
		base = "https://" + rest
	}
	return &Client{
		baseURL: base,
		token:   authToken,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Error is a failure reported by the store gateway.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("store %s: gateway returned %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("store %s: %s", e.Op, e.Message)
}

// IsConstraintViolation reports whether err is a unique-constraint failure.
// Concurrent duplicate inserts race the store's constraint, so callers can
// remap this to a domain conflict.
func IsConstraintViolation(err error) bool {
	var se *Error
	if !errors.As(err, &se) {
		return false
	}
	msg := se.Message
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLITE_CONSTRAINT")
}

// Exec runs a statement that returns no rows.
func (c *Client) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := c.pipeline(ctx, "exec", sql, args)
	return err
}

// Query runs a statement and decodes the result rows in order.
func (c *Client) Query(ctx context.Context, sql string, args ...any) ([]Row, error) {
	result, err := c.pipeline(ctx, "query", sql, args)
	if err != nil {
		return nil, err
	}
	return decodeRows(result), nil
}

// pipeline bundles one execute request plus a close directive into a single
// HTTP call and returns the statement result, if any.
func (c *Client) pipeline(ctx context.Context, op, sql string, args []any) (*stmtResult, error) {
	defer observability.ObserveStoreRequest(op, time.Now())

	ctx, span := observability.StartClientSpan(ctx, "store."+op,
		attribute.String("db.system", "libsql"),
	)
	result, err := c.doPipeline(ctx, op, sql, args)
	observability.EndSpan(span, err)
	if err != nil {
		observability.StoreErrors.WithLabelValues(op).Inc()
	}
	return result, err
}

func (c *Client) doPipeline(ctx context.Context, op, sql string, args []any) (*stmtResult, error) {
	body, err := json.Marshal(pipelineRequest{
		Requests: []pipelineEntry{
			{Type: "execute", Stmt: &statement{SQL: sql, Args: encodeArgs(args)}},
			{Type: "close"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store %s: encode request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/pipeline", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("store %s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &Error{Op: op, Status: resp.StatusCode, Message: string(msg)}
	}

	var decoded pipelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("store %s: decode response: %w", op, err)
	}

	var result *stmtResult
	for _, res := range decoded.Results {
		if res.Type == "error" {
			msg := "unknown error"
			if res.Error != nil {
				msg = res.Error.Message
			}
			return nil, &Error{Op: op, Message: msg}
		}
		if result == nil && res.Response != nil && res.Response.Result != nil {
			result = res.Response.Result
		}
	}
	return result, nil
}

// ---- pipeline wire format ----

type pipelineRequest struct {
	Requests []pipelineEntry `json:"requests"`
}

type pipelineEntry struct {
	Type string     `json:"type"`
	Stmt *statement `json:"stmt,omitempty"`
}

type statement struct {
	SQL  string     `json:"sql"`
	Args []argValue `json:"args"`
}

// argValue is the tagged-union encoding of one statement parameter.
type argValue struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

type pipelineResponse struct {
	Results []pipelineResult `json:"results"`
}

type pipelineResult struct {
	Type     string           `json:"type"`
	Response *executeResponse `json:"response,omitempty"`
	Error    *resultError     `json:"error,omitempty"`
}

type resultError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type executeResponse struct {
	Result *stmtResult `json:"result,omitempty"`
}

type stmtResult struct {
	Cols []column `json:"cols"`
	Rows [][]cell `json:"rows"`
}

type column struct {
	Name string `json:"name"`
}

type cell struct {
	Type  string `json:"type"`
	Value any    `json:"value,omitempty"`
}

// encodeArgs maps native values onto the gateway's tagged-union format.
// Integers travel as decimal strings, floats as JSON numbers.
func encodeArgs(args []any) []argValue {
	encoded := make([]argValue, 0, len(args))
	for _, a := range args {
		encoded = append(encoded, encodeArg(a))
	}
	return encoded
}

func encodeArg(a any) argValue {
	switch v := a.(type) {
	case nil:
		return argValue{Type: "null"}
	case bool:
		if v {
			return argValue{Type: "integer", Value: "1"}
		}
		return argValue{Type: "integer", Value: "0"}
	case int:
		return argValue{Type: "integer", Value: strconv.FormatInt(int64(v), 10)}
	case int64:
		return argValue{Type: "integer", Value: strconv.FormatInt(v, 10)}
	case float64:
		return argValue{Type: "float", Value: v}
	case string:
		return argValue{Type: "text", Value: v}
	case *int64:
		if v == nil {
			return argValue{Type: "null"}
		}
		return argValue{Type: "integer", Value: strconv.FormatInt(*v, 10)}
	case *float64:
		if v == nil {
			return argValue{Type: "null"}
		}
		return argValue{Type: "float", Value: *v}
	case *string:
		if v == nil {
			return argValue{Type: "null"}
		}
		return argValue{Type: "text", Value: *v}
	default:
		return argValue{Type: "text", Value: fmt.Sprint(v)}
	}
}
