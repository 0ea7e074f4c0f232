package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatewayResponse builds a successful pipeline response with the given
// columns and rows.
func gatewayResponse(cols []string, rows [][]cell) map[string]any {
	colObjs := make([]map[string]string, 0, len(cols))
	for _, c := range cols {
		colObjs = append(colObjs, map[string]string{"name": c})
	}
	return map[string]any{
		"results": []map[string]any{
			{
				"type": "ok",
				"response": map[string]any{
					"result": map[string]any{
						"cols": colObjs,
						"rows": rows,
					},
				},
			},
			{"type": "ok"},
		},
	}
}

func TestQuerySendsPipelineRequest(t *testing.T) {
	var captured struct {
		path   string
		auth   string
		body   map[string]any
		method string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.method = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))
		require.NoError(t, json.NewEncoder(w).Encode(gatewayResponse(nil, nil)))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-token")
	_, err := c.Query(context.Background(), "SELECT id FROM users WHERE id = ?", int64(7))
	require.NoError(t, err)

	assert.Equal(t, "/v2/pipeline", captured.path)
	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "Bearer test-token", captured.auth)

	requests := captured.body["requests"].([]any)
	require.Len(t, requests, 2)

	execute := requests[0].(map[string]any)
	assert.Equal(t, "execute", execute["type"])
	stmt := execute["stmt"].(map[string]any)
	assert.Equal(t, "SELECT id FROM users WHERE id = ?", stmt["sql"])
	args := stmt["args"].([]any)
	require.Len(t, args, 1)
	assert.Equal(t, map[string]any{"type": "integer", "value": "7"}, args[0])

	closeReq := requests[1].(map[string]any)
	assert.Equal(t, "close", closeReq["type"])
}

func TestQueryDecodesTypedCells(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := gatewayResponse(
			[]string{"id", "score", "title", "comment"},
			[][]cell{{
				{Type: "integer", Value: "42"},
				{Type: "float", Value: 8.5},
				{Type: "text", Value: "Inception"},
				{Type: "null"},
			}},
		)
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	rows, err := c.Query(context.Background(), "SELECT 1")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, int64(42), row.Int("id"))
	assert.Equal(t, 8.5, row.Float("score"))
	assert.Equal(t, "Inception", row.String("title"))
	assert.Nil(t, row.NullString("comment"))
}

func TestExecGatewayHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token")
	err := c.Exec(context.Background(), "SELECT 1")
	require.Error(t, err)

	var se *Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Status)
}

func TestExecResultError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"results": []map[string]any{
				{
					"type": "error",
					"error": map[string]any{
						"message": "SQLITE_CONSTRAINT: UNIQUE constraint failed: users.username",
					},
				},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	err := c.Exec(context.Background(), "INSERT INTO users (username) VALUES (?)", "dup")
	require.Error(t, err)
	assert.True(t, IsConstraintViolation(err))
}

func TestIsConstraintViolationOtherErrors(t *testing.T) {
	assert.False(t, IsConstraintViolation(nil))
	assert.False(t, IsConstraintViolation(assert.AnError))
	assert.False(t, IsConstraintViolation(&Error{Op: "exec", Message: "no such table: users"}))
}

func TestNewRewritesLibsqlScheme(t *testing.T) {
	c := New("libsql://db.example.turso.io/", "tok")
	assert.Equal(t, "https://db.example.turso.io", c.baseURL)
}

func TestEncodeArg(t *testing.T) {
	n := int64(5)
	f := 2.5
	s := "hello"

	tests := []struct {
		name string
		in   any
		want argValue
	}{
		{"nil", nil, argValue{Type: "null"}},
		{"bool true", true, argValue{Type: "integer", Value: "1"}},
		{"int", 12, argValue{Type: "integer", Value: "12"}},
		{"int64", int64(-3), argValue{Type: "integer", Value: "-3"}},
		{"float", 1.25, argValue{Type: "float", Value: 1.25}},
		{"string", "x", argValue{Type: "text", Value: "x"}},
		{"int64 pointer", &n, argValue{Type: "integer", Value: "5"}},
		{"float pointer", &f, argValue{Type: "float", Value: 2.5}},
		{"string pointer", &s, argValue{Type: "text", Value: "hello"}},
		{"nil int64 pointer", (*int64)(nil), argValue{Type: "null"}},
		{"nil string pointer", (*string)(nil), argValue{Type: "null"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encodeArg(tt.in))
		})
	}
}
