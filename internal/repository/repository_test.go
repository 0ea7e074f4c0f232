package repository

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmrate/internal/store"

	"github.com/stretchr/testify/require"
)

// fakeGateway scripts pipeline responses keyed by the statement's SQL. It
// records every executed statement so tests can assert on the write path.
type fakeGateway struct {
	t        *testing.T
	server   *httptest.Server
	executed []string
	respond  func(sql string) map[string]any
}

func newFakeGateway(t *testing.T, respond func(sql string) map[string]any) *fakeGateway {
	g := &fakeGateway{t: t, respond: respond}
	g.server = httptest.NewServer(http.HandlerFunc(g.handle))
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGateway) client() *store.Client {
	return store.New(g.server.URL, "")
}

func (g *fakeGateway) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Requests []struct {
			Type string `json:"type"`
			Stmt *struct {
				SQL string `json:"sql"`
			} `json:"stmt"`
		} `json:"requests"`
	}
	require.NoError(g.t, json.NewDecoder(r.Body).Decode(&req))

	var body map[string]any
	for _, entry := range req.Requests {
		if entry.Type != "execute" || entry.Stmt == nil {
			continue
		}
		g.executed = append(g.executed, entry.Stmt.SQL)
		body = g.respond(entry.Stmt.SQL)
	}
	if body == nil {
		body = okResult(nil)
	}
	require.NoError(g.t, json.NewEncoder(w).Encode(body))
}

// okResult builds a successful pipeline response. rows are cell maps in
// column order.
func okResult(cols []string, rows ...[]map[string]any) map[string]any {
	colObjs := make([]map[string]string, 0, len(cols))
	for _, c := range cols {
		colObjs = append(colObjs, map[string]string{"name": c})
	}
	return map[string]any{
		"results": []map[string]any{
			{
				"type": "ok",
				"response": map[string]any{
					"result": map[string]any{"cols": colObjs, "rows": rows},
				},
			},
			{"type": "ok"},
		},
	}
}

func errResult(message string) map[string]any {
	return map[string]any{
		"results": []map[string]any{
			{"type": "error", "error": map[string]any{"message": message}},
		},
	}
}

func intCell(v string) map[string]any  { return map[string]any{"type": "integer", "value": v} }
func textCell(v string) map[string]any { return map[string]any{"type": "text", "value": v} }
func nullCell() map[string]any         { return map[string]any{"type": "null"} }
func floatCell(v float64) map[string]any {
	return map[string]any{"type": "float", "value": v}
}
