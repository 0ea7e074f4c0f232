package store

import "strconv"

// Row holds one decoded result row keyed by column name. Values are int64,
// float64, string, or nil depending on the cell tag.
type Row map[string]any

func decodeRows(result *stmtResult) []Row {
	if result == nil {
		return nil
	}
	rows := make([]Row, 0, len(result.Rows))
	for _, raw := range result.Rows {
		row := make(Row, len(result.Cols))
		for i, col := range result.Cols {
			if i >= len(raw) {
				row[col.Name] = nil
				continue
			}
			row[col.Name] = decodeCell(raw[i])
		}
		rows = append(rows, row)
	}
	return rows
}

func decodeCell(c cell) any {
	switch c.Type {
	case "null":
		return nil
	case "integer":
		// integers travel as decimal strings
		if s, ok := c.Value.(string); ok {
			n, err := strconv.ParseInt(s, 10, 64)
			if err == nil {
				return n
			}
		}
		return int64(0)
	case "float":
		if f, ok := c.Value.(float64); ok {
			return f
		}
		return float64(0)
	case "text":
		if s, ok := c.Value.(string); ok {
			return s
		}
		return ""
	default:
		return c.Value
	}
}

// Int returns the column as int64, or 0 when absent or null.
func (r Row) Int(col string) int64 {
	if v, ok := r[col].(int64); ok {
		return v
	}
	return 0
}

// Float returns the column as float64, or 0 when absent or null.
func (r Row) Float(col string) float64 {
	switch v := r[col].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}

// String returns the column as a string, or "" when absent or null.
func (r Row) String(col string) string {
	if v, ok := r[col].(string); ok {
		return v
	}
	return ""
}

// NullInt returns the column as *int64, or nil when absent or null.
func (r Row) NullInt(col string) *int64 {
	if v, ok := r[col].(int64); ok {
		return &v
	}
	return nil
}

// NullFloat returns the column as *float64, or nil when absent or null.
func (r Row) NullFloat(col string) *float64 {
	switch v := r[col].(type) {
	case float64:
		return &v
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}

// NullString returns the column as *string, or nil when absent or null.
func (r Row) NullString(col string) *string {
	if v, ok := r[col].(string); ok {
		return &v
	}
	return nil
}
