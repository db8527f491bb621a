package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TableData is a tabular assistant payload: an ordered header list and rows of
// cells in header order. The service sends either this shape or a list of
// records; both decode to the same value.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Clone returns a deep copy of t. A nil table clones to nil.
func (t *TableData) Clone() *TableData {
	if t == nil {
		return nil
	}
	out := &TableData{Headers: append([]string(nil), t.Headers...)}
	if t.Rows != nil {
		out.Rows = make([][]string, len(t.Rows))
		for i, row := range t.Rows {
			out.Rows[i] = append([]string(nil), row...)
		}
	}
	return out
}

// UnmarshalJSON accepts {"headers"|"columns": [...], "rows": [...]} or a list
// of records. Record key order is preserved, so the first occurrence of each
// key fixes its column position.
func (t *TableData) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("table_data: empty value")
	}

	switch data[0] {
	case '[':
		records, err := decodeRecords(data)
		if err != nil {
			return fmt.Errorf("table_data: %w", err)
		}
		*t = tableFromRecords(records)
		return nil
	case '{':
		return t.decodeShaped(data)
	case 'n':
		*t = TableData{}
		return nil
	default:
		return fmt.Errorf("table_data: unsupported JSON value")
	}
}

func (t *TableData) decodeShaped(data []byte) error {
	var shaped struct {
		Headers []string          `json:"headers"`
		Columns []string          `json:"columns"`
		Rows    []json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(data, &shaped); err != nil {
		return fmt.Errorf("table_data: %w", err)
	}

	headers := shaped.Headers
	if len(headers) == 0 {
		headers = shaped.Columns
	}

	result := TableData{Headers: append([]string{}, headers...), Rows: [][]string{}}
	for i, raw := range shaped.Rows {
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '{' {
			records, err := decodeRecords(append(append([]byte{'['}, raw...), ']'))
			if err != nil {
				return fmt.Errorf("table_data: row %d: %w", i, err)
			}
			for _, f := range records[0] {
				if indexOf(result.Headers, f.key) < 0 {
					result.Headers = append(result.Headers, f.key)
				}
			}
			result.Rows = append(result.Rows, records[0].cells(result.Headers))
			continue
		}

		var cells []json.RawMessage
		if err := json.Unmarshal(raw, &cells); err != nil {
			return fmt.Errorf("table_data: row %d: %w", i, err)
		}
		row := make([]string, len(cells))
		for j, c := range cells {
			row[j] = cellString(c)
		}
		result.Rows = append(result.Rows, row)
	}

	// Pad rows so every row has one cell per header.
	for i, row := range result.Rows {
		for len(row) < len(result.Headers) {
			row = append(row, "")
		}
		result.Rows[i] = row
	}

	*t = result
	return nil
}

type field struct {
	key   string
	value json.RawMessage
}

type record []field

func (r record) cells(headers []string) []string {
	row := make([]string, len(headers))
	for _, f := range r {
		if idx := indexOf(headers, f.key); idx >= 0 {
			row[idx] = cellString(f.value)
		}
	}
	return row
}

// decodeRecords walks a JSON array of objects with the token API so key
// order survives; map decoding would lose it.
func decodeRecords(data []byte) ([]record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var records []record
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records), err)
		}
		var rec record
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := tok.(string)
			if !ok {
				return nil, fmt.Errorf("record %d: expected object key", len(records))
			}
			var value json.RawMessage
			if err := dec.Decode(&value); err != nil {
				return nil, fmt.Errorf("record %d: field %q: %w", len(records), key, err)
			}
			rec = append(rec, field{key: key, value: value})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return records, nil
}

func tableFromRecords(records []record) TableData {
	table := TableData{Headers: []string{}, Rows: make([][]string, 0, len(records))}
	for _, rec := range records {
		for _, f := range rec {
			if indexOf(table.Headers, f.key) < 0 {
				table.Headers = append(table.Headers, f.key)
			}
		}
	}
	for _, rec := range records {
		table.Rows = append(table.Rows, rec.cells(table.Headers))
	}
	return table
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// cellString renders one JSON value as display text. Strings are unquoted,
// null is empty, scalars keep their literal form and nested values are
// compacted JSON.
func cellString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	if raw[0] == '{' || raw[0] == '[' {
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err == nil {
			return buf.String()
		}
	}
	return string(raw)
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
