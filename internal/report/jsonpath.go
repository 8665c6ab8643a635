package report

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/joe/file-inventory/internal/inventory"
)

// Exported variables.
var (
	ErrInvalidQuery = errors.New("invalid JSONPath query")
)

// QueryResult holds what a JSONPath query selected. Records are the whole
// records that were selected; Values are any other selected values.
type QueryResult struct {
	Records []inventory.Record
	Values  []any
}

// Query evaluates a JSONPath expression against the records as stored on
// disk, e.g. `$[?(@.file_size_bytes > 1000000)].full_path`.
func Query(records []inventory.Record, expr string) (*QueryResult, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}

	root, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	byPath := make(map[string]inventory.Record, len(records))
	for _, record := range records {
		byPath[record.Path] = record
	}

	result := &QueryResult{}

	for _, value := range x.Get(root) {
		if record, ok := asRecord(value, byPath); ok {
			result.Records = append(result.Records, record)

			continue
		}

		result.Values = append(result.Values, value)
	}

	return result, nil
}

// Lines renders the result for display.
func (q *QueryResult) Lines() []string {
	lines := RecordLines(q.Records)

	for _, value := range q.Values {
		lines = append(lines, oj.JSON(value))
	}

	return lines
}

// Len is the number of selected values.
func (q *QueryResult) Len() int {
	return len(q.Records) + len(q.Values)
}

func asRecord(value any, byPath map[string]inventory.Record) (inventory.Record, bool) {
	object, ok := value.(map[string]any)
	if !ok {
		return inventory.Record{}, false
	}

	path, ok := object["full_path"].(string)
	if !ok {
		return inventory.Record{}, false
	}

	record, ok := byPath[path]

	return record, ok
}
