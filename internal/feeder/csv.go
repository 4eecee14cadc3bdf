package feeder

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// parseCSV reads a CSV document whose first row is the header containing
// field names. A header with no data rows is an empty catalog.
func parseCSV(data []byte) ([]Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}

	header := rows[0]
	for i, field := range header {
		header[i] = fieldName(field)
	}
	dataRows := rows[1:]

	records := make([]Record, 0, len(dataRows))
	for i, row := range dataRows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", i+2, len(row), len(header))
		}

		record := make(Record)
		for j, field := range header {
			record[field] = row[j]
		}
		records = append(records, record)
	}

	return records, nil
}
