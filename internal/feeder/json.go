package feeder

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// parseJSON reads either a top-level array of objects or an object holding
// the array under "items".
func parseJSON(data []byte) ([]Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("decode JSON: invalid document")
	}

	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get("items")
	}
	if !root.IsArray() {
		return nil, fmt.Errorf("decode JSON: expected an array of objects")
	}

	var (
		records []Record
		err     error
	)
	root.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			err = fmt.Errorf("record %d is not an object", len(records))
			return false
		}
		record := make(Record)
		value.ForEach(func(key, field gjson.Result) bool {
			record[fieldName(key.String())] = field.String()
			return true
		})
		if len(record) == 0 {
			err = fmt.Errorf("record %d is empty", len(records))
			return false
		}
		records = append(records, record)
		return true
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
