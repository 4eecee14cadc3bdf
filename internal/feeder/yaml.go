package feeder

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Items []Record `yaml:"items"`
}

// parseYAML reads either a top-level sequence of mappings or a mapping with
// the sequence under "items". Scalars are kept as written.
func parseYAML(data []byte) ([]Record, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("decode YAML: %w", err)
	}
	if len(node.Content) == 0 {
		return []Record{}, nil
	}

	doc := node.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var records []Record
		if err := doc.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
		return normalizeKeys(records), nil
	case yaml.MappingNode:
		var wrapped yamlDocument
		if err := doc.Decode(&wrapped); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
		return normalizeKeys(wrapped.Items), nil
	default:
		return nil, fmt.Errorf("decode YAML: expected a list of items")
	}
}

func normalizeKeys(records []Record) []Record {
	for i, rec := range records {
		normalized := make(Record, len(rec))
		for key, value := range rec {
			normalized[fieldName(key)] = value
		}
		records[i] = normalized
	}
	return records
}
