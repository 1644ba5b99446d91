package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	appLog "calview/internal/log"
	"calview/internal/model"
)

// document is the on-disk layout of a YAML dataset:
//
//	items:
//	  - key: goal-001
//	    kind: goal
//	    title: Learn Go
//	    start: 2025-01-01
//	    end: 2025-06-30
type document struct {
	Items []yaml.Node `yaml:"items"`
}

// Decode reads a YAML dataset. Each record is decoded on its own so a bad
// date or unknown kind drops only that record; it is logged and skipped.
// Records without a key get "<sourceID>-<index>".
func Decode(r io.Reader, sourceID string) ([]model.Item, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.Item{}, nil
		}
		return nil, fmt.Errorf("dataset %s: %w", sourceID, err)
	}

	items := make([]model.Item, 0, len(doc.Items))
	for i := range doc.Items {
		it, err := decodeItem(&doc.Items[i])
		if err != nil {
			appLog.Error("dataset record skipped", err, "source", sourceID, "index", i, "line", doc.Items[i].Line)
			continue
		}
		if it.Key == "" {
			it.Key = fmt.Sprintf("%s-%d", sourceID, i)
		}
		it.SourceID = sourceID
		items = append(items, it)
	}
	appLog.Debug("dataset decoded", "source", sourceID, "records", len(doc.Items), "items", len(items))
	return items, nil
}

func decodeItem(n *yaml.Node) (model.Item, error) {
	var it model.Item
	if err := n.Decode(&it); err != nil {
		return it, err
	}
	k, err := model.ParseKind(string(it.Kind))
	if err != nil {
		return it, err
	}
	it.Kind = k
	return it, nil
}

// LoadFile decodes the YAML dataset at path.
func LoadFile(path, sourceID string) ([]model.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", sourceID, err)
	}
	return Decode(bytes.NewReader(data), sourceID)
}
