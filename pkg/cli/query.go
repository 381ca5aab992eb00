package cli

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// applyQuery evaluates a JSONPath expression against raw JSON and returns
// the matched values: the value itself for a single match, a list when the
// expression matches more than one node.
func applyQuery(raw []byte, query string) (any, error) {
	expr, err := jp.ParseString(query)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", query, err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	results := expr.Get(doc)
	switch len(results) {
	case 0:
		return nil, fmt.Errorf("no values match %q", query)
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}
