package mysql

import (
	"encoding/json"
	"fmt"
)

// stringList decodes a nullable JSON array column
func stringList(col string, raw []byte) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", col, err)
	}
	return out, nil
}
