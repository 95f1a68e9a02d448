package collection

import (
	"encoding/json"
	"fmt"

	domcol "github.com/kailas-cloud/dataapi/internal/domain/collection"
)

// optionsToJSON serializes options in their wire form for HSET.
func optionsToJSON(opts domcol.Options) (string, error) {
	b, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("marshal options: %w", err)
	}
	return string(b), nil
}

// optionsFromJSON hydrates options from a registry value.
func optionsFromJSON(raw string) (domcol.Options, error) {
	var opts domcol.Options
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return domcol.Options{}, err
	}
	return opts, nil
}
