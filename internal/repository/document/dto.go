package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	domdoc "github.com/kailas-cloud/dataapi/internal/domain/document"
)

// encodeDocument serializes a document in its wire form for HSET.
func encodeDocument(doc domdoc.Document) (string, error) {
	b, err := json.Marshal(doc.ToMap())
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	return string(b), nil
}

// decodeDocument hydrates a stored document. Numbers stay json.Number.
func decodeDocument(data string) (domdoc.Document, error) {
	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return domdoc.Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	return domdoc.FromMap(raw)
}
