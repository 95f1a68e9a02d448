package collection

import (
	"fmt"
	"strings"
)

// IDType is the kind of _id the server generates for documents inserted without one.
type IDType string

// IDType constants, in their wire form.
const (
	IDTypeDefault  IDType = "default"
	IDTypeUUID     IDType = "uuid"
	IDTypeUUIDv6   IDType = "uuidv6"
	IDTypeUUIDv7   IDType = "uuidv7"
	IDTypeObjectID IDType = "objectId"
)

var idTypes = map[string]IDType{
	"default":  IDTypeDefault,
	"uuid":     IDTypeUUID,
	"uuidv6":   IDTypeUUIDv6,
	"uuidv7":   IDTypeUUIDv7,
	"objectid": IDTypeObjectID,
}

// IsValid checks if the id type is supported.
func (t IDType) IsValid() bool {
	switch t {
	case IDTypeDefault, IDTypeUUID, IDTypeUUIDv6, IDTypeUUIDv7, IDTypeObjectID:
		return true
	}
	return false
}

// ParseIDType normalizes an id type name. Input is case-insensitive; "" yields IDTypeDefault.
func ParseIDType(s string) (IDType, error) {
	if s == "" {
		return IDTypeDefault, nil
	}
	t, ok := idTypes[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("invalid default id type %q", s)
	}
	return t, nil
}
