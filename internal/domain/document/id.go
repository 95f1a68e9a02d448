package document

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/dataapi/internal/domain/collection"
)

// Extended JSON keys used for typed _id values.
const (
	KeyUUID     = "$uuid"
	KeyObjectID = "$objectId"
)

// ObjectID is a 12-byte identifier: 4-byte seconds timestamp, 5 random bytes, 3-byte counter.
type ObjectID [12]byte

var (
	objectIDCounter = randomCounter()
	processUnique   = randomProcessUnique()
)

// NewObjectID generates a new ObjectID for the current time.
func NewObjectID() ObjectID {
	return newObjectIDAt(time.Now())
}

func newObjectIDAt(t time.Time) ObjectID {
	var oid ObjectID
	binary.BigEndian.PutUint32(oid[0:4], uint32(t.Unix()))
	copy(oid[4:9], processUnique[:])
	c := objectIDCounter.Add(1)
	oid[9] = byte(c >> 16)
	oid[10] = byte(c >> 8)
	oid[11] = byte(c)
	return oid
}

// ParseObjectID parses a 24-character hex string.
func ParseObjectID(s string) (ObjectID, error) {
	var oid ObjectID
	if len(s) != 24 {
		return oid, fmt.Errorf("objectId must be 24 hex characters, got %d", len(s))
	}
	if _, err := hex.Decode(oid[:], []byte(s)); err != nil {
		return oid, fmt.Errorf("objectId: %w", err)
	}
	return oid, nil
}

// Hex returns the 24-character hex form.
func (o ObjectID) Hex() string { return hex.EncodeToString(o[:]) }

func (o ObjectID) String() string { return o.Hex() }

// Timestamp returns the creation second encoded in the id.
func (o ObjectID) Timestamp() time.Time {
	return time.Unix(int64(binary.BigEndian.Uint32(o[0:4])), 0).UTC()
}

// MarshalJSON encodes {"$objectId": "<hex>"}.
func (o ObjectID) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{KeyObjectID: o.Hex()})
}

func randomCounter() *atomic.Uint32 {
	var b [4]byte
	_, _ = rand.Read(b[:])
	c := &atomic.Uint32{}
	c.Store(binary.BigEndian.Uint32(b[:]) & 0x00ffffff)
	return c
}

func randomProcessUnique() [5]byte {
	var b [5]byte
	_, _ = rand.Read(b[:])
	return b
}

// GenerateID produces a fresh _id for the given collection id type.
// Default ids are plain UUIDv4 strings; typed ids keep their Go type.
func GenerateID(t collection.IDType) (any, error) {
	switch t {
	case collection.IDTypeDefault, "":
		return uuid.NewString(), nil
	case collection.IDTypeUUID:
		return uuid.New(), nil
	case collection.IDTypeUUIDv6:
		return uuid.NewV6()
	case collection.IDTypeUUIDv7:
		return uuid.NewV7()
	case collection.IDTypeObjectID:
		return NewObjectID(), nil
	default:
		return nil, fmt.Errorf("unsupported id type %q", t)
	}
}

// EncodeID renders an _id value for the wire.
func EncodeID(id any) any {
	switch v := id.(type) {
	case uuid.UUID:
		return map[string]any{KeyUUID: v.String()}
	case ObjectID:
		return map[string]any{KeyObjectID: v.Hex()}
	default:
		return id
	}
}

// DecodeID turns {"$uuid": ...} into uuid.UUID and {"$objectId": ...} into ObjectID.
// Scalars pass through. Other shapes are rejected.
func DecodeID(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("_id must not be null")
	case string, bool, float64, int, int64, json.Number, uuid.UUID, ObjectID:
		return raw, nil
	case map[string]any:
		if len(v) != 1 {
			return nil, fmt.Errorf("_id object must hold exactly one of %s, %s", KeyUUID, KeyObjectID)
		}
		if s, ok := v[KeyUUID].(string); ok {
			u, err := uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("_id %s: %w", KeyUUID, err)
			}
			return u, nil
		}
		if s, ok := v[KeyObjectID].(string); ok {
			return ParseObjectID(s)
		}
		return nil, fmt.Errorf("_id object must hold exactly one of %s, %s", KeyUUID, KeyObjectID)
	default:
		return nil, fmt.Errorf("_id of type %T is not supported", raw)
	}
}

// IDKey returns a stable storage key for a decoded _id. Numeric ids compare by value.
func IDKey(id any) string {
	switch v := id.(type) {
	case string:
		return "s:" + v
	case uuid.UUID:
		return "u:" + v.String()
	case ObjectID:
		return "o:" + v.Hex()
	case bool:
		return "b:" + strconv.FormatBool(v)
	case float64:
		return "n:" + strconv.FormatFloat(v, 'g', -1, 64)
	case int:
		return "n:" + strconv.Itoa(v)
	case int64:
		return "n:" + strconv.FormatInt(v, 10)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "n:" + v.String()
	default:
		return fmt.Sprintf("?:%v", v)
	}
}
