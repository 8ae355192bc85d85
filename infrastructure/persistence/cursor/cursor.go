// Package cursor makes pagination state opaque and transportable. A cursor is
// the base64url encoding of a small JSON object holding the last evaluated
// key's attributes. Cursors cross trust boundaries: they are handed to
// callers and echoed back, so decoding never trusts its input.
package cursor

import (
	"encoding/base64"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Key carries the key attributes of the last evaluated item. Only string key
// attributes exist in this table, one pair per index the query may run on.
type Key struct {
	PK     string `json:"pk"`
	SK     string `json:"sk"`
	GSI1PK string `json:"gsi1pk,omitempty"`
	GSI1SK string `json:"gsi1sk,omitempty"`
	GSI2PK string `json:"gsi2pk,omitempty"`
	GSI2SK string `json:"gsi2sk,omitempty"`
	GSI3PK string `json:"gsi3pk,omitempty"`
	GSI3SK string `json:"gsi3sk,omitempty"`
}

// IsZero reports whether no key attribute is set.
func (k Key) IsZero() bool {
	return k == Key{}
}

// Encode serializes a last evaluated key into an opaque cursor string.
// A nil or empty key encodes to "" meaning "no more pages".
func Encode(lastEvaluatedKey map[string]types.AttributeValue) string {
	if len(lastEvaluatedKey) == 0 {
		return ""
	}

	k := FromAttributes(lastEvaluatedKey)
	if k.IsZero() {
		return ""
	}

	data, err := json.Marshal(k)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(data)
}

// Decode parses a cursor back into an exclusive start key. Malformed or
// foreign cursors decode to nil: the query restarts from the beginning
// rather than failing.
func Decode(cursor string) map[string]types.AttributeValue {
	if cursor == "" {
		return nil
	}

	data, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil
	}

	var k Key
	if err := json.Unmarshal(data, &k); err != nil {
		return nil
	}
	if k.IsZero() {
		return nil
	}
	return k.ToAttributes()
}

// ToAttributes converts the key to DynamoDB exclusive start key format.
func (k Key) ToAttributes() map[string]types.AttributeValue {
	attrs := make(map[string]types.AttributeValue)
	set := func(name, value string) {
		if value != "" {
			attrs[name] = &types.AttributeValueMemberS{Value: value}
		}
	}
	set("PK", k.PK)
	set("SK", k.SK)
	set("GSI1PK", k.GSI1PK)
	set("GSI1SK", k.GSI1SK)
	set("GSI2PK", k.GSI2PK)
	set("GSI2SK", k.GSI2SK)
	set("GSI3PK", k.GSI3PK)
	set("GSI3SK", k.GSI3SK)
	return attrs
}

// FromAttributes extracts the string key attributes of a last evaluated key.
func FromAttributes(attrs map[string]types.AttributeValue) Key {
	get := func(name string) string {
		if v, ok := attrs[name].(*types.AttributeValueMemberS); ok {
			return v.Value
		}
		return ""
	}
	return Key{
		PK:     get("PK"),
		SK:     get("SK"),
		GSI1PK: get("GSI1PK"),
		GSI1SK: get("GSI1SK"),
		GSI2PK: get("GSI2PK"),
		GSI2SK: get("GSI2SK"),
		GSI3PK: get("GSI3PK"),
		GSI3SK: get("GSI3SK"),
	}
}
