package cursor

import (
	"encoding/base64"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	key := map[string]types.AttributeValue{
		"PK":     &types.AttributeValueMemberS{Value: "PRODUCT#p1"},
		"SK":     &types.AttributeValueMemberS{Value: "PRODUCT#p1"},
		"GSI1PK": &types.AttributeValueMemberS{Value: "PRODUCT"},
		"GSI1SK": &types.AttributeValueMemberS{Value: "2025-06-01T00:00:00Z#p1"},
	}

	encoded := Encode(key)
	require.NotEmpty(t, encoded)

	decoded := Decode(encoded)
	require.NotNil(t, decoded)
	assert.Equal(t, key, decoded)
}

func TestEncode_EmptyKey(t *testing.T) {
	assert.Empty(t, Encode(nil))
	assert.Empty(t, Encode(map[string]types.AttributeValue{}))
}

func TestDecode_FailsSoft(t *testing.T) {
	tests := []struct {
		name   string
		cursor string
	}{
		{"empty", ""},
		{"not base64", "!!!not-base64!!!"},
		{"base64 but not json", base64.URLEncoding.EncodeToString([]byte("hello world"))},
		{"json but empty object", base64.URLEncoding.EncodeToString([]byte("{}"))},
		{"json wrong shape", base64.URLEncoding.EncodeToString([]byte(`{"foo": 42}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Decode(tt.cursor), "malformed cursors must decode to nil, not error")
		})
	}
}

func TestDecode_ForeignPayloadIgnoresUnknownFields(t *testing.T) {
	payload := base64.URLEncoding.EncodeToString([]byte(`{"pk":"PRODUCT#p1","sk":"PRODUCT#p1","extra":"x"}`))

	decoded := Decode(payload)
	require.NotNil(t, decoded)

	pk, ok := decoded["PK"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "PRODUCT#p1", pk.Value)
}
