// Package dynamodb implements the application's repositories over the
// single-table storage gateway. Each repository owns its item shape and the
// complete key derivation for its entity type; a write always carries the
// primary attributes and their secondary key copies together, so a reader
// never observes one without the other.
package dynamodb

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"storefront-backend/application/ports"
	"storefront-backend/infrastructure/persistence/cursor"
	"storefront-backend/infrastructure/persistence/keys"
	"storefront-backend/infrastructure/persistence/storage"
	pkgerrors "storefront-backend/pkg/errors"
)

// marshalWithKeys marshals an item struct and stamps the derived keys onto it.
func marshalWithKeys(v interface{}, set keys.Set) (storage.Item, error) {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to marshal item").WithCause(err)
	}

	item[keys.AttrPK] = &types.AttributeValueMemberS{Value: set.Primary.PK}
	item[keys.AttrSK] = &types.AttributeValueMemberS{Value: set.Primary.SK}
	applySecondary(item, set.ByType, keys.AttrGSI1PK, keys.AttrGSI1SK)
	applySecondary(item, set.ByParent, keys.AttrGSI2PK, keys.AttrGSI2SK)
	applySecondary(item, set.BySlug, keys.AttrGSI3PK, keys.AttrGSI3SK)
	return item, nil
}

func applySecondary(item storage.Item, sec *keys.Secondary, pkName, skName string) {
	if sec == nil {
		return
	}
	item[pkName] = &types.AttributeValueMemberS{Value: sec.PK}
	item[skName] = &types.AttributeValueMemberS{Value: sec.SK}
}

// pageOf maps one query result page into a typed page with an encoded cursor.
func pageOf[T any](res storage.QueryResult, unmarshal func(storage.Item) (T, error)) (ports.Page[T], error) {
	items := make([]T, 0, len(res.Items))
	for _, raw := range res.Items {
		v, err := unmarshal(raw)
		if err != nil {
			return ports.Page[T]{}, err
		}
		items = append(items, v)
	}

	return ports.Page[T]{
		Items:      items,
		NextCursor: cursor.Encode(res.LastEvaluatedKey),
		HasMore:    len(res.LastEvaluatedKey) > 0,
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func attrString(s string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: s}
}

func attrFloat(f float64) (types.AttributeValue, error) {
	return attributevalue.Marshal(f)
}

func attrInt(n int) (types.AttributeValue, error) {
	return attributevalue.Marshal(n)
}
