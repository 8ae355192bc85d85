// Package entity defines the logical entity types stored in the single
// application table, their constructors and their invariants.
package entity

// Type identifies a logical entity family sharing the physical table.
type Type string

const (
	TypeCategory  Type = "CATEGORY"
	TypeProduct   Type = "PRODUCT"
	TypeReview    Type = "REVIEW"
	TypePage      Type = "CMS_PAGE"
	TypeComponent Type = "CMS_COMPONENT"
	TypeContent   Type = "CONTENT"
)

// String returns the wire form of the type, used as the key prefix.
func (t Type) String() string {
	return string(t)
}
