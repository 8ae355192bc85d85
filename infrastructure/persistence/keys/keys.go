// Package keys derives every primary and secondary key for the single
// application table. All access patterns are answered by exactly one index:
//
//	primary           point lookup by TYPE#id (reviews partition under their product)
//	EntityTypeIndex   all items of one type, ordered by creation time
//	ParentIndex       items under one parent, ordered by explicit rank
//	SlugIndex         direct slug resolution per type
package keys

import (
	"fmt"
	"time"

	"storefront-backend/domain/entity"
)

// Attribute names on the wire.
const (
	AttrPK     = "PK"
	AttrSK     = "SK"
	AttrGSI1PK = "GSI1PK"
	AttrGSI1SK = "GSI1SK"
	AttrGSI2PK = "GSI2PK"
	AttrGSI2SK = "GSI2SK"
	AttrGSI3PK = "GSI3PK"
	AttrGSI3SK = "GSI3SK"
)

// Physical index names.
const (
	EntityTypeIndex = "GSI1"
	ParentIndex     = "GSI2"
	SlugIndex       = "GSI3"
)

// GlobalComponentPartition is the ParentIndex partition for components not
// owned by any page.
const GlobalComponentPartition = "CMS_COMPONENT#GLOBAL"

// Primary is the two-part key identifying one item.
type Primary struct {
	PK string
	SK string
}

// Secondary is one GSI key pair.
type Secondary struct {
	PK string
	SK string
}

// Set holds every key derived for an entity. Nil secondaries mean the entity
// does not participate in that index.
type Set struct {
	Primary Primary
	ByType  *Secondary // EntityTypeIndex
	ByParent *Secondary // ParentIndex
	BySlug  *Secondary // SlugIndex
}

// TypeKey builds the TYPE#id form used for partition and sort keys.
func TypeKey(t entity.Type, id string) string {
	return fmt.Sprintf("%s#%s", t, id)
}

// TypePartition is the EntityTypeIndex partition for a type.
func TypePartition(t entity.Type) string {
	return string(t)
}

// SlugPartition is the SlugIndex partition for a type. Slug uniqueness is
// enforced per entity type, not globally.
func SlugPartition(t entity.Type) string {
	return fmt.Sprintf("SLUG#%s", t)
}

// ParentPartition is the ParentIndex partition for items under a parent.
func ParentPartition(parentType entity.Type, parentID string) string {
	return TypeKey(parentType, parentID)
}

// CreatedSortKey encodes a timestamp so lexicographic order equals temporal
// order. The id suffix breaks ties between items created in the same instant.
func CreatedSortKey(at time.Time, id string) string {
	return fmt.Sprintf("%s#%s", at.UTC().Format(time.RFC3339), id)
}

// RankSortKey zero-pads an explicit rank so lexicographic order equals
// numeric order. Ranks are validated non-negative before they reach here.
func RankSortKey(rank int, id string) string {
	return fmt.Sprintf("%010d#%s", rank, id)
}

// ForCategory derives keys for a category.
func ForCategory(c *entity.Category) Set {
	k := TypeKey(entity.TypeCategory, c.ID)
	return Set{
		Primary: Primary{PK: k, SK: k},
		ByType:  &Secondary{PK: TypePartition(entity.TypeCategory), SK: CreatedSortKey(c.CreatedAt, c.ID)},
		ByParent: &Secondary{
			// Categories rank under a single root partition.
			PK: TypePartition(entity.TypeCategory) + "#ROOT",
			SK: RankSortKey(c.DisplayRank, c.ID),
		},
		BySlug: &Secondary{PK: SlugPartition(entity.TypeCategory), SK: c.Slug},
	}
}

// ForProduct derives keys for a product. A category or rank change must
// rewrite ByParent in the same item update as the attribute change.
func ForProduct(p *entity.Product) Set {
	k := TypeKey(entity.TypeProduct, p.ID)
	return Set{
		Primary: Primary{PK: k, SK: k},
		ByType:  &Secondary{PK: TypePartition(entity.TypeProduct), SK: CreatedSortKey(p.CreatedAt, p.ID)},
		ByParent: &Secondary{
			PK: ParentPartition(entity.TypeCategory, p.CategoryID),
			SK: RankSortKey(p.DisplayRank, p.ID),
		},
		BySlug: &Secondary{PK: SlugPartition(entity.TypeProduct), SK: p.Slug},
	}
}

// ForReview derives keys for a review. The parent product lives in the
// primary partition key, so listing a product's reviews is a primary-key
// query; EntityTypeIndex serves the moderation queue.
func ForReview(r *entity.Review) Set {
	return Set{
		Primary: Primary{
			PK: TypeKey(entity.TypeProduct, r.ProductID),
			SK: TypeKey(entity.TypeReview, r.ID),
		},
		ByType: &Secondary{PK: TypePartition(entity.TypeReview), SK: CreatedSortKey(r.CreatedAt, r.ID)},
	}
}

// ForPage derives keys for a CMS page.
func ForPage(p *entity.Page) Set {
	k := TypeKey(entity.TypePage, p.ID)
	return Set{
		Primary: Primary{PK: k, SK: k},
		ByType:  &Secondary{PK: TypePartition(entity.TypePage), SK: CreatedSortKey(p.CreatedAt, p.ID)},
		BySlug:  &Secondary{PK: SlugPartition(entity.TypePage), SK: p.Slug},
	}
}

// ForComponent derives keys for a CMS component. Page-scoped components
// partition under their page; global components share one partition.
func ForComponent(c *entity.Component) Set {
	k := TypeKey(entity.TypeComponent, c.ID)
	parent := GlobalComponentPartition
	if c.Scope == entity.ScopePage {
		parent = ParentPartition(entity.TypePage, c.PageID)
	}
	return Set{
		Primary:  Primary{PK: k, SK: k},
		ByType:   &Secondary{PK: TypePartition(entity.TypeComponent), SK: CreatedSortKey(c.CreatedAt, c.ID)},
		ByParent: &Secondary{PK: parent, SK: RankSortKey(c.DisplayOrder, c.ID)},
	}
}

// ForContent derives keys for a subscription content item. The type index
// orders by publish time rather than record creation.
func ForContent(c *entity.ContentItem) Set {
	k := TypeKey(entity.TypeContent, c.ID)
	return Set{
		Primary: Primary{PK: k, SK: k},
		ByType:  &Secondary{PK: TypePartition(entity.TypeContent), SK: CreatedSortKey(c.PublishedAt, c.ID)},
		BySlug:  &Secondary{PK: SlugPartition(entity.TypeContent), SK: c.Slug},
	}
}
