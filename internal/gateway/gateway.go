// Package gateway is the portal's only way in and out of the business-object
// store. Records are addressed by a dotted kind name and an integer id, and
// queried with a conjunction of (field, operator, value) predicates, so the
// callers never see tables or SQL. The store owns its own transactional
// guarantees; one gateway call is one transaction.
package gateway

import "context"

// Supported predicate operators.
const (
	OpEq    = "="
	OpILike = "ilike"
)

// Predicate is one (field, operator, value) condition. A search matches the
// conjunction of all its predicates.
type Predicate struct {
	Field string
	Op    string
	Value any
}

// Eq builds an equality predicate.
func Eq(field string, value any) Predicate {
	return Predicate{Field: field, Op: OpEq, Value: value}
}

// ILike builds a case-insensitive pattern predicate.
func ILike(field string, value string) Predicate {
	return Predicate{Field: field, Op: OpILike, Value: value}
}

// Interface is the persistence contract consumed by the portal modules.
//
// Searches never filter on a record's active flag; owner-scoped callers bound
// them with an explicit party predicate instead, which is the authorization
// boundary. A Create value may be a []map[string]any to stage nested child
// creates that are applied in the same transaction as the parent row.
type Interface interface {
	// Search returns the ids of records of the given kind matching all
	// predicates, up to limit (no limit when limit <= 0).
	Search(ctx context.Context, kind string, preds []Predicate, limit int) ([]int64, error)

	// Create inserts one record and returns its id. Nested child values are
	// all-or-nothing with the parent.
	Create(ctx context.Context, kind string, values map[string]any) (int64, error)

	// Write applies a partial update to the given records; fields absent from
	// values are left untouched. Zero matched rows is models.ErrNotFound.
	Write(ctx context.Context, kind string, ids []int64, values map[string]any) error

	// Browse hydrates full field data for the given records, in id order.
	Browse(ctx context.Context, kind string, ids []int64) ([]map[string]any, error)

	// Fields lists the field names the store exposes for a kind. Used by the
	// capability probe at startup.
	Fields(ctx context.Context, kind string) ([]string, error)
}
