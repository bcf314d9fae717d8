package gateway

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"party-portal/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// tables maps record kinds to their backing tables. Unknown kinds are
// programming errors and fail loudly.
var tables = map[string]string{
	"party.party":             "party_party",
	"party.address":           "party_address",
	"party.contact_mechanism": "party_contact_mechanism",
	"galatea.user":            "galatea_user",
	"galatea.website":         "galatea_website",
	"galatea.website-country": "galatea_website_country",
	"country.country":         "country_country",
	"country.subdivision":     "country_subdivision",
}

// childRelation describes where a nested create lands: the child kind and the
// column on the child that references the freshly created parent.
type childRelation struct {
	kind         string
	parentColumn string
}

var childRelations = map[string]map[string]childRelation{
	"party.address": {
		"contact_mechanisms": {kind: "party.contact_mechanism", parentColumn: "address"},
	},
}

// Postgres implements Interface against a PostgreSQL rendition of the
// business-object schema.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) Interface {
	return &Postgres{db: db}
}

func tableFor(kind string) (string, error) {
	table, ok := tables[kind]
	if !ok {
		return "", fmt.Errorf("gateway: unknown record kind %q", kind)
	}
	return table, nil
}

// buildWhere compiles predicates into a WHERE clause and its arguments.
// Only "=" and "ilike" are supported, matching the contract in gateway.go.
func buildWhere(preds []Predicate, argIdx int) (string, []any, error) {
	if len(preds) == 0 {
		return "", nil, nil
	}
	var clauses []string
	var args []any
	for _, p := range preds {
		switch p.Op {
		case OpEq:
			clauses = append(clauses, fmt.Sprintf("%s = $%d", p.Field, argIdx))
		case OpILike:
			clauses = append(clauses, fmt.Sprintf("%s ILIKE $%d", p.Field, argIdx))
		default:
			return "", nil, fmt.Errorf("gateway: unsupported operator %q", p.Op)
		}
		args = append(args, p.Value)
		argIdx++
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (g *Postgres) Search(ctx context.Context, kind string, preds []Predicate, limit int) ([]int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	where, args, err := buildWhere(preds, 1)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT id FROM %s%s ORDER BY id", table, where)
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := g.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("gateway.Search %s: %w", kind, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("gateway.Search %s: %w", kind, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gateway.Search %s: %w", kind, err)
	}
	return ids, nil
}

func (g *Postgres) Create(ctx context.Context, kind string, values map[string]any) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	// Nested child values are split out and inserted in the same transaction
	// as the parent, so a failing child insert rolls the whole create back.
	scalars := make(map[string]any, len(values))
	nested := make(map[string][]map[string]any)
	for field, value := range values {
		if children, ok := value.([]map[string]any); ok {
			nested[field] = children
			continue
		}
		scalars[field] = value
	}

	tx, err := g.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("gateway.Create %s: %w", kind, err)
	}
	defer tx.Rollback(ctx)

	columns, placeholders, args := insertParts(scalars)
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	var id int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("gateway.Create %s: %w", kind, err)
	}

	for field, children := range nested {
		rel, ok := childRelations[kind][field]
		if !ok {
			return 0, fmt.Errorf("gateway: kind %q has no nested relation %q", kind, field)
		}
		childTable, err := tableFor(rel.kind)
		if err != nil {
			return 0, err
		}
		for _, child := range children {
			row := make(map[string]any, len(child)+1)
			for k, v := range child {
				row[k] = v
			}
			row[rel.parentColumn] = id
			columns, placeholders, args := insertParts(row)
			query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
				childTable, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return 0, fmt.Errorf("gateway.Create %s.%s: %w", kind, field, err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("gateway.Create %s: %w", kind, err)
	}
	return id, nil
}

// insertParts flattens a value map into deterministic column, placeholder and
// argument lists.
func insertParts(values map[string]any) ([]string, []string, []any) {
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	// map iteration order is random; keep statements stable for logs
	sort.Strings(columns)

	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, column := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[column]
	}
	return columns, placeholders, args
}

func (g *Postgres) Write(ctx context.Context, kind string, ids []int64, values map[string]any) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}
	if len(ids) == 0 || len(values) == 0 {
		return nil
	}

	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	setClauses := make([]string, len(columns))
	args := make([]any, 0, len(columns)+1)
	for i, column := range columns {
		setClauses[i] = fmt.Sprintf("%s = $%d", column, i+1)
		args = append(args, values[column])
	}
	args = append(args, ids)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ANY($%d)",
		table, strings.Join(setClauses, ", "), len(columns)+1)

	cmdTag, err := g.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("gateway.Write %s: %w", kind, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (g *Postgres) Browse(ctx context.Context, kind string, ids []int64) ([]map[string]any, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE id = ANY($1) ORDER BY id", table)
	rows, err := g.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("gateway.Browse %s: %w", kind, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var records []map[string]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("gateway.Browse %s: %w", kind, err)
		}
		record := make(map[string]any, len(fields))
		for i, fd := range fields {
			record[fd.Name] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gateway.Browse %s: %w", kind, err)
	}
	return records, nil
}

func (g *Postgres) Fields(ctx context.Context, kind string) ([]string, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT column_name FROM information_schema.columns
		WHERE table_name = $1
		ORDER BY ordinal_position`
	rows, err := g.db.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("gateway.Fields %s: %w", kind, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var column string
		if err := rows.Scan(&column); err != nil {
			return nil, fmt.Errorf("gateway.Fields %s: %w", kind, err)
		}
		columns = append(columns, column)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("gateway.Fields %s: %w", kind, err)
	}
	return columns, nil
}
