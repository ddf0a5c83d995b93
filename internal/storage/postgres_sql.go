// Path: internal/storage/postgres_sql.go
package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"gene-catalog/internal/domain"
	"gene-catalog/internal/query"
)

// geneColumns lists the table's columns in insert order.
var geneColumns = []string{
	"id", "name", "organism", "enzyme_type", "function", "sequence", "length",
	"domain", "accession", "completeness", "protein_names", "ec_number",
	"created_at", "updated_at",
}

// nullableText are text columns that may hold NULL; selects coalesce them.
var nullableText = map[string]bool{
	"organism": true, "enzyme_type": true, "function": true, "sequence": true,
	"domain": true, "accession": true, "protein_names": true, "ec_number": true,
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// sqlBuilder collects positional arguments.
type sqlBuilder struct {
	args []any
}

func (b *sqlBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (b *sqlBuilder) predicate(p query.Predicate) string {
	col := ident(string(p.Field))
	switch p.Op {
	case query.OpILike:
		s, _ := p.Value.(string)
		return fmt.Sprintf("%s ILIKE %s", col, b.arg("%"+likeEscaper.Replace(s)+"%"))
	case query.OpGte:
		return fmt.Sprintf("%s >= %s", col, b.arg(p.Value))
	case query.OpLte:
		return fmt.Sprintf("%s <= %s", col, b.arg(p.Value))
	default:
		return fmt.Sprintf("%s = %s", col, b.arg(p.Value))
	}
}

func (b *sqlBuilder) where(w query.Where) string {
	if len(w) == 0 {
		return ""
	}
	parts := make([]string, 0, len(w))
	for _, c := range w {
		ors := make([]string, 0, len(c.AnyOf))
		for _, p := range c.AnyOf {
			ors = append(ors, b.predicate(p))
		}
		if len(ors) == 1 {
			parts = append(parts, ors[0])
			continue
		}
		parts = append(parts, "("+strings.Join(ors, " OR ")+")")
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

// orderBy sorts text byte-wise so results match the in-memory ordering.
func orderBy(order []query.Order) string {
	if len(order) == 0 {
		return ""
	}
	parts := make([]string, 0, len(order))
	for _, o := range order {
		expr := ident(string(o.Field))
		if o.Field != query.FieldLength {
			expr += ` COLLATE "C"`
		}
		if o.Desc {
			expr += " DESC"
		} else {
			expr += " ASC"
		}
		parts = append(parts, expr)
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}

func selectList(fields []query.Field) string {
	cols := geneColumns
	if len(fields) > 0 {
		cols = []string{"id"}
		for _, f := range fields {
			if f != query.FieldID {
				cols = append(cols, string(f))
			}
		}
	}
	exprs := make([]string, 0, len(cols))
	for _, c := range cols {
		switch {
		case nullableText[c]:
			exprs = append(exprs, fmt.Sprintf("COALESCE(%s, '') AS %s", ident(c), ident(c)))
		case c == "length":
			exprs = append(exprs, fmt.Sprintf("COALESCE(%s, 0) AS %s", ident(c), ident(c)))
		default:
			exprs = append(exprs, ident(c))
		}
	}
	return strings.Join(exprs, ", ")
}

// selectSQL renders a paged SELECT for q.
func selectSQL(table string, q query.Query) (string, []any) {
	b := &sqlBuilder{}
	sql := "SELECT " + selectList(q.Fields) + " FROM " + ident(table) + b.where(q.Where) + orderBy(q.Order)
	if q.Range.Limit > 0 {
		sql += " LIMIT " + b.arg(q.Range.Limit)
	}
	if q.Range.Offset > 0 {
		sql += " OFFSET " + b.arg(q.Range.Offset)
	}
	return sql, b.args
}

// countSQL renders the COUNT matching q's predicates.
func countSQL(table string, w query.Where) (string, []any) {
	b := &sqlBuilder{}
	return "SELECT count(*) FROM " + ident(table) + b.where(w), b.args
}

func geneArgs(g domain.GeneRecord) []any {
	return []any{
		g.ID, g.Name, g.Organism, g.EnzymeType, g.Function, g.Sequence, g.Length,
		g.Domain, g.Accession, string(g.Completeness), g.ProteinNames, g.ECNumber,
		g.CreatedAt, g.UpdatedAt,
	}
}

func placeholders(n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = "$" + strconv.Itoa(i+1)
	}
	return strings.Join(ps, ", ")
}

func columnList() string {
	cols := make([]string, len(geneColumns))
	for i, c := range geneColumns {
		cols[i] = ident(c)
	}
	return strings.Join(cols, ", ")
}

func insertSQL(table string) string {
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", ident(table), columnList(), placeholders(len(geneColumns)))
}

// updateSQL rewrites every column of the row whose id is $1.
func updateSQL(table string) string {
	sets := make([]string, 0, len(geneColumns)-1)
	for i, c := range geneColumns[1:] {
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(c), i+2))
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1", ident(table), strings.Join(sets, ", "), ident("id"))
}

func upsertSQL(table string) string {
	sets := make([]string, 0, len(geneColumns)-1)
	for _, c := range geneColumns[1:] {
		if c == "created_at" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", ident(c), ident(c)))
	}
	return insertSQL(table) + fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET %s", ident("id"), strings.Join(sets, ", "))
}

func deleteSQL(table string) string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(table), ident("id"))
}

func schemaSQL(table string) []string {
	t := ident(table)
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	organism TEXT,
	enzyme_type TEXT,
	"function" TEXT,
	sequence TEXT,
	length INTEGER NOT NULL DEFAULT 0 CHECK (length >= 0),
	domain TEXT,
	accession TEXT,
	completeness TEXT NOT NULL CHECK (completeness IN ('complete', 'partial')),
	protein_names TEXT,
	ec_number TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, t),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (name COLLATE "C", id COLLATE "C")`, ident(table+"_name_idx"), t),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (enzyme_type)`, ident(table+"_enzyme_type_idx"), t),
	}
}
