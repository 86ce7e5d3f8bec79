package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/thenoetrevino/tramo/internal/sequence"
)

// chainTable describes a table whose rows form sequence chains. Every such
// table has id, a group column, prev_id and next_id; payload columns vary.
type chainTable[N sequence.Node] struct {
	name     string
	groupCol string
	payload  []string // payload columns written on insert
	scan     func(scanner) (N, error)
	values   func(N) []any // payload values, same order as payload
}

// selectColumns lists the columns scan expects, in order
func (t *chainTable[N]) selectColumns() string {
	cols := append([]string{"id", t.groupCol, "prev_id", "next_id"}, t.payload...)
	return strings.Join(cols, ", ")
}

// where renders a sequence filter as a SQL condition and its argument
func (t *chainTable[N]) where(f sequence.Filter) (string, []any, error) {
	var col string
	switch f.Field {
	case sequence.FieldID:
		col = "id"
	case sequence.FieldPrev:
		col = "prev_id"
	case sequence.FieldNext:
		col = "next_id"
	default:
		return "", nil, fmt.Errorf("unsupported filter field %s", f.Field)
	}
	if f.Value == nil {
		return col + " IS NULL", nil, nil
	}
	return col + " = ?", []any{*f.Value}, nil
}

// chainRepo implements sequence.Store over a chainTable. When tx is set the
// repo is already inside a transaction and Atomic runs in place.
type chainRepo[N sequence.Node] struct {
	table *chainTable[N]
	db    *sql.DB
	q     querier
	inTx  bool
}

func newChainRepo[N sequence.Node](db *sql.DB, table *chainTable[N]) *chainRepo[N] {
	return &chainRepo[N]{table: table, db: db, q: db}
}

// Create inserts a node with its references and payload
func (r *chainRepo[N]) Create(ctx context.Context, n N) error {
	link := n.Chain()
	cols := append([]string{"id", r.table.groupCol, "prev_id", "next_id"}, r.table.payload...)
	args := append([]any{link.ID, link.GroupID, nullString(link.PrevID), nullString(link.NextID)}, r.table.values(n)...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, r.table.name, strings.Join(cols, ", "), placeholders)
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", r.table.name, err)
	}
	return nil
}

// Update writes the references of an existing node. Payload columns are
// never touched here; they have their own narrow update statements.
func (r *chainRepo[N]) Update(ctx context.Context, n N) error {
	link := n.Chain()
	query := fmt.Sprintf(`UPDATE %s SET prev_id = ?, next_id = ?, updated_at = ? WHERE id = ? AND %s = ?`,
		r.table.name, r.table.groupCol)
	result, err := r.q.ExecContext(ctx, query,
		nullString(link.PrevID), nullString(link.NextID), now(), link.ID, link.GroupID)
	if err != nil {
		return fmt.Errorf("failed to update %s %s: %w", r.table.name, link.ID, err)
	}
	return requireOneRow(result, link.ID)
}

// Delete removes the node row
func (r *chainRepo[N]) Delete(ctx context.Context, n N) error {
	link := n.Chain()
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ? AND %s = ?`, r.table.name, r.table.groupCol)
	result, err := r.q.ExecContext(ctx, query, link.ID, link.GroupID)
	if err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.table.name, link.ID, err)
	}
	return requireOneRow(result, link.ID)
}

// Get loads a node by id from any group
func (r *chainRepo[N]) Get(ctx context.Context, id string) (N, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, r.table.selectColumns(), r.table.name)
	n, err := r.table.scan(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return n, fmt.Errorf("%w: %s", sequence.ErrNotFound, id)
	}
	if err != nil {
		return n, fmt.Errorf("failed to get %s %s: %w", r.table.name, id, err)
	}
	return n, nil
}

// FindOne returns the single node of groupID matching f
func (r *chainRepo[N]) FindOne(ctx context.Context, groupID string, f sequence.Filter) (N, error) {
	var zero N
	cond, condArgs, err := r.table.where(f)
	if err != nil {
		return zero, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? AND %s LIMIT 2`,
		r.table.selectColumns(), r.table.name, r.table.groupCol, cond)

	nodes, err := r.query(ctx, query, append([]any{groupID}, condArgs...)...)
	if err != nil {
		return zero, err
	}
	switch len(nodes) {
	case 0:
		return zero, fmt.Errorf("%w: %s in group %s", sequence.ErrNotFound, f, groupID)
	case 1:
		return nodes[0], nil
	default:
		return zero, fmt.Errorf("%w: %s in group %s", sequence.ErrAmbiguous, f, groupID)
	}
}

// FindAll returns every node of groupID in storage order
func (r *chainRepo[N]) FindAll(ctx context.Context, groupID string) ([]N, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? ORDER BY rowid`,
		r.table.selectColumns(), r.table.name, r.table.groupCol)
	return r.query(ctx, query, groupID)
}

// Atomic runs fn inside one transaction. Nested calls reuse the open one.
func (r *chainRepo[N]) Atomic(ctx context.Context, groupID string, fn func(sequence.Store[N]) error) error {
	if r.inTx {
		return fn(r)
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&chainRepo[N]{table: r.table, db: r.db, q: tx, inTx: true})
	})
}

func (r *chainRepo[N]) query(ctx context.Context, query string, args ...any) ([]N, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", r.table.name, err)
	}
	defer rows.Close()

	nodes := []N{}
	for rows.Next() {
		n, err := r.table.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", r.table.name, err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", r.table.name, err)
	}
	return nodes, nil
}

func requireOneRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", sequence.ErrNotFound, id)
	}
	return nil
}
