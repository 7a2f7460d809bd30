package record

import (
	"context"
	"strings"

	"github.com/syssam/record/dialect/sql"
	"github.com/syssam/record/privacy"
)

// WithPolicy sets the rule evaluated before every insert, update and
// delete issued by the records of the client. A rejected write returns
// the rule decision, which matches privacy.Deny.
func WithPolicy(p privacy.Rule) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// mutation is the privacy view of a write.
type mutation struct {
	op     privacy.Op
	table  string
	fields []sql.Pair
}

func (m *mutation) Op() privacy.Op { return m.op }
func (m *mutation) Table() string  { return m.table }

func (m *mutation) Fields() []string {
	names := make([]string, len(m.fields))
	for i, p := range m.fields {
		names[i] = p.Key
	}
	return names
}

func (m *mutation) Field(name string) (any, bool) {
	for _, p := range m.fields {
		if p.Key == name {
			return p.Value, true
		}
	}
	return nil, false
}

// checkPolicy evaluates the client policy against a write. The rule is
// evaluated as a one-rule privacy.Policy, so Allow and Skip decisions
// both let the write through.
func (r *Record) checkPolicy(ctx context.Context, op privacy.Op, table string, fields []sql.Pair) error {
	if r.client.policy == nil {
		return nil
	}
	m := &mutation{op: op, table: table, fields: fields}
	if err := (privacy.Policy{r.client.policy}).EvalMutation(ctx, m); err != nil {
		r.client.log.DebugContext(ctx, "record: write rejected", "op", op.String(), "table", table, "error", err)
		return err
	}
	return nil
}

// equalities returns the column/value pairs of the equality conditions
// of where.
func equalities(where sql.Conditions) []sql.Pair {
	var eq []sql.Pair
	for _, p := range where {
		column, pred, found := strings.Cut(p.Key, ":")
		if found && strings.TrimSpace(pred) != "=" {
			continue
		}
		eq = append(eq, sql.Pair{Key: strings.TrimSpace(column), Value: p.Value})
	}
	return eq
}
