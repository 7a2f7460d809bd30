package privacy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/record/privacy"
)

// mockMutation implements privacy.Mutation for testing.
type mockMutation struct {
	op     privacy.Op
	table  string
	fields map[string]any
}

func (m *mockMutation) Op() privacy.Op { return m.op }
func (m *mockMutation) Table() string  { return m.table }
func (m *mockMutation) Fields() []string {
	names := make([]string, 0, len(m.fields))
	for name := range m.fields {
		names = append(names, name)
	}
	return names
}
func (m *mockMutation) Field(name string) (any, bool) {
	v, ok := m.fields[name]
	return v, ok
}

func TestDecisionErrors(t *testing.T) {
	err := privacy.Denyf("user %d", 1)
	assert.EqualError(t, err, "user 1: record/privacy: deny rule")
	assert.ErrorIs(t, err, privacy.Deny)
	assert.ErrorIs(t, privacy.Allowf("ok"), privacy.Allow)
	assert.ErrorIs(t, privacy.Skipf("next"), privacy.Skip)
	assert.False(t, errors.Is(err, privacy.Allow))
}

func TestOp(t *testing.T) {
	assert.True(t, privacy.OpInsert.Is(privacy.OpInsert|privacy.OpUpdate))
	assert.False(t, privacy.OpDelete.Is(privacy.OpInsert|privacy.OpUpdate))
	assert.Equal(t, "update", privacy.OpUpdate.String())
	assert.Equal(t, "op(0)", privacy.Op(0).String())
}

func TestOnOperation(t *testing.T) {
	tests := []struct {
		name   string
		ruleOp privacy.Op
		op     privacy.Op
		want   error
	}{
		{name: "matching_insert", ruleOp: privacy.OpInsert, op: privacy.OpInsert, want: privacy.Deny},
		{name: "non_matching_skips", ruleOp: privacy.OpInsert, op: privacy.OpUpdate, want: privacy.Skip},
		{name: "matching_any_of", ruleOp: privacy.OpUpdate | privacy.OpDelete, op: privacy.OpDelete, want: privacy.Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := privacy.OnOperation(privacy.AlwaysDenyRule(), tt.ruleOp)
			err := rule.EvalMutation(context.Background(), &mockMutation{op: tt.op})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOnTable(t *testing.T) {
	rule := privacy.OnTable(privacy.AlwaysDenyRule(), "users", "posts")
	ctx := context.Background()
	assert.ErrorIs(t, rule.EvalMutation(ctx, &mockMutation{table: "posts"}), privacy.Deny)
	assert.ErrorIs(t, rule.EvalMutation(ctx, &mockMutation{table: "tags"}), privacy.Skip)
}

func TestOperationRules(t *testing.T) {
	ctx := context.Background()
	err := privacy.DenyOperationRule(privacy.OpDelete).EvalMutation(ctx, &mockMutation{op: privacy.OpDelete, table: "users"})
	assert.EqualError(t, err, "record/privacy: delete on users is not allowed: record/privacy: deny rule")
	err = privacy.DenyOperationRule(privacy.OpDelete).EvalMutation(ctx, &mockMutation{op: privacy.OpInsert})
	assert.ErrorIs(t, err, privacy.Skip)
	err = privacy.AllowOperationRule(privacy.OpInsert).EvalMutation(ctx, &mockMutation{op: privacy.OpInsert})
	assert.ErrorIs(t, err, privacy.Allow)
}

func TestPolicy(t *testing.T) {
	var (
		ctx    = context.Background()
		m      = &mockMutation{op: privacy.OpUpdate, table: "users"}
		failed = errors.New("lookup failed")
	)
	tests := []struct {
		name   string
		policy privacy.Policy
		want   error
	}{
		{name: "empty", policy: nil},
		{name: "all_skip", policy: privacy.Policy{privacy.ContextRule(func(context.Context) error { return nil })}},
		{name: "allow_first", policy: privacy.Policy{privacy.AlwaysAllowRule(), privacy.AlwaysDenyRule()}},
		{name: "deny_first", policy: privacy.Policy{privacy.AlwaysDenyRule(), privacy.AlwaysAllowRule()}, want: privacy.Deny},
		{name: "skip_then_deny", policy: privacy.Policy{privacy.OnTable(privacy.AlwaysAllowRule(), "posts"), privacy.AlwaysDenyRule()}, want: privacy.Deny},
		{name: "error", policy: privacy.Policy{privacy.RuleFunc(func(context.Context, privacy.Mutation) error { return failed })}, want: failed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.EvalMutation(ctx, m)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecisionContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, privacy.DecisionContext(ctx, privacy.Skip))
	assert.Equal(t, ctx, privacy.DecisionContext(ctx, nil))

	_, ok := privacy.DecisionFromContext(ctx)
	assert.False(t, ok)

	allowCtx := privacy.DecisionContext(ctx, privacy.Allow)
	decision, ok := privacy.DecisionFromContext(allowCtx)
	require.True(t, ok)
	assert.NoError(t, decision)

	policy := privacy.Policy{privacy.AlwaysDenyRule()}
	assert.NoError(t, policy.EvalMutation(allowCtx, &mockMutation{}))
	denyCtx := privacy.DecisionContext(ctx, privacy.Denyf("read only"))
	assert.ErrorIs(t, privacy.Policy{privacy.AlwaysAllowRule()}.EvalMutation(denyCtx, &mockMutation{}), privacy.Deny)
}
