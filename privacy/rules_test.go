package privacy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/record/privacy"
)

func TestViewerContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, privacy.ViewerFromContext(ctx))

	v := &privacy.SimpleViewer{UserID: "u1", Roles: []string{"admin"}, TenantID: "t1"}
	got := privacy.ViewerFromContext(privacy.WithViewer(ctx, v))
	assert.Equal(t, "u1", got.GetID())
	assert.Equal(t, []string{"admin"}, got.GetRoles())
	assert.Equal(t, "t1", got.GetTenantID())
}

func TestDenyIfNoViewer(t *testing.T) {
	rule := privacy.DenyIfNoViewer()
	assert.ErrorIs(t, rule.EvalMutation(context.Background(), &mockMutation{}), privacy.Deny)

	ctx := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "u1"})
	assert.ErrorIs(t, rule.EvalMutation(ctx, &mockMutation{}), privacy.Skip)
}

func TestHasRole(t *testing.T) {
	tests := []struct {
		name   string
		rule   privacy.Rule
		viewer *privacy.SimpleViewer
		want   error
	}{
		{name: "matching_role", rule: privacy.HasRole("admin"), viewer: &privacy.SimpleViewer{Roles: []string{"user", "admin"}}, want: privacy.Allow},
		{name: "missing_role", rule: privacy.HasRole("admin"), viewer: &privacy.SimpleViewer{Roles: []string{"user"}}, want: privacy.Skip},
		{name: "no_viewer", rule: privacy.HasRole("admin"), want: privacy.Skip},
		{name: "any_role", rule: privacy.HasAnyRole("editor", "moderator"), viewer: &privacy.SimpleViewer{Roles: []string{"moderator"}}, want: privacy.Allow},
		{name: "no_role", rule: privacy.HasAnyRole("editor"), viewer: &privacy.SimpleViewer{}, want: privacy.Skip},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.viewer != nil {
				ctx = privacy.WithViewer(ctx, tt.viewer)
			}
			assert.ErrorIs(t, tt.rule.EvalMutation(ctx, &mockMutation{}), tt.want)
		})
	}
}

func TestIsOwner(t *testing.T) {
	ctx := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "42"})
	rule := privacy.IsOwner("author_id")
	tests := map[string]struct {
		fields map[string]any
		want   error
	}{
		"int64":   {fields: map[string]any{"author_id": int64(42)}, want: privacy.Allow},
		"string":  {fields: map[string]any{"author_id": "42"}, want: privacy.Allow},
		"bytes":   {fields: map[string]any{"author_id": []byte("42")}, want: privacy.Allow},
		"other":   {fields: map[string]any{"author_id": 7}, want: privacy.Skip},
		"null":    {fields: map[string]any{"author_id": nil}, want: privacy.Skip},
		"missing": {fields: map[string]any{"title": "x"}, want: privacy.Skip},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, rule.EvalMutation(ctx, &mockMutation{fields: tt.fields}), tt.want)
		})
	}
	assert.ErrorIs(t, rule.EvalMutation(context.Background(), &mockMutation{fields: map[string]any{"author_id": 42}}), privacy.Skip)
}

func TestTenantRule(t *testing.T) {
	rule := privacy.TenantRule("tenant_id")
	ctx := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "u1", TenantID: "acme"})

	m := &mockMutation{table: "orders", fields: map[string]any{"tenant_id": "acme"}}
	assert.ErrorIs(t, rule.EvalMutation(ctx, m), privacy.Allow)

	m = &mockMutation{table: "orders", fields: map[string]any{"tenant_id": "globex"}}
	err := rule.EvalMutation(ctx, m)
	assert.ErrorIs(t, err, privacy.Deny)
	assert.Contains(t, err.Error(), "orders.tenant_id")

	assert.ErrorIs(t, rule.EvalMutation(ctx, &mockMutation{}), privacy.Skip)
	noTenant := privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "u1"})
	assert.ErrorIs(t, rule.EvalMutation(noTenant, m), privacy.Skip)
}

func TestPolicyChain(t *testing.T) {
	policy := privacy.Policy{
		privacy.DenyIfNoViewer(),
		privacy.HasRole("admin"),
		privacy.DenyOperationRule(privacy.OpDelete),
		privacy.OnTable(privacy.IsOwner("author_id"), "posts"),
		privacy.AlwaysDenyRule(),
	}
	post := func(op privacy.Op, author any) *mockMutation {
		return &mockMutation{op: op, table: "posts", fields: map[string]any{"author_id": author}}
	}
	var (
		admin = privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "1", Roles: []string{"admin"}})
		user  = privacy.WithViewer(context.Background(), &privacy.SimpleViewer{UserID: "2"})
	)
	assert.ErrorIs(t, policy.EvalMutation(context.Background(), post(privacy.OpInsert, 2)), privacy.Deny)
	assert.NoError(t, policy.EvalMutation(admin, post(privacy.OpDelete, 2)))
	assert.NoError(t, policy.EvalMutation(user, post(privacy.OpUpdate, 2)))
	assert.ErrorIs(t, policy.EvalMutation(user, post(privacy.OpUpdate, 3)), privacy.Deny)
	assert.ErrorIs(t, policy.EvalMutation(user, post(privacy.OpDelete, 2)), privacy.Deny)
}
