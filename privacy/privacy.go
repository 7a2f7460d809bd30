package privacy

import (
	"context"
	"errors"
	"fmt"
)

// Policy decision sentinel errors. Rules return them, possibly wrapped,
// to steer the evaluation:
//
//	if errors.Is(err, privacy.Deny) { ... }
var (
	// Allow terminates the evaluation and permits the write.
	Allow = errors.New("record/privacy: allow rule")

	// Deny terminates the evaluation and rejects the write.
	Deny = errors.New("record/privacy: deny rule")

	// Skip passes the decision to the next rule.
	Skip = errors.New("record/privacy: skip rule")
)

// Allowf returns a formatted wrapped Allow decision.
func Allowf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Allow)...)
}

// Denyf returns a formatted wrapped Deny decision.
func Denyf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Deny)...)
}

// Skipf returns a formatted wrapped Skip decision.
func Skipf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, Skip)...)
}

// Op is the kind of a write.
type Op uint8

// Write operations.
const (
	OpInsert Op = 1 << iota
	OpUpdate
	OpDelete
)

// Is reports whether o matches any of the operations set in op.
func (o Op) Is(op Op) bool { return o&op != 0 }

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Mutation describes a write about to be issued by a record.
type Mutation interface {
	// Op returns the kind of the write.
	Op() Op
	// Table returns the table written to.
	Table() string
	// Fields returns the columns carried by the write, in order.
	Fields() []string
	// Field returns the value written to a column. For deletes by key,
	// the primary key column is reported.
	Field(name string) (any, bool)
}

// Rule decides whether a mutation is allowed. It returns Allow, Deny,
// Skip, nil (same as Skip) or any other error, which aborts the write.
type Rule interface {
	EvalMutation(context.Context, Mutation) error
}

// RuleFunc is an adapter which allows the use of ordinary functions as
// rules.
type RuleFunc func(context.Context, Mutation) error

// EvalMutation returns f(ctx, m).
func (f RuleFunc) EvalMutation(ctx context.Context, m Mutation) error {
	return f(ctx, m)
}

// Policy is an ordered list of rules. The first rule returning a decision
// other than Skip wins. A policy where every rule skips allows the write.
type Policy []Rule

// EvalMutation evaluates the rules of p against m. It returns nil if the
// write is allowed. A decision stored in ctx with DecisionContext
// bypasses the rules.
func (p Policy) EvalMutation(ctx context.Context, m Mutation) error {
	if decision, ok := DecisionFromContext(ctx); ok {
		return decision
	}
	for _, rule := range p {
		switch decision := rule.EvalMutation(ctx, m); {
		case decision == nil || errors.Is(decision, Skip):
		case errors.Is(decision, Allow):
			return nil
		default:
			return decision
		}
	}
	return nil
}

// AlwaysAllowRule returns a rule that always allows.
func AlwaysAllowRule() Rule {
	return fixedDecision{Allow}
}

// AlwaysDenyRule returns a rule that always denies. It usually closes a
// policy.
func AlwaysDenyRule() Rule {
	return fixedDecision{Deny}
}

// ContextRule returns a rule deciding from ctx alone.
func ContextRule(eval func(context.Context) error) Rule {
	return RuleFunc(func(ctx context.Context, _ Mutation) error {
		return eval(ctx)
	})
}

// OnOperation evaluates rule only on the operations set in op.
func OnOperation(rule Rule, op Op) Rule {
	return RuleFunc(func(ctx context.Context, m Mutation) error {
		if m.Op().Is(op) {
			return rule.EvalMutation(ctx, m)
		}
		return Skip
	})
}

// OnTable evaluates rule only on writes to the given tables.
func OnTable(rule Rule, tables ...string) Rule {
	return RuleFunc(func(ctx context.Context, m Mutation) error {
		for _, t := range tables {
			if m.Table() == t {
				return rule.EvalMutation(ctx, m)
			}
		}
		return Skip
	})
}

// DenyOperationRule returns a rule denying the operations set in op.
func DenyOperationRule(op Op) Rule {
	return OnOperation(RuleFunc(func(_ context.Context, m Mutation) error {
		return Denyf("record/privacy: %s on %s is not allowed", m.Op(), m.Table())
	}), op)
}

// AllowOperationRule returns a rule allowing the operations set in op.
func AllowOperationRule(op Op) Rule {
	return OnOperation(AlwaysAllowRule(), op)
}

type decisionCtxKey struct{}

// DecisionContext returns a copy of parent carrying a decision that
// overrides every policy. Skip and nil leave parent unchanged.
//
//	ctx = privacy.DecisionContext(ctx, privacy.Allow) // system writes
func DecisionContext(parent context.Context, decision error) context.Context {
	if decision == nil || errors.Is(decision, Skip) {
		return parent
	}
	return context.WithValue(parent, decisionCtxKey{}, decision)
}

// DecisionFromContext returns the decision stored in ctx. An Allow
// decision is reported as nil.
func DecisionFromContext(ctx context.Context) (error, bool) {
	decision, ok := ctx.Value(decisionCtxKey{}).(error)
	if ok && errors.Is(decision, Allow) {
		decision = nil
	}
	return decision, ok
}

type fixedDecision struct {
	decision error
}

func (f fixedDecision) EvalMutation(context.Context, Mutation) error {
	return f.decision
}
