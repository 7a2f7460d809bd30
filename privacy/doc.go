// Package privacy decides whether records may write to the database.
//
// A Policy is an ordered list of rules evaluated before every insert,
// update and delete issued by a record of a client configured with
// record.WithPolicy. Each rule returns Allow, Deny or Skip:
//
//	client := record.NewClient(drv, record.WithPolicy(privacy.Policy{
//	    privacy.DenyIfNoViewer(),
//	    privacy.HasRole("admin"),
//	    privacy.OnTable(privacy.IsOwner("author_id"), "posts"),
//	    privacy.DenyOperationRule(privacy.OpDelete),
//	    privacy.AlwaysAllowRule(),
//	}))
//
//	ctx = privacy.WithViewer(ctx, &privacy.SimpleViewer{UserID: "42"})
//	_, err := post.Save(ctx, nil, false)
//	if errors.Is(err, privacy.Deny) {
//	    // rejected before reaching the database
//	}
//
// The viewer is carried by the context. A decision attached with
// DecisionContext overrides every policy, which is useful for
// system writes and migrations.
package privacy
