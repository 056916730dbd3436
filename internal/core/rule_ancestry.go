package core

import (
	"context"
	"fmt"

	"familytree/pkg/domain"
)

const ancestryRuleName = "ancestry_acyclic"

// AncestryAcyclicRule blocks graphs in which a member is their own ancestor.
func AncestryAcyclicRule() domain.Rule { return ancestryRule{} }

type ancestryRule struct{}

func (ancestryRule) Name() string { return ancestryRuleName }

func (ancestryRule) Evaluate(_ context.Context, view domain.GraphView) (domain.Result, error) {
	res := domain.Result{}
	for _, rec := range view.Records() {
		if ownAncestor(view, rec) {
			res.Violations = append(res.Violations, violation(ancestryRuleName, domain.SeverityBlock, rec.ID,
				fmt.Sprintf("member %s appears among their own ancestors", rec.ID)))
		}
	}
	return res, nil
}

func ownAncestor(view domain.GraphView, start domain.MemberRecord) bool {
	seen := map[string]struct{}{}
	stack := []string{start.FatherID, start.MotherID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == "" {
			continue
		}
		if id == start.ID {
			return true
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if rec, ok := view.Record(id); ok {
			stack = append(stack, rec.FatherID, rec.MotherID)
		}
	}
	return false
}
