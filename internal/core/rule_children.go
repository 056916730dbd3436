package core

import (
	"context"
	"fmt"

	"familytree/pkg/domain"
)

const childrenRuleName = "children_uniqueness"

// ChildrenUniquenessRule blocks duplicate, self or dangling child references and
// logs step-children: children a member lists whose parent of that member's role
// is someone else.
func ChildrenUniquenessRule() domain.Rule { return childrenRule{} }

type childrenRule struct{}

func (childrenRule) Name() string { return childrenRuleName }

func (childrenRule) Evaluate(_ context.Context, view domain.GraphView) (domain.Result, error) {
	res := domain.Result{}
	add := func(sev domain.Severity, id, format string, args ...any) {
		res.Violations = append(res.Violations, violation(childrenRuleName, sev, id, fmt.Sprintf(format, args...)))
	}
	for _, rec := range view.Records() {
		seen := make(map[string]struct{}, len(rec.ChildIDs))
		for _, cid := range rec.ChildIDs {
			if cid == rec.ID {
				add(domain.SeverityBlock, rec.ID, "member %s lists themselves as a child", rec.ID)
				continue
			}
			if _, dup := seen[cid]; dup {
				add(domain.SeverityBlock, rec.ID, "member %s lists child %s more than once", rec.ID, cid)
				continue
			}
			seen[cid] = struct{}{}
			child, ok := view.Record(cid)
			if !ok {
				add(domain.SeverityBlock, rec.ID, "member %s references missing child %s", rec.ID, cid)
				continue
			}
			roleID, role := child.FatherID, "father"
			if rec.Gender == domain.GenderFemale {
				roleID, role = child.MotherID, "mother"
			}
			if roleID != rec.ID {
				add(domain.SeverityLog, rec.ID, "member %s lists step-child %s whose %s is %s", rec.ID, cid, role, describeParent(roleID))
			}
		}
	}
	return res, nil
}

func describeParent(id string) string {
	if id == "" {
		return "unrecorded"
	}
	return id
}
