package core

import (
	"context"
	"fmt"

	"familytree/pkg/domain"
)

const parentageRuleName = "parentage_integrity"

// ParentageIntegrityRule blocks graphs where a recorded father or mother is missing,
// of the wrong gender, the member themselves, or does not list the member as a child.
func ParentageIntegrityRule() domain.Rule { return parentageRule{} }

type parentageRule struct{}

func (parentageRule) Name() string { return parentageRuleName }

func (parentageRule) Evaluate(_ context.Context, view domain.GraphView) (domain.Result, error) {
	res := domain.Result{}
	for _, rec := range view.Records() {
		checkParent(&res, view, rec, "father", rec.FatherID, domain.GenderMale)
		checkParent(&res, view, rec, "mother", rec.MotherID, domain.GenderFemale)
	}
	return res, nil
}

func checkParent(res *domain.Result, view domain.GraphView, child domain.MemberRecord, role, parentID string, want domain.Gender) {
	if parentID == "" {
		return
	}
	block := func(format string, args ...any) {
		res.Violations = append(res.Violations, violation(parentageRuleName, domain.SeverityBlock, child.ID, fmt.Sprintf(format, args...)))
	}
	if parentID == child.ID {
		block("member %s is recorded as their own %s", child.ID, role)
		return
	}
	parent, ok := view.Record(parentID)
	if !ok {
		block("member %s references missing %s %s", child.ID, role, parentID)
		return
	}
	if parent.Gender != want {
		block("%s %s of member %s is not %s", role, parentID, child.ID, want)
	}
	if !listsChild(view, parent, child.ID) {
		block("%s %s does not list child %s", role, parentID, child.ID)
	}
}
