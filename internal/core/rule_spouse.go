package core

import (
	"context"
	"fmt"

	"familytree/pkg/domain"
)

const spouseRuleName = "spouse_integrity"

// SpouseIntegrityRule blocks one-sided, same-gender, self or dangling marriages.
func SpouseIntegrityRule() domain.Rule { return spouseRule{} }

type spouseRule struct{}

func (spouseRule) Name() string { return spouseRuleName }

func (spouseRule) Evaluate(_ context.Context, view domain.GraphView) (domain.Result, error) {
	res := domain.Result{}
	block := func(id, format string, args ...any) {
		res.Violations = append(res.Violations, violation(spouseRuleName, domain.SeverityBlock, id, fmt.Sprintf(format, args...)))
	}
	for _, rec := range view.Records() {
		if rec.SpouseID == "" {
			continue
		}
		if rec.SpouseID == rec.ID {
			block(rec.ID, "member %s is married to themselves", rec.ID)
			continue
		}
		spouse, ok := view.Record(rec.SpouseID)
		if !ok {
			block(rec.ID, "member %s references missing spouse %s", rec.ID, rec.SpouseID)
			continue
		}
		if spouse.SpouseID != rec.ID {
			block(rec.ID, "spouse link from %s to %s is not mutual", rec.ID, spouse.ID)
		}
		// Report a same-gender couple once, from the lexically smaller side.
		if spouse.Gender == rec.Gender && rec.ID < spouse.ID {
			block(rec.ID, "spouses %s and %s share a gender", rec.ID, spouse.ID)
		}
	}
	return res, nil
}
