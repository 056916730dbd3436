package core

import "familytree/pkg/domain"

type (
	Rule        = domain.Rule
	RulesEngine = domain.RulesEngine
	Result      = domain.Result
	GraphView   = domain.GraphView
)

// NewRulesEngine constructs an empty engine.
func NewRulesEngine() *RulesEngine { return domain.NewRulesEngine() }

// NewDefaultRulesEngine builds an engine with the built-in integrity rules.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(ParentageIntegrityRule())
	engine.Register(SpouseIntegrityRule())
	engine.Register(AncestryAcyclicRule())
	engine.Register(ChildrenUniquenessRule())
	return engine
}

func violation(rule string, sev domain.Severity, memberID, message string) domain.Violation {
	return domain.Violation{Rule: rule, Severity: sev, Message: message, MemberID: memberID}
}

// listsChild reports whether parent, or parent's recorded spouse, lists childID.
func listsChild(view GraphView, parent domain.MemberRecord, childID string) bool {
	for _, id := range parent.ChildIDs {
		if id == childID {
			return true
		}
	}
	if parent.SpouseID == "" {
		return false
	}
	spouse, ok := view.Record(parent.SpouseID)
	if !ok {
		return false
	}
	for _, id := range spouse.ChildIDs {
		if id == childID {
			return true
		}
	}
	return false
}
