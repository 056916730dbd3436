package domain

import "context"

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities decide whether a graph is accepted.
const (
	// SeverityBlock rejects the graph.
	SeverityBlock Severity = "block"
	// SeverityWarn reports a problem but accepts the graph.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// GraphView provides read-only access to the identifier-linked form of a graph.
// Rules see records rather than live members so that documents can be checked
// before they are wired into a tree.
type GraphView interface {
	RootID() string
	Records() []MemberRecord
	Record(id string) (MemberRecord, bool)
}

// SnapshotView indexes a Snapshot for rule evaluation. When an identifier repeats,
// Record returns the first occurrence while Records still lists every entry.
type SnapshotView struct {
	snap  Snapshot
	index map[string]int
}

// NewSnapshotView builds a GraphView over s.
func NewSnapshotView(s Snapshot) *SnapshotView {
	index := make(map[string]int, len(s.Members))
	for i, rec := range s.Members {
		if _, dup := index[rec.ID]; !dup {
			index[rec.ID] = i
		}
	}
	return &SnapshotView{snap: s, index: index}
}

func (v *SnapshotView) RootID() string { return v.snap.RootID }

func (v *SnapshotView) Records() []MemberRecord { return v.snap.Members }

func (v *SnapshotView) Record(id string) (MemberRecord, bool) {
	i, ok := v.index[id]
	if !ok {
		return MemberRecord{}, false
	}
	return v.snap.Members[i], true
}

// Rule defines an integrity check over a member graph.
type Rule interface {
	Name() string
	Evaluate(ctx context.Context, view GraphView) (Result, error)
}

// Violation describes a rule failure.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	MemberID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	for _, v := range e.Result.Violations {
		if v.Severity == SeverityBlock {
			return "graph rejected by rule " + v.Rule + ": " + v.Message
		}
	}
	return "graph rejected by rules"
}

// RulesEngine orchestrates rule evaluation.
type RulesEngine struct {
	rules []Rule
}

// NewRulesEngine constructs an engine instance.
func NewRulesEngine() *RulesEngine {
	return &RulesEngine{}
}

// Register appends a rule to the engine.
func (e *RulesEngine) Register(rule Rule) {
	e.rules = append(e.rules, rule)
}

// Rules returns the registered rule names in registration order.
func (e *RulesEngine) Rules() []string {
	names := make([]string, 0, len(e.rules))
	for _, r := range e.rules {
		names = append(names, r.Name())
	}
	return names
}

// Evaluate executes all registered rules and aggregates their results.
func (e *RulesEngine) Evaluate(ctx context.Context, view GraphView) (Result, error) {
	var combined Result
	for _, rule := range e.rules {
		res, err := rule.Evaluate(ctx, view)
		if err != nil {
			return Result{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}
