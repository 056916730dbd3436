package core

import (
	"context"
	"testing"
	"time"

	"familytree/pkg/domain"
)

func mustMember(t *testing.T, first, last string, g domain.Gender, addr *domain.Address) *domain.Member {
	t.Helper()
	m, err := domain.NewMember(first, last, g, addr, "")
	if err != nil {
		t.Fatalf("NewMember %s: %v", first, err)
	}
	return m
}

func mustAddress(t *testing.T) *domain.Address {
	t.Helper()
	a, err := domain.NewAddress("12", "Main Street", "Springfield", "3000")
	if err != nil {
		t.Fatalf("NewAddress: %v", err)
	}
	return a
}

// familyTree returns John married to Mary (née Jones) with their son Tom; John is root.
func familyTree(t *testing.T) *domain.FamilyTree {
	t.Helper()
	addr := mustAddress(t)
	john := mustMember(t, "John", "Smith", domain.GenderMale, addr)
	mary := mustMember(t, "Mary", "Smith", domain.GenderFemale, addr)
	if err := mary.SetMaidenName("Jones"); err != nil {
		t.Fatalf("maiden: %v", err)
	}
	if err := john.SetSpouse(mary); err != nil {
		t.Fatalf("spouse: %v", err)
	}
	tom := mustMember(t, "Tom", "Smith", domain.GenderMale, addr)
	if err := john.AddChild(tom); err != nil {
		t.Fatalf("child: %v", err)
	}
	tree := domain.NewFamilyTree()
	tree.SetRoot(john)
	return tree
}

type metricsCall struct {
	op      string
	success bool
}

type captureMetricsRecorder struct{ calls []metricsCall }

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, _ time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct{ ended []spanRecord }

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) { s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err}) }

type captureLogger struct{ calls []string }

func (c *captureLogger) Debug(msg string, _ ...any) { c.calls = append(c.calls, "d:"+msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.calls = append(c.calls, "i:"+msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.calls = append(c.calls, "w:"+msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.calls = append(c.calls, "e:"+msg) }

func (c *captureLogger) has(call string) bool {
	for _, got := range c.calls {
		if got == call {
			return true
		}
	}
	return false
}
