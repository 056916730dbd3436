// Package core hosts the archive service that saves, loads and validates family
// trees over a pluggable document store.
package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"familytree/pkg/domain"
)

// Archive operation names reported to metrics, traces and logs.
const (
	OpSave     = "save"
	OpLoad     = "load"
	OpValidate = "validate"
	OpList     = "list"
)

var errNilTree = errors.New("nil family tree")

// Archive coordinates encoding, storage and integrity checking of tree documents.
type Archive struct {
	store   domain.PersistentStore
	engine  *RulesEngine
	clock   Clock
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
}

// ArchiveOption customises an Archive.
type ArchiveOption func(*archiveOptions)

type archiveOptions struct {
	engine  *RulesEngine
	clock   Clock
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
}

func defaultArchiveOptions() archiveOptions {
	return archiveOptions{
		engine:  NewDefaultRulesEngine(),
		clock:   ClockFunc(func() time.Time { return time.Now().UTC() }),
		logger:  noopLogger{},
		metrics: noopMetricsRecorder{},
		tracer:  noopTracer{},
	}
}

// WithRulesEngine replaces the default integrity rules.
func WithRulesEngine(engine *RulesEngine) ArchiveOption {
	return func(o *archiveOptions) {
		if engine != nil {
			o.engine = engine
		}
	}
}

// WithClock overrides the time source used for durations.
func WithClock(clock Clock) ArchiveOption {
	return func(o *archiveOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger Logger) ArchiveOption {
	return func(o *archiveOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetricsRecorder sets the metrics sink.
func WithMetricsRecorder(rec MetricsRecorder) ArchiveOption {
	return func(o *archiveOptions) {
		if rec != nil {
			o.metrics = rec
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(tracer Tracer) ArchiveOption {
	return func(o *archiveOptions) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// NewArchive returns an archive over store.
func NewArchive(store domain.PersistentStore, opts ...ArchiveOption) (*Archive, error) {
	if store == nil {
		return nil, errors.New("persistent store required")
	}
	o := defaultArchiveOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Archive{
		store:   store,
		engine:  o.engine,
		clock:   o.clock,
		logger:  o.logger,
		metrics: o.metrics,
		tracer:  o.tracer,
	}, nil
}

// Store returns the underlying document store.
func (a *Archive) Store() domain.PersistentStore { return a.store }

// CreateEmptyTree returns a tree with no root.
func (a *Archive) CreateEmptyTree() *domain.FamilyTree { return domain.NewFamilyTree() }

// Save encodes the tree's reachable graph and stores it under name, replacing any
// previous document. Every failure is a *domain.PersistenceError.
func (a *Archive) Save(ctx context.Context, tree *domain.FamilyTree, name string) error {
	location := strings.TrimSpace(name)
	return a.run(ctx, OpSave, location, func(ctx context.Context) (int, error) {
		if tree == nil {
			return 0, persistErr(OpSave, location, errNilTree)
		}
		doc, err := domain.Encode(tree)
		if err != nil {
			return 0, persistErr(OpSave, location, err)
		}
		if err := a.store.SaveDocument(ctx, location, doc); err != nil {
			return 0, persistErr(OpSave, location, err)
		}
		return len(tree.Members()), nil
	})
}

// Load reads, decodes and checks the named document. Blocking rule violations and
// decode failures are reported as *domain.PersistenceError and no tree is returned.
func (a *Archive) Load(ctx context.Context, name string) (*domain.FamilyTree, error) {
	location := strings.TrimSpace(name)
	var tree *domain.FamilyTree
	err := a.run(ctx, OpLoad, location, func(ctx context.Context) (int, error) {
		doc, err := a.store.LoadDocument(ctx, location)
		if err != nil {
			return 0, persistErr(OpLoad, location, err)
		}
		snap, err := domain.DecodeSnapshot(bytes.NewReader(doc))
		if err != nil {
			return 0, persistErr(OpLoad, location, err)
		}
		if _, err := a.check(ctx, location, snap); err != nil {
			return 0, persistErr(OpLoad, location, err)
		}
		t, err := domain.ImportSnapshot(snap)
		if err != nil {
			return 0, persistErr(OpLoad, location, err)
		}
		tree = t
		return len(snap.Members), nil
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Validate runs the integrity rules over a live tree. A blocking violation is
// returned as domain.RuleViolationError alongside the full result.
func (a *Archive) Validate(ctx context.Context, tree *domain.FamilyTree) (Result, error) {
	var res Result
	err := a.run(ctx, OpValidate, "", func(ctx context.Context) (int, error) {
		if tree == nil {
			return 0, errNilTree
		}
		snap, err := domain.ExportSnapshot(tree)
		if err != nil {
			return 0, err
		}
		res, err = a.check(ctx, "", snap)
		return len(snap.Members), err
	})
	return res, err
}

// List returns the names of stored documents.
func (a *Archive) List(ctx context.Context) ([]string, error) {
	var names []string
	err := a.run(ctx, OpList, "", func(ctx context.Context) (int, error) {
		var err error
		names, err = a.store.ListDocuments(ctx)
		if err != nil {
			return 0, persistErr(OpList, "", err)
		}
		return 0, nil
	})
	return names, err
}

func (a *Archive) check(ctx context.Context, location string, snap domain.Snapshot) (Result, error) {
	res, err := a.engine.Evaluate(ctx, domain.NewSnapshotView(snap))
	if err != nil {
		return Result{}, err
	}
	for _, v := range res.Violations {
		switch v.Severity {
		case domain.SeverityBlock:
			a.logger.Warn("integrity violation", "document", location, "rule", v.Rule, "member", v.MemberID, "message", v.Message)
		case domain.SeverityWarn:
			a.logger.Info("integrity warning", "document", location, "rule", v.Rule, "member", v.MemberID, "message", v.Message)
		default:
			a.logger.Debug("integrity note", "document", location, "rule", v.Rule, "member", v.MemberID, "message", v.Message)
		}
	}
	if res.HasBlocking() {
		return res, domain.RuleViolationError{Result: res}
	}
	return res, nil
}

func (a *Archive) run(ctx context.Context, op, location string, fn func(context.Context) (int, error)) error {
	ctx, span := a.tracer.Start(ctx, op)
	start := a.clock.Now()
	members, err := fn(ctx)
	elapsed := a.clock.Now().Sub(start)
	a.metrics.Observe(ctx, op, err == nil, elapsed)
	span.End(err)
	attrs := []any{"operation", op, "driver", string(a.store.Driver()), "duration", elapsed}
	if location != "" {
		attrs = append(attrs, "document", location)
	}
	if err != nil {
		a.logger.Error("archive operation failed", append(attrs, "error", err)...)
		return err
	}
	switch op {
	case OpSave, OpLoad:
		a.logger.Info("archive operation completed", append(attrs, "members", members)...)
	default:
		a.logger.Debug("archive operation completed", attrs...)
	}
	return nil
}

func persistErr(op, location string, err error) error {
	return &domain.PersistenceError{Op: op, Location: location, Err: err}
}
