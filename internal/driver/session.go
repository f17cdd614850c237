// Package driver projects whole types: a declaration header plus every
// member, in one scope taken from the configuration. Sessions share one
// read-only model; each projection runs on its own Builder.
package driver

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"projector/internal/astbuild"
	"projector/internal/config"
	"projector/internal/diag"
	"projector/internal/metadata"
	"projector/internal/model"
	"projector/internal/resolve"
	"projector/internal/trace"
)

// ErrUnknownSubject reports a type or member name that names nothing.
var ErrUnknownSubject = errors.New("driver: unknown type or member")

// Session binds a model to a configuration.
type Session struct {
	model   *model.Model
	members *metadata.Members
	cfg     *config.Config
	chain   resolve.Chain
	report  diag.Reporter
	tracer  trace.Tracer
}

// NewSession resolves the configured scope against m. A nil cfg means
// config.Default(); a nil reporter drops diagnostics.
func NewSession(m *model.Model, cfg *config.Config, reporter diag.Reporter) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	s := &Session{
		model:   m,
		members: metadata.NewMembers(m),
		cfg:     cfg,
		report:  diag.NewDedupReporter(reporter),
		tracer:  trace.Nop,
	}
	chain, err := cfg.Scope.Chain(m)
	if err != nil {
		diag.ReportError(s.report, diag.CfgUnknownAlias, diag.Subject{}, err.Error()).Emit()
		return nil, err
	}
	s.chain = chain
	return s, nil
}

// WithTracer sets the tracer handed to builders.
func (s *Session) WithTracer(t trace.Tracer) *Session {
	if t == nil {
		t = trace.Nop
	}
	s.tracer = t
	return s
}

// Model returns the session's model.
func (s *Session) Model() *model.Model { return s.model }

// Config returns the session's configuration.
func (s *Session) Config() *config.Config { return s.cfg }

// Context returns a resolution context at the configured scope.
func (s *Session) Context() resolve.Context {
	return resolve.NewContext(s.model, s.members, s.chain)
}

// Builder returns a fresh builder; builders are not shared between
// goroutines.
func (s *Session) Builder() *astbuild.Builder {
	return astbuild.New(s.members, s.Context(), s.cfg.Options).
		WithReporter(s.report).
		WithTracer(s.tracer)
}

// Subject is what a name given on the command line refers to.
type Subject struct {
	Type    model.TypeID
	Members []model.EntityID // empty when the name is a type
}

// FindSubject resolves "Ns.Type`1", "Ns.Outer+Inner" or "Ns.Type.Member".
// A member name selects every overload.
func (s *Session) FindSubject(name string) (Subject, error) {
	if id, ok := config.FindTypeByName(s.model, name); ok {
		return Subject{Type: id}, nil
	}
	dot := strings.LastIndexByte(name, '.')
	if dot > 0 {
		if owner, ok := config.FindTypeByName(s.model, name[:dot]); ok {
			d, _ := s.model.Definition(owner)
			var found []model.EntityID
			for _, id := range d.Members {
				if e, ok := s.model.Entity(id); ok && e.Name == name[dot+1:] {
					found = append(found, id)
				}
			}
			if len(found) > 0 {
				return Subject{Type: owner, Members: found}, nil
			}
		}
	}
	err := fmt.Errorf("%w: %q", ErrUnknownSubject, name)
	diag.ReportError(s.report, diag.CfgUnknownSubject, diag.Subject{Name: name}, err.Error()).Emit()
	return Subject{}, err
}

// TopLevelTypes returns the top-level definitions of ns and of every
// namespace below it, ordered by full name. An empty ns selects all.
func (s *Session) TopLevelTypes(ns string) []model.TypeID {
	var out []model.TypeID
	var walk func(cur string)
	walk = func(cur string) {
		out = append(out, s.model.TypesIn(cur)...)
		for _, child := range s.model.ChildNamespaces(cur) {
			if cur == "" {
				walk(child)
			} else {
				walk(cur + "." + child)
			}
		}
	}
	if ns == "" || s.model.NamespaceExists(ns) {
		walk(ns)
	}
	slices.SortFunc(out, func(a, b model.TypeID) int {
		return strings.Compare(s.model.FullName(a), s.model.FullName(b))
	})
	return out
}
