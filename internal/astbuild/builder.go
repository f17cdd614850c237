// Package astbuild projects program-model facts into syntax trees: type
// references with the shortest name that still resolves to the same type,
// constants (enum flag combinations, special numeric values), attributes
// and whole member declarations.
//
// A Builder is a lightweight cursor. It holds options and a resolve.Context
// and is not safe for concurrent use; build one per goroutine over the
// shared model.
package astbuild

import (
	"errors"

	"projector/internal/diag"
	"projector/internal/metadata"
	"projector/internal/model"
	"projector/internal/resolve"
	"projector/internal/trace"
)

var (
	// ErrInvalidArgument reports a missing type or entity.
	ErrInvalidArgument = errors.New("astbuild: invalid argument")
	// ErrConstantMismatch reports a constant whose Go value does not fit
	// its declared type.
	ErrConstantMismatch = errors.New("astbuild: constant does not match declared type")
)

// Builder converts model facts to syntax.
type Builder struct {
	m       *model.Model
	members *metadata.Members
	ctx     resolve.Context
	opts    Options
	mode    resolve.Mode
	report  diag.Reporter
	tracer  trace.Tracer
}

// New creates a builder resolving names in ctx.
func New(members *metadata.Members, ctx resolve.Context, opts Options) *Builder {
	return &Builder{
		m:       members.Model(),
		members: members,
		ctx:     ctx,
		opts:    opts,
		mode:    opts.NameLookupMode,
		report:  diag.NopReporter{},
		tracer:  trace.Nop,
	}
}

// WithReporter sets the diagnostic sink.
func (b *Builder) WithReporter(r diag.Reporter) *Builder {
	if r == nil {
		r = diag.NopReporter{}
	}
	b.report = r
	return b
}

// WithTracer sets the tracer used for member-level events.
func (b *Builder) WithTracer(t trace.Tracer) *Builder {
	if t == nil {
		t = trace.Nop
	}
	b.tracer = t
	return b
}

// Reporter returns the diagnostic sink.
func (b *Builder) Reporter() diag.Reporter { return b.report }

// Options returns the builder's options.
func (b *Builder) Options() Options { return b.opts }

// Context returns the current resolution cursor.
func (b *Builder) Context() resolve.Context { return b.ctx }

// SetContext moves the resolution cursor.
func (b *Builder) SetContext(ctx resolve.Context) { b.ctx = ctx }

// inType runs fn with the cursor moved into t and restores it afterwards.
func (b *Builder) inType(t model.TypeID, fn func()) {
	saved := b.ctx
	b.ctx = b.ctx.WithType(t)
	defer func() { b.ctx = saved }()
	fn()
}

// inMember runs fn with the cursor moved into member e.
func (b *Builder) inMember(e model.EntityID, fn func()) {
	saved := b.ctx
	b.ctx = b.ctx.WithMember(e)
	defer func() { b.ctx = saved }()
	fn()
}

func (b *Builder) typeSubject(t model.TypeID) diag.Subject {
	return diag.TypeSubject(t, b.m.FullName(t))
}

func (b *Builder) entitySubject(id model.EntityID) diag.Subject {
	name := ""
	if e, ok := b.m.Entity(id); ok {
		name = e.Name
	}
	return diag.EntitySubject(id, name)
}
