// Package modelio stores program models as msgpack snapshots, so a model
// built once by a loader can be projected later without the loader.
package modelio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"projector/internal/model"
)

// SchemaVersion is bumped whenever the snapshot layout changes.
const SchemaVersion uint16 = 1

var (
	// ErrBadSnapshot reports a snapshot that cannot be turned back into a
	// consistent model.
	ErrBadSnapshot = errors.New("modelio: bad snapshot")
	// ErrSchema reports a snapshot written by another schema version.
	ErrSchema = fmt.Errorf("%w: schema version mismatch", ErrBadSnapshot)
	// ErrUnsupportedValue reports a constant of a Go type snapshots cannot hold.
	ErrUnsupportedValue = errors.New("modelio: unsupported constant value")
)

// Snapshot is the on-disk payload.
type Snapshot struct {
	Schema uint16
	Arena  model.Arena
	Values []Value
}

// Encode writes m to w.
func Encode(w io.Writer, m *model.Model) error {
	tab := &valueTable{}
	arena := m.Arena()
	err := rewriteValues(&arena, func(v any) (any, error) {
		ref, err := tab.add(v)
		if err != nil || ref == 0 {
			return nil, err
		}
		return ref, nil
	})
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	snap := Snapshot{Schema: SchemaVersion, Arena: arena, Values: tab.values}
	if err := msgpack.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("modelio: encode: %w", err)
	}
	return bw.Flush()
}

// Decode reads a model written by Encode.
func Decode(r io.Reader) (*model.Model, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(bufio.NewReader(r)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	if snap.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, snap.Schema, SchemaVersion)
	}
	tab := &valueTable{values: snap.Values}
	err := rewriteValues(&snap.Arena, func(v any) (any, error) {
		ref, err := slotRef(v)
		if err != nil {
			return nil, err
		}
		return tab.get(ref, 0)
	})
	if err != nil {
		return nil, err
	}
	m, err := model.FromArena(snap.Arena)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSnapshot, err)
	}
	return m, nil
}

// SaveFile writes m to path, replacing the file atomically.
func SaveFile(path string, m *model.Model) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*.mp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = Encode(f, m); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// LoadFile reads a snapshot file.
func LoadFile(path string) (*model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	m, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// rewriteValues replaces every constant slot of a through fn. Slices
// holding slots are copied first, so an arena sharing backing arrays
// with a live model leaves the model untouched.
func rewriteValues(a *model.Arena, fn func(any) (any, error)) error {
	var err error
	for i := range a.Defs {
		if a.Defs[i].Attributes, err = rewriteAttrs(a.Defs[i].Attributes, fn); err != nil {
			return err
		}
	}
	for i := range a.TypeParams {
		if a.TypeParams[i].Attributes, err = rewriteAttrs(a.TypeParams[i].Attributes, fn); err != nil {
			return err
		}
	}
	for i := range a.Entities {
		e := &a.Entities[i]
		if e.Attributes, err = rewriteAttrs(e.Attributes, fn); err != nil {
			return err
		}
		if e.Constant, err = fn(e.Constant); err != nil {
			return fmt.Errorf("constant of %s: %w", e.Name, err)
		}
		if e.Parameters != nil {
			params := make([]model.Parameter, len(e.Parameters))
			for j, p := range e.Parameters {
				if p.Default, err = fn(p.Default); err != nil {
					return fmt.Errorf("default of %s.%s: %w", e.Name, p.Name, err)
				}
				if p.Attributes, err = rewriteAttrs(p.Attributes, fn); err != nil {
					return err
				}
				params[j] = p
			}
			e.Parameters = params
		}
		if e.ParamRecords != nil {
			recs := make([]model.ParamRecord, len(e.ParamRecords))
			for j, rec := range e.ParamRecords {
				if rec.Default, err = fn(rec.Default); err != nil {
					return fmt.Errorf("default of %s.%s: %w", e.Name, rec.Name, err)
				}
				if rec.Attributes, err = rewriteAttrs(rec.Attributes, fn); err != nil {
					return err
				}
				recs[j] = rec
			}
			e.ParamRecords = recs
		}
	}
	return nil
}

func rewriteAttrs(attrs []model.Attribute, fn func(any) (any, error)) ([]model.Attribute, error) {
	if attrs == nil {
		return nil, nil
	}
	out := make([]model.Attribute, len(attrs))
	for i, a := range attrs {
		var err error
		if a.Fixed != nil {
			fixed := make([]model.TypedValue, len(a.Fixed))
			for j, v := range a.Fixed {
				if v.Value, err = fn(v.Value); err != nil {
					return nil, fmt.Errorf("attribute argument %d: %w", j, err)
				}
				fixed[j] = v
			}
			a.Fixed = fixed
		}
		if a.Named != nil {
			named := make([]model.NamedValue, len(a.Named))
			for j, nv := range a.Named {
				if nv.Value.Value, err = fn(nv.Value.Value); err != nil {
					return nil, fmt.Errorf("attribute argument %s: %w", nv.Name, err)
				}
				named[j] = nv
			}
			a.Named = named
		}
		out[i] = a
	}
	return out, nil
}
