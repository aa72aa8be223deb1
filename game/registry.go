package game

import (
	"github.com/google/uuid"

	"github.com/pthm-cable/arclight/lightning"
	"github.com/pthm-cable/arclight/octfield"
)

// Registry owns every live bolt and field. Bolts are updated in registration
// order. It is not safe for concurrent use.
type Registry struct {
	bolts  []*lightning.Bolt
	fields []*octfield.Field
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// AddBolt registers a bolt for per-tick updates.
func (r *Registry) AddBolt(b *lightning.Bolt) {
	r.bolts = append(r.bolts, b)
}

// RemoveBolt destroys and unregisters the bolt with id.
func (r *Registry) RemoveBolt(id uuid.UUID) bool {
	for i, b := range r.bolts {
		if b.ID() != id {
			continue
		}
		b.Destroy()
		r.bolts = append(r.bolts[:i], r.bolts[i+1:]...)
		return true
	}
	return false
}

// Bolt looks up a bolt by id.
func (r *Registry) Bolt(id uuid.UUID) (*lightning.Bolt, bool) {
	for _, b := range r.bolts {
		if b.ID() == id {
			return b, true
		}
	}
	return nil, false
}

// Bolts returns the registered bolts in update order.
func (r *Registry) Bolts() []*lightning.Bolt {
	out := make([]*lightning.Bolt, len(r.bolts))
	copy(out, r.bolts)
	return out
}

// AddField registers a field.
func (r *Registry) AddField(f *octfield.Field) {
	r.fields = append(r.fields, f)
}

// RemoveField closes and unregisters the field with id.
func (r *Registry) RemoveField(id uuid.UUID) bool {
	for i, f := range r.fields {
		if f.ID() != id {
			continue
		}
		f.Close()
		r.fields = append(r.fields[:i], r.fields[i+1:]...)
		return true
	}
	return false
}

// Field looks up a field by id.
func (r *Registry) Field(id uuid.UUID) (*octfield.Field, bool) {
	for _, f := range r.fields {
		if f.ID() == id {
			return f, true
		}
	}
	return nil, false
}

// Fields returns the registered fields.
func (r *Registry) Fields() []*octfield.Field {
	out := make([]*octfield.Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Close destroys every bolt and closes every field.
func (r *Registry) Close() {
	for _, b := range r.bolts {
		b.Destroy()
	}
	for _, f := range r.fields {
		f.Close()
	}
	r.bolts = nil
	r.fields = nil
}
