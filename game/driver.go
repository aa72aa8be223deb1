package game

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/arclight/lightning"
)

// Driver advances every registered bolt once per tick.
type Driver struct {
	registry *Registry

	// OnUpdate, if set, runs after each bolt update with its result.
	OnUpdate func(b *lightning.Bolt, err error)
}

// NewDriver creates a driver over r.
func NewDriver(r *Registry) *Driver {
	return &Driver{registry: r}
}

// Tick updates every bolt in registration order. A failing bolt does not stop
// the others; their errors are joined.
func (d *Driver) Tick() error {
	var errs []error
	for _, b := range d.registry.bolts {
		err := b.Update()
		if d.OnUpdate != nil {
			d.OnUpdate(b, err)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("bolt %s: %w", b.ID(), err))
		}
	}
	return errors.Join(errs...)
}
