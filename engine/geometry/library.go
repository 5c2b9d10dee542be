package geometry

import (
	"errors"
	"fmt"
)

// ErrUnknownGeometry is returned when a geometry name has no registered producer.
var ErrUnknownGeometry = errors.New("geometry: unknown geometry")

// Producer builds a geometry on first use of its name.
type Producer func() Geometry

// Library resolves geometry names to shared instances. A name is produced once; every later
// Resolve returns the same geometry so its GPU buffers are shared.
type Library struct {
	producers map[string]Producer
	resolved  map[string]Geometry
}

// NewLibrary creates an empty Library.
//
// Returns:
//   - *Library: a new library
func NewLibrary() *Library {
	return &Library{
		producers: make(map[string]Producer),
		resolved:  make(map[string]Geometry),
	}
}

// DefaultLibrary creates a Library with the built in primitives registered as "Plane" and "Box".
//
// Returns:
//   - *Library: a new library
func DefaultLibrary() *Library {
	l := NewLibrary()
	l.Register("Plane", Plane)
	l.Register("Box", Box)
	return l
}

// Register binds a producer to a name, replacing any previous producer. An instance already
// resolved under that name is discarded.
//
// Parameters:
//   - name: the geometry name
//   - producer: the function that builds the geometry
func (l *Library) Register(name string, producer Producer) {
	l.producers[name] = producer
	delete(l.resolved, name)
}

// Resolve returns the geometry registered under name.
//
// Parameters:
//   - name: the geometry name
//
// Returns:
//   - Geometry: the shared instance
//   - error: ErrUnknownGeometry if nothing is registered under name
func (l *Library) Resolve(name string) (Geometry, error) {
	if g, ok := l.resolved[name]; ok {
		return g, nil
	}
	p, ok := l.producers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGeometry, name)
	}
	g := p()
	l.resolved[name] = g
	return g, nil
}
