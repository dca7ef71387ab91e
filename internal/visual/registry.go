package visual

import (
	"slices"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"
)

// Visualizer draws one frame. Implementations keep their own animation
// state between calls.
type Visualizer interface {
	Render(c Canvas, f Frame)
}

type Factory func() Visualizer

// Registry maps visualizer names to factories in registration order.
type Registry struct {
	names     []string
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// DefaultRegistry holds the built in visualizers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("bars", func() Visualizer { return NewBars() })
	r.Register("scope", func() Visualizer { return NewScope() })
	r.Register("rings", func() Visualizer { return NewRings() })
	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	if _, ok := r.factories[name]; !ok {
		r.names = append(r.names, name)
	}
	r.factories[name] = f
}

func (r *Registry) Names() []string { return slices.Clone(r.names) }

// New builds the named visualizer.
func (r *Registry) New(name string) (Visualizer, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fault.New("unknown visualizer "+name, ftag.With(ftag.NotFound))
	}
	return f(), nil
}

// Next returns the name registered after name, wrapping around. An unknown
// name yields the first entry.
func (r *Registry) Next(name string) string {
	if len(r.names) == 0 {
		return ""
	}
	i := slices.Index(r.names, name)
	return r.names[(i+1)%len(r.names)]
}
