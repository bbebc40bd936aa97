package container

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// ClassRegistry maps factory class names to constructors, standing in for
// runtime class lookup. SetFactoryClass stores only the name; the class is
// looked up here when the service is built.
type ClassRegistry struct {
	mu      sync.RWMutex
	classes map[string]func() any
}

// DefaultClasses is used by containers created without WithClassRegistry.
var DefaultClasses = NewClassRegistry()

func init() {
	DefaultClasses.MustRegister("ObjectFactory", func() any { return ObjectFactory{} })
}

// NewClassRegistry creates an empty registry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{classes: make(map[string]func() any)}
}

// Register binds class to ctor, replacing any previous constructor.
func (r *ClassRegistry) Register(class string, ctor func() any) error {
	if class == "" {
		return errors.New("class name cannot be empty")
	}
	if ctor == nil {
		return errors.Errorf("class '%s': constructor cannot be nil", class)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes[class] = ctor
	return nil
}

// MustRegister is Register for init-time wiring; it panics on error.
func (r *ClassRegistry) MustRegister(class string, ctor func() any) {
	if err := r.Register(class, ctor); err != nil {
		panic("container: " + err.Error())
	}
}

// Lookup returns the constructor registered for class.
func (r *ClassRegistry) Lookup(class string) (func() any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.classes[class]
	return ctor, ok
}

// Classes returns the registered class names in sorted order.
func (r *ClassRegistry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.classes))
	for k := range r.classes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
