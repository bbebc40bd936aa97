package container

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// DefaultFactoryMethod is called on a factory class when no method is given.
const DefaultFactoryMethod = "Create"

// Options are passed through Build to factories unchanged.
type Options map[string]any

// Factory builds a service on demand. It is called on every Build.
//
//	c.SetFactory("mailer", func(c *container.Container, name string, opts container.Options) (any, error) {
//	    return mail.NewSMTP(opts["host"].(string)), nil
//	})
type Factory func(c *Container, name string, opts Options) (any, error)

// ServiceFactory is implemented by factory classes that use the default
// method. Classes with other method names are invoked by reflection.
type ServiceFactory interface {
	Create(c *Container, name string, opts Options) (any, error)
}

var (
	containerType = reflect.TypeOf((*Container)(nil))
	optionsType   = reflect.TypeOf(Options(nil))
	mapType       = reflect.TypeOf(map[string]any(nil))
	errorType     = reflect.TypeOf((*error)(nil)).Elem()
)

// invokeClass instantiates class from the registry and calls method on it.
func invokeClass(c *Container, reg *ClassRegistry, class, method, name string, opts Options) (any, error) {
	ctor, ok := reg.Lookup(class)
	if !ok {
		return nil, errors.Errorf("factory class '%s' is not registered", class)
	}
	factory := ctor()
	if factory == nil {
		return nil, errors.Errorf("factory class '%s' constructor returned nil", class)
	}

	if method == DefaultFactoryMethod {
		if sf, ok := factory.(ServiceFactory); ok {
			return sf.Create(c, name, opts)
		}
	}

	fn, err := lookupMethod(factory, method)
	if err != nil {
		return nil, errors.Wrapf(err, "factory class '%s'", class)
	}
	return callMethod(fn, c, name, opts)
}

func lookupMethod(factory any, method string) (reflect.Value, error) {
	v := reflect.ValueOf(factory)
	fn := v.MethodByName(method)
	if !fn.IsValid() {
		fn = v.MethodByName(exported(method))
	}
	if !fn.IsValid() {
		return reflect.Value{}, errors.Errorf("method '%s' not found on %T", method, factory)
	}

	t := fn.Type()
	if t.NumIn() != 3 || t.In(0) != containerType || t.In(1).Kind() != reflect.String ||
		(t.In(2) != optionsType && t.In(2) != mapType) {
		return reflect.Value{}, errors.Errorf("method '%s' on %T has signature %s", method, factory, t)
	}
	switch t.NumOut() {
	case 1:
	case 2:
		if t.Out(1) != errorType {
			return reflect.Value{}, errors.Errorf("method '%s' on %T must return (any, error)", method, factory)
		}
	default:
		return reflect.Value{}, errors.Errorf("method '%s' on %T has signature %s", method, factory, t)
	}
	return fn, nil
}

func callMethod(fn reflect.Value, c *Container, name string, opts Options) (any, error) {
	t := fn.Type()
	optsArg := reflect.ValueOf(opts)
	if t.In(2) == mapType {
		optsArg = reflect.ValueOf(map[string]any(opts))
	}
	out := fn.Call([]reflect.Value{
		reflect.ValueOf(c),
		reflect.ValueOf(name).Convert(t.In(1)),
		optsArg,
	})
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

// exported upper-cases the first rune so "create" finds Create.
func exported(method string) string {
	if method == "" {
		return method
	}
	r := []rune(method)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// ObjectFactory instantiates the class named by opts["class"], or by the
// service name when no class option is given.
//
//	container.DefaultClasses.Register("Clock", func() any { return &SystemClock{} })
//	c.SetFactoryClass("Clock", "ObjectFactory")
//	clock, _ := c.Build("Clock", nil)
type ObjectFactory struct{}

func (ObjectFactory) Create(c *Container, name string, opts Options) (any, error) {
	class := name
	if v, ok := opts["class"]; ok {
		s, isString := v.(string)
		if !isString || strings.TrimSpace(s) == "" {
			return nil, errors.Errorf("option 'class' must be a non-empty string, got %T", v)
		}
		class = s
	}
	ctor, ok := c.Classes().Lookup(class)
	if !ok {
		return nil, errors.Errorf("class '%s' is not registered", class)
	}
	obj := ctor()
	if obj == nil {
		return nil, errors.Errorf("class '%s' constructor returned nil", class)
	}
	return obj, nil
}
