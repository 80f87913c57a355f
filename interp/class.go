package interp

import "fmt"

// Class is a Lox class: a name, an optional superclass, and a method
// table.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

// FindMethod looks up name on c, then walks the superclass chain —
// the same shape as Environment's enclosing-scope walk, one level per
// "is-a" link instead of one level per lexical block.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

func (c *Class) String() string { return c.Name }

// Arity defers to init()'s arity, or zero when the class declares no
// initializer.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call instantiates c and, if it (or an ancestor) declares init,
// runs it bound to the new instance. A class is its own constructor.
func (c *Class) Call(it *Interpreter, args []interface{}) (interface{}, error) {
	instance := &Instance{Class: c, Fields: make(map[string]interface{})}
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(it, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a live object: its class plus its own field bindings.
type Instance struct {
	Class  *Class
	Fields map[string]interface{}
}

func (i *Instance) String() string { return fmt.Sprintf("%s instance", i.Class.Name) }

// Get reads a field first, then falls back to a method bound to this
// instance. Property access and method access share one namespace in
// Lox, so a field can shadow a method of the same name.
func (i *Instance) Get(name string) (interface{}, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m, ok := i.Class.FindMethod(name); ok {
		return m.Bind(i), true
	}
	return nil, false
}

// Set always writes to the instance's own fields; Lox has no
// field declarations to validate against.
func (i *Instance) Set(name string, value interface{}) {
	i.Fields[name] = value
}
