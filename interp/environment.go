package interp

import (
	"fmt"

	"github.com/loxlang/golox/token"
)

// Environment is a single lexical scope's variable bindings, chained
// to its enclosing scope. A function captures its defining
// *Environment by reference (never a copy), which is what makes a
// closure see later mutations to a captured variable instead of a
// frozen snapshot of it.
type Environment struct {
	values    map[string]interface{}
	enclosing *Environment
}

// NewEnvironment creates a scope nested inside enclosing, or a root
// scope when enclosing is nil.
func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{values: make(map[string]interface{}), enclosing: enclosing}
}

// Define binds name in this scope, overwriting any existing binding.
// Lox allows redeclaring globals and block locals alike; the resolver
// is the only place redeclaration is rejected (and only for locals).
func (e *Environment) Define(name string, value interface{}) {
	e.values[name] = value
}

// Get reads name, walking outward through enclosing scopes. Used only
// for globals and any reference the resolver left out of its side
// table (i.e. anything not found lexically, resolved dynamically).
func (e *Environment) Get(name token.Token) (interface{}, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// Assign updates an existing binding for name, walking outward to find
// the scope that owns it, without ever creating a new one.
func (e *Environment) Assign(name token.Token, value interface{}) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}
	return &RuntimeError{Token: name, Message: fmt.Sprintf("Undefined variable '%s'.", name.Lexeme)}
}

// GetAt reads name exactly distance scopes out, per the resolver's
// side table. No existence check against the resolver's judgment:
// resolution already proved the binding is there.
func (e *Environment) GetAt(distance int, name string) interface{} {
	return e.ancestor(distance).values[name]
}

// AssignAt mirrors GetAt for writes.
func (e *Environment) AssignAt(distance int, name token.Token, value interface{}) {
	e.ancestor(distance).values[name.Lexeme] = value
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}
