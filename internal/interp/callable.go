package interp

import (
	"github.com/gophlox/glox/internal/ast"
	"github.com/gophlox/glox/internal/token"
)

// Callable is the contract shared by native functions, user-defined
// functions, and classes invoked as constructors.
type Callable interface {
	Value
	arity() int
	call(i *Interpreter, args []Value) Value
}

// NativeFn is a built-in implemented in Go rather than Lox, such as clock().
type NativeFn struct {
	name string
	fn   func(i *Interpreter, args []Value) Value
	ar   int
}

func (*NativeFn) isValue() {}
func (n *NativeFn) arity() int { return n.ar }
func (n *NativeFn) call(i *Interpreter, args []Value) Value {
	return n.fn(i, args)
}

// UserFn is a Lox function or method: its declaration plus the environment
// it closed over at the point it was declared.
type UserFn struct {
	declaration   *ast.Function
	closure       *Environment
	isInitializer bool
}

func (*UserFn) isValue() {}

func (f *UserFn) arity() int { return len(f.declaration.Params) }

// call builds a fresh environment rooted at the closure, binds each
// parameter, and executes the body there. A `return` unwinds via
// returnSignal; an initializer's result is always the bound `this`,
// regardless of how the body returned.
func (f *UserFn) call(i *Interpreter, args []Value) (result Value) {
	env := NewEnclosedEnvironment(f.closure)
	for idx, param := range f.declaration.Params {
		env.define(param.Lexeme, args[idx])
	}

	result = Nil{}
	defer func() {
		if r := recover(); r != nil {
			ret, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			result = ret.value
		}
		if f.isInitializer {
			result = f.closure.getAt(0, "this")
		}
	}()

	i.executeBlock(f.declaration.Body, env)
	return result
}

// bind returns a new UserFn sharing the declaration and initializer flag but
// whose closure is a fresh environment extending the original closure with
// "this" bound to instance.
func (f *UserFn) bind(instance *InstanceRef) *UserFn {
	env := NewEnclosedEnvironment(f.closure)
	env.define("this", instance)
	return &UserFn{declaration: f.declaration, closure: env, isInitializer: f.isInitializer}
}

// ClassRef is a Lox class: a name, an optional superclass, and its own
// (unbound) method table.
type ClassRef struct {
	name       string
	superclass *ClassRef
	methods    map[string]*UserFn
}

func (*ClassRef) isValue() {}

// findMethod searches this class's own methods, then its superclass chain.
func (c *ClassRef) findMethod(name string) (*UserFn, bool) {
	if fn, ok := c.methods[name]; ok {
		return fn, true
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil, false
}

// arity is the initializer's arity if the class defines one, else 0.
func (c *ClassRef) arity() int {
	if init, ok := c.findMethod("init"); ok {
		return init.arity()
	}
	return 0
}

// call constructs a fresh instance, runs its initializer (if any) against
// args, and returns the instance.
func (c *ClassRef) call(i *Interpreter, args []Value) Value {
	instance := &InstanceRef{class: c, fields: make(map[string]Value)}
	if init, ok := c.findMethod("init"); ok {
		init.bind(instance).call(i, args)
	}
	return instance
}

// InstanceRef is a runtime instance of a ClassRef: mutable fields, methods
// resolved through the class.
type InstanceRef struct {
	class  *ClassRef
	fields map[string]Value
}

func (*InstanceRef) isValue() {}

// get reads a field if present, else binds and returns a method, else raises
// the "undefined property" runtime error.
func (inst *InstanceRef) get(name token.Token) (Value, error) {
	if v, ok := inst.fields[name.Lexeme]; ok {
		return v, nil
	}
	if method, ok := inst.class.findMethod(name.Lexeme); ok {
		return method.bind(inst), nil
	}
	return nil, &RuntimeError{Token: name, Message: "Undefined property '" + name.Lexeme + "'."}
}

func (inst *InstanceRef) set(name token.Token, value Value) {
	inst.fields[name.Lexeme] = value
}
