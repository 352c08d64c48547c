package interp

// Class is a runtime class record: its name, its own method table (built
// once at class-declaration time and never mutated afterward), and an
// optional superclass reference for single inheritance.
type Class struct {
	Name       string
	Methods    map[string]*Function
	Superclass *Class
}

// NewClass constructs a Class record.
func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Methods: methods, Superclass: superclass}
}

// Type and String satisfy Value: a class prints as its bare name.
func (c *Class) Type() string   { return "CLASS" }
func (c *Class) String() string { return c.Name }

// FindMethod looks up name in this class's method table, recursing into
// the superclass chain on a miss. The first hit wins.
func (c *Class) FindMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

// Arity is the arity of the `init` method, if the class (or an ancestor)
// defines one, else 0.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance bound to this class; if the class (or
// an ancestor) defines `init`, it is bound to the instance and invoked
// with the call's arguments before the instance is returned.
func (c *Class) Call(i *Interpreter, args []Value) (Value, error) {
	instance := NewInstance(c)
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(instance).Call(i, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a runtime object: a reference to its class and its own
// field storage. Fields are added on first assignment.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// NewInstance constructs an Instance of class.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

// Type and String satisfy Value: an instance prints as "ClassName instance".
func (inst *Instance) Type() string   { return "INSTANCE" }
func (inst *Instance) String() string { return inst.Class.Name + " instance" }

// Get resolves a property read: a field shadows a method of the same
// name (Set always writes to Fields, so a Set can shadow a method name
// too). A method hit is bound to this instance before being returned, so
// stashing it in a variable or invoking it later still sees the same
// `this` as calling it directly.
func (inst *Instance) Get(name string) (Value, error) {
	if v, ok := inst.Fields[name]; ok {
		return v, nil
	}
	if m, ok := inst.Class.FindMethod(name); ok {
		return m.Bind(inst), nil
	}
	return nil, &RuntimeError{Message: "Undefined property '" + name + "'."}
}

// Set stores value under name in this instance's fields, overwriting any
// method shadow.
func (inst *Instance) Set(name string, value Value) {
	inst.Fields[name] = value
}
