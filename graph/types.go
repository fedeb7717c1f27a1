package graph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Type describes one kind of value an edge can carry. Edges compare types
// by identity: two edges are compatible only when they hold the same *Type,
// so every value kind must be registered exactly once and shared from there.
type Type struct {
	name      string
	ctyType   cty.Type
	construct func() cty.Value
}

// Name returns the registered name of the type.
func (t *Type) Name() string { return t.name }

// CtyType returns the declared value type. Signal types return cty.NilType.
func (t *Type) CtyType() cty.Type { return t.ctyType }

// IsSignal reports whether the type carries no value and edges of this type
// only transport a "changed" stamp.
func (t *Type) IsSignal() bool { return t.ctyType == cty.NilType }

// Default constructs a fresh default value for the type.
func (t *Type) Default() cty.Value {
	if t.construct != nil {
		return t.construct()
	}
	return zeroValue(t.ctyType)
}

// zeroValue picks a sensible construct-in-place value for a cty type.
// Non-primitive types start out null and rely on explicit defaults.
func zeroValue(ct cty.Type) cty.Value {
	switch ct {
	case cty.Number:
		return cty.Zero
	case cty.String:
		return cty.StringVal("")
	case cty.Bool:
		return cty.False
	default:
		return cty.NullVal(ct)
	}
}

// TypeRegistry owns every Type a host registers. A single registry must be
// shared by all modules that want their edges to interconnect.
type TypeRegistry struct {
	types map[string]*Type
}

// NewTypeRegistry creates an empty type registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]*Type)}
}

// Register registers a value kind under the given name with a zero-value
// default constructor. Registering the same name twice is a violation of
// the static setup contract and panics. Use cty.NilType for signal types.
func (r *TypeRegistry) Register(name string, ct cty.Type) *Type {
	return r.RegisterWithDefault(name, ct, nil)
}

// RegisterWithDefault registers a value kind with an explicit default
// constructor. The constructor runs once per disconnected input during
// finalize and once per connected output during instance initialization.
func (r *TypeRegistry) RegisterWithDefault(name string, ct cty.Type, construct func() cty.Value) *Type {
	if _, exists := r.types[name]; exists {
		panic(fmt.Sprintf("graph: type %q already registered", name))
	}
	t := &Type{name: name, ctyType: ct, construct: construct}
	r.types[name] = t
	return t
}

// Lookup returns the type registered under name.
func (r *TypeRegistry) Lookup(name string) (*Type, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("graph: type %q is not registered", name)
	}
	return t, nil
}

// MustGet is Lookup for registration-time code paths where a missing type
// means the host wired its modules together incorrectly.
func (r *TypeRegistry) MustGet(name string) *Type {
	t, err := r.Lookup(name)
	if err != nil {
		panic(err.Error())
	}
	return t
}
