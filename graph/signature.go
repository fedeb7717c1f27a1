package graph

// Constructor builds a fresh behavior object for one Node.
type Constructor func() Behavior

// Destructor releases a behavior object when its Graph is closed.
type Destructor func(Behavior)

// Signature is the shared description of one node kind: its typed inputs
// and outputs in declaration order, the events it listens for, and how to
// build its behavior object. A Signature is built once during module
// registration and is immutable afterwards; it owns no node instances.
type Signature struct {
	moduleName string
	nodeName   string

	inputs    []*Type
	outputs   []*Type
	listeners []EventID

	construct Constructor
	destruct  Destructor
}

// NewSignature creates a signature for the node kind module/name.
func NewSignature(moduleName, nodeName string, construct Constructor, destruct Destructor) *Signature {
	return &Signature{
		moduleName: moduleName,
		nodeName:   nodeName,
		construct:  construct,
		destruct:   destruct,
	}
}

// ModuleName returns the name of the module the signature belongs to.
func (s *Signature) ModuleName() string { return s.moduleName }

// NodeName returns the node kind name within its module.
func (s *Signature) NodeName() string { return s.nodeName }

// AddInput appends an input edge declaration. Inputs are addressed by the
// position they were declared in.
func (s *Signature) AddInput(t *Type) { s.inputs = append(s.inputs, t) }

// AddOutput appends an output edge declaration.
func (s *Signature) AddOutput(t *Type) { s.outputs = append(s.outputs, t) }

// AddListener appends a listener declaration for the given event.
func (s *Signature) AddListener(event EventID) { s.listeners = append(s.listeners, event) }

// Inputs returns the declared input types in order.
func (s *Signature) Inputs() []*Type { return s.inputs }

// Outputs returns the declared output types in order.
func (s *Signature) Outputs() []*Type { return s.outputs }

// Listeners returns the declared listener events in order.
func (s *Signature) Listeners() []EventID { return s.listeners }
