package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
)

type activationType string

const (
	relu     activationType = "relu"
	identity activationType = "identity"
	tanh     activationType = "tanh"
)

// activationFns maps the name of each Activation to its graph operation
var activationFns = map[activationType]func(*G.Node) (*G.Node, error){
	relu:     G.Rectify,
	tanh:     G.Tanh,
	identity: func(x *G.Node) (*G.Node, error) { return x, nil },
}

// Activation represents an elementwise activation function. Activations
// are encoded by name, both through gob and as text.
type Activation struct {
	activationType
	f func(x *G.Node) (*G.Node, error)
}

// ActivationFromString returns the Activation with the given name
func ActivationFromString(name string) (*Activation, error) {
	f, ok := activationFns[activationType(name)]
	if !ok {
		return nil, fmt.Errorf("illegal Activation type %q", name)
	}
	return &Activation{activationType(name), f}, nil
}

func mustActivation(t activationType) *Activation {
	a, err := ActivationFromString(string(t))
	if err != nil {
		panic(err)
	}
	return a
}

// Identity returns an identity *Activation
func Identity() *Activation { return mustActivation(identity) }

// ReLU returns a ReLU *Activation
func ReLU() *Activation { return mustActivation(relu) }

// TanH returns a tanh *Activation
func TanH() *Activation { return mustActivation(tanh) }

func (a *Activation) fwd(x *G.Node) (*G.Node, error) {
	return a.f(x)
}

// String implements the Stringer interface
func (a *Activation) String() string {
	return string(a.activationType)
}

// IsIdentity returns whether or not the Activation is the identity
// function.
func (a *Activation) IsIdentity() bool {
	return a.activationType == identity
}

// MarshalText implements the encoding.TextMarshaler interface
func (a *Activation) MarshalText() ([]byte, error) {
	return []byte(a.activationType), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (a *Activation) UnmarshalText(text []byte) error {
	decoded, err := ActivationFromString(string(text))
	if err != nil {
		return fmt.Errorf("unmarshalText: %v", err)
	}
	*a = *decoded
	return nil
}

// GobEncode implements the GobEncoder interface
func (a *Activation) GobEncode() ([]byte, error) {
	return a.MarshalText()
}

// GobDecode implements the GobDecoder interface
func (a *Activation) GobDecode(encoded []byte) error {
	return a.UnmarshalText(encoded)
}
