package tileset

import "fmt"

// ModeKind is the persisted ordinal of a dimension mode.
type ModeKind int32

const (
	ModeFixed ModeKind = iota
	ModeVariable
)

func (k ModeKind) Valid() bool {
	return k == ModeFixed || k == ModeVariable
}

func (k ModeKind) String() string {
	switch k {
	case ModeFixed:
		return "fixed"
	case ModeVariable:
		return "variable"
	default:
		return fmt.Sprintf("ModeKind(%d)", int32(k))
	}
}

// Mode is the dimension mode of a tileset: either Fixed or Variable.
type Mode interface {
	Kind() ModeKind
	fmt.Stringer

	mode()
}

// Fixed tilesets hold tiles of one size, set at construction.
type Fixed struct {
	Width  int
	Height int
}

// Variable tilesets take the size of each tile when it is added.
type Variable struct{}

func (Fixed) Kind() ModeKind    { return ModeFixed }
func (Variable) Kind() ModeKind { return ModeVariable }

func (m Fixed) String() string  { return fmt.Sprintf("fixed %dx%d", m.Width, m.Height) }
func (Variable) String() string { return "variable" }

func (Fixed) mode()    {}
func (Variable) mode() {}
