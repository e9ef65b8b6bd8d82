package cache

import "fmt"

// Op is the kind of a memory access.
type Op int

// Memory access kinds.
const (
	OpLoad Op = iota
	OpStore
)

func (o Op) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// ParseOp converts the single-letter trace code ("l" or "s") into an Op.
func ParseOp(s string) (Op, error) {
	switch s {
	case "l":
		return OpLoad, nil
	case "s":
		return OpStore, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, s)
	}
}
