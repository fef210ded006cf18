package machine

// Bit is a tri-state sensor reading. A reading that could not be obtained
// or parsed is BitUnknown, which is distinct from a confirmed BitOff.
type Bit int

const (
	BitUnknown Bit = iota
	BitOff
	BitOn
)

func (b Bit) String() string {
	switch b {
	case BitOff:
		return "OFF"
	case BitOn:
		return "ON"
	default:
		return "UNKNOWN"
	}
}

// Not inverts a reading. The negation of an unknown reading is still unknown.
func (b Bit) Not() Bit {
	switch b {
	case BitOff:
		return BitOn
	case BitOn:
		return BitOff
	default:
		return BitUnknown
	}
}

// On reports whether the reading is a confirmed ON.
func (b Bit) On() bool {
	return b == BitOn
}
