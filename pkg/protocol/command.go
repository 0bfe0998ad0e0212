package protocol

// Operator is one of the four protocol operators.
type Operator byte

const (
	// OpQuery requests the current value ('?').
	OpQuery Operator = '?'

	// OpIncrement steps the value up by the device-defined increment ('+').
	OpIncrement Operator = '+'

	// OpDecrement steps the value down by the device-defined increment ('-').
	OpDecrement Operator = '-'

	// OpAssign sets the value ('=').
	OpAssign Operator = '='
)

// String returns the operator name.
func (o Operator) String() string {
	switch o {
	case OpQuery:
		return "QUERY"
	case OpIncrement:
		return "INCREMENT"
	case OpDecrement:
		return "DECREMENT"
	case OpAssign:
		return "ASSIGN"
	default:
		return "UNKNOWN"
	}
}

// ValueType identifies how a command's value is typed.
type ValueType uint8

const (
	// TypeString passes the textual value through unchanged.
	TypeString ValueType = iota

	// TypeBool maps the Off/On pair to a Go bool.
	TypeBool

	// TypeInt parses the value as a decimal integer.
	TypeInt

	// TypeFloat parses the value as a decimal float.
	TypeFloat
)

// String returns the value type name.
func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "STRING"
	case TypeBool:
		return "BOOL"
	case TypeInt:
		return "INT"
	case TypeFloat:
		return "FLOAT"
	default:
		return "UNKNOWN"
	}
}

// IntRange is a half-open integer range [Min, Max). Membership requires
// an integral value, mirroring the firmware's command tables.
type IntRange struct {
	Min int
	Max int
}

// Empty reports whether the range admits no value at all.
func (r IntRange) Empty() bool {
	return r.Min >= r.Max
}

// Contains reports whether v is an integral value within the range.
func (r IntRange) Contains(v float64) bool {
	if v != float64(int(v)) {
		return false
	}
	n := int(v)
	return n >= r.Min && n < r.Max
}

// Descriptor is the static metadata for one command.
type Descriptor struct {
	// Name is the dotted command identifier.
	Name string

	// Operators is the set of operators the command supports.
	Operators []Operator

	// Type is the command's value type.
	Type ValueType

	// Values is the discrete textual domain, if any. For TypeBool it is
	// always the two-element Off/On table indexed by truth value.
	Values []string

	// Range is the numeric domain, if any.
	Range *IntRange
}

// Supports reports whether the descriptor allows the operator.
func (d *Descriptor) Supports(op Operator) bool {
	for _, o := range d.Operators {
		if o == op {
			return true
		}
	}
	return false
}

// Constrained reports whether the command has a declared value domain.
func (d *Descriptor) Constrained() bool {
	return len(d.Values) > 0 || d.Range != nil
}

// Command names understood by the C338.
const (
	CmdMain           = "Main"
	CmdAnalogGain     = "Main.AnalogGain"
	CmdBrightness     = "Main.Brightness"
	CmdMute           = "Main.Mute"
	CmdPower          = "Main.Power"
	CmdVolume         = "Main.Volume"
	CmdBass           = "Main.Bass"
	CmdControlStandby = "Main.ControlStandby"
	CmdAutoStandby    = "Main.AutoStandby"
	CmdAutoSense      = "Main.AutoSense"
	CmdSource         = "Main.Source"
	CmdVersion        = "Main.Version"
	CmdModel          = "Main.Model"
)

// Textual boolean values as transmitted on the wire. Index 0 is false,
// index 1 is true.
const (
	MsgOff = "Off"
	MsgOn  = "On"
)

var (
	boolValues = []string{MsgOff, MsgOn}

	queryOnly    = []Operator{OpQuery}
	allOperators = []Operator{OpIncrement, OpDecrement, OpAssign, OpQuery}
)

// commands is the C338 command table.
var commands = map[string]*Descriptor{
	CmdMain: {
		Name:      CmdMain,
		Operators: queryOnly,
		Type:      TypeString,
	},
	// Reserved by the firmware: the empty range rejects every assigned
	// value. The valueless step and query forms still encode.
	CmdAnalogGain: {
		Name:      CmdAnalogGain,
		Operators: allOperators,
		Type:      TypeInt,
		Range:     &IntRange{Min: 0, Max: 0},
	},
	CmdBrightness: {
		Name:      CmdBrightness,
		Operators: allOperators,
		Type:      TypeInt,
		Range:     &IntRange{Min: 0, Max: 4},
	},
	CmdMute: {
		Name:      CmdMute,
		Operators: allOperators,
		Type:      TypeBool,
		Values:    boolValues,
	},
	CmdPower: {
		Name:      CmdPower,
		Operators: allOperators,
		Type:      TypeBool,
		Values:    boolValues,
	},
	CmdVolume: {
		Name:      CmdVolume,
		Operators: allOperators,
		Type:      TypeFloat,
		Range:     &IntRange{Min: -80, Max: 0},
	},
	CmdBass: {
		Name:      CmdBass,
		Operators: allOperators,
		Type:      TypeBool,
		Values:    boolValues,
	},
	CmdControlStandby: {
		Name:      CmdControlStandby,
		Operators: allOperators,
		Type:      TypeBool,
		Values:    boolValues,
	},
	CmdAutoStandby: {
		Name:      CmdAutoStandby,
		Operators: allOperators,
		Type:      TypeBool,
		Values:    boolValues,
	},
	CmdAutoSense: {
		Name:      CmdAutoSense,
		Operators: allOperators,
		Type:      TypeBool,
		Values:    boolValues,
	},
	CmdSource: {
		Name:      CmdSource,
		Operators: allOperators,
		Type:      TypeString,
		Values: []string{
			"Stream", "Wireless", "TV", "Phono",
			"Coax1", "Coax2", "Opt1", "Opt2",
		},
	},
	CmdVersion: {
		Name:      CmdVersion,
		Operators: queryOnly,
		Type:      TypeFloat,
	},
	CmdModel: {
		Name:      CmdModel,
		Operators: queryOnly,
		Type:      TypeString,
		Values:    []string{"NADC338"},
	},
}

// Lookup returns the descriptor for a command name.
func Lookup(name string) (*Descriptor, bool) {
	d, ok := commands[name]
	return d, ok
}

// Commands returns the names of all commands in the table.
func Commands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	return names
}

// SourceNames returns the enumerated input source list.
func SourceNames() []string {
	src := commands[CmdSource].Values
	out := make([]string, len(src))
	copy(out, src)
	return out
}
