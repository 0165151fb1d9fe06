package workflow

// State is a step of a pattern-matching workflow
type State string

// Payment extraction states. Each TRY state owns one amount/customer pattern.
const (
	StateTryPattern1 State = "TRY_PATTERN_1"
	StateTryPattern2 State = "TRY_PATTERN_2"
	StateTryPattern3 State = "TRY_PATTERN_3"
	StateDone        State = "DONE"
	StateFailed      State = "FAILED"
)

var validStates = map[State]bool{
	StateTryPattern1: true,
	StateTryPattern2: true,
	StateTryPattern3: true,
	StateDone:        true,
	StateFailed:      true,
}

var terminalStates = map[State]bool{
	StateDone:   true,
	StateFailed: true,
}

// IsTerminal returns true if no further transitions are allowed from the state
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is known
func (s State) IsValid() bool {
	return validStates[s]
}
