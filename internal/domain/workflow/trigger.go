package workflow

// Trigger is the outcome reported by the current state's work
type Trigger string

const (
	TriggerMatch   Trigger = "MATCH"
	TriggerNoMatch Trigger = "NO_MATCH"
)

func (t Trigger) String() string {
	return string(t)
}
