package workflow

// PaymentPatternStates lists the pattern states in the order they are attempted
var PaymentPatternStates = []State{StateTryPattern1, StateTryPattern2, StateTryPattern3}

// NewPaymentExtraction configures the credit payment extraction workflow:
//
//	TRY_PATTERN_1 -MATCH-> DONE, -NO_MATCH-> TRY_PATTERN_2
//	TRY_PATTERN_2 -MATCH-> DONE, -NO_MATCH-> TRY_PATTERN_3
//	TRY_PATTERN_3 -MATCH-> DONE, -NO_MATCH-> FAILED
func NewPaymentExtraction() StateMachineBuilder {
	b := NewBuilder()
	for i, state := range PaymentPatternStates {
		next := StateFailed
		if i+1 < len(PaymentPatternStates) {
			next = PaymentPatternStates[i+1]
		}
		b.Configure(state).
			Permit(TriggerMatch, StateDone).
			Permit(TriggerNoMatch, next)
	}
	return b
}
