package formatter

import (
	"iter"

	"github.com/Alia5/bbgen/internal/blackboard"
)

// MessageUse is a message that applies to a section, with the reason it applies.
type MessageUse struct {
	Message *blackboard.Message
	Tx      bool // the section transmits the message
	Rx      bool // the section receives the message
}

type VariableUse struct {
	Message  *blackboard.Message
	Variable *blackboard.Variable
	Tx       bool
	Rx       bool
}

// Messages yields, in declaration order, every message that section sends or
// receives. With all set, every message is yielded regardless.
func Messages(bb *blackboard.Blackboard, section string, all bool) iter.Seq[MessageUse] {
	return func(yield func(MessageUse) bool) {
		for _, m := range bb.Messages {
			use := MessageUse{
				Message: m,
				Tx:      m.TransmittedBy(section),
				Rx:      m.ReceivedBy(section),
			}
			if !use.Tx && !use.Rx && !all {
				continue
			}
			if !yield(use) {
				return
			}
		}
	}
}

// Variables yields the variables of every message that section sends or
// receives. There is no "all" override at variable level.
func Variables(bb *blackboard.Blackboard, section string) iter.Seq[VariableUse] {
	return func(yield func(VariableUse) bool) {
		for use := range Messages(bb, section, false) {
			for _, v := range use.Message.Variables {
				if !yield(VariableUse{Message: use.Message, Variable: v, Tx: use.Tx, Rx: use.Rx}) {
					return
				}
			}
		}
	}
}
