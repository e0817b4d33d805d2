package blackboard

import (
	"fmt"
	"slices"
)

// Limits of the generated C runtime and of classical CAN.
const (
	MaxStandardID = 0x7FF
	MaxPayload    = 8 // bytes
	MaxDataItems  = 4 // CANMsgInfo_T.data_info capacity
)

// LintIssue is one finding of Lint, at level "error" or "warn".
type LintIssue struct {
	Message   string `json:"message,omitempty" yaml:"message,omitempty"`
	Variable  string `json:"variable,omitempty" yaml:"variable,omitempty"`
	LintLevel string `json:"lint-level" yaml:"lint-level"`
	LintName  string `json:"lint-name" yaml:"lint-name"`
	Detail    string `json:"detail" yaml:"detail"`
}

func (i LintIssue) String() string {
	where := i.Message
	if i.Variable != "" {
		where += "." + i.Variable
	}
	return fmt.Sprintf("[%s] %s: %s (%s)", i.LintLevel, where, i.Detail, i.LintName)
}

// Lint reports layouts that Build accepts but the generated code or the bus
// cannot represent faithfully.
func Lint(bb *Blackboard) []LintIssue {
	issues := []LintIssue{}

	sections := map[string]bool{}
	for _, s := range bb.Sections {
		sections[s.Name] = true
	}

	byID := map[uint32]*Message{}
	for _, m := range bb.Messages {
		if prev, ok := byID[m.ID]; ok {
			issues = append(issues, messageIssue(m, "error", "duplicate-id",
				fmt.Sprintf("identifier 0x%03X already used by %s", m.ID, prev.FullName())))
		} else {
			byID[m.ID] = m
		}
		issues = append(issues, lintMessage(m, sections)...)
	}

	issues = append(issues, lintCallbackNames(bb)...)
	return issues
}

func lintMessage(m *Message, sections map[string]bool) []LintIssue {
	var issues []LintIssue

	if m.ID > MaxStandardID {
		issues = append(issues, messageIssue(m, "warn", "id-range",
			fmt.Sprintf("identifier 0x%X does not fit an 11-bit standard identifier", m.ID)))
	}
	if m.SizeBytes() > MaxPayload {
		issues = append(issues, messageIssue(m, "error", "payload-size",
			fmt.Sprintf("payload is %d bytes, classical CAN carries at most %d", m.SizeBytes(), MaxPayload)))
	}
	if len(m.Variables) > MaxDataItems {
		issues = append(issues, messageIssue(m, "error", "data-items",
			fmt.Sprintf("%d variables declared, the descriptor table holds %d", len(m.Variables), MaxDataItems)))
	}
	if len(m.Tx.Channels) == 0 {
		issues = append(issues, messageIssue(m, "warn", "empty-tx",
			"no transmit channel declared, the owner will never send it"))
	}
	for _, rx := range m.Rx.Sections {
		if !sections[rx] {
			issues = append(issues, messageIssue(m, "warn", "unknown-rx-section",
				fmt.Sprintf("receiving section %q is not declared", rx)))
		}
	}
	for _, cb := range m.Callbacks {
		if !sections[cb.Section] {
			issues = append(issues, messageIssue(m, "warn", "unknown-callback-section",
				fmt.Sprintf("callback %q bound to undeclared section %q", cb.Fn, cb.Section)))
			continue
		}
		if !m.TransmittedBy(cb.Section) && !m.ReceivedBy(cb.Section) {
			issues = append(issues, messageIssue(m, "warn", "unknown-callback-section",
				fmt.Sprintf("callback %q bound to section %q which neither sends nor receives the message", cb.Fn, cb.Section)))
		}
	}

	for _, v := range m.Variables {
		switch v.SizeBits {
		case 8, 16, 32:
		default:
			issues = append(issues, variableIssue(v, "error", "accessor-width",
				fmt.Sprintf("size %d bits has no accessor, expected 8, 16 or 32", v.SizeBits)))
		}
		if v.OffsetBits%8 != 0 {
			issues = append(issues, variableIssue(v, "error", "alignment",
				fmt.Sprintf("bit offset %d is not byte aligned", v.OffsetBits)))
		}
	}
	return issues
}

// lintCallbackNames flags a function bound by more than one message of the
// same section; the default stubs would then be defined twice.
func lintCallbackNames(bb *Blackboard) []LintIssue {
	var issues []LintIssue
	seen := map[string][]string{} // section -> fns
	for _, m := range bb.Messages {
		for _, cb := range m.Callbacks {
			if cb.Fn == "" {
				continue
			}
			// Only the first callback per section is ever bound.
			if bound, _ := m.CallbackFor(cb.Section); bound != cb {
				continue
			}
			if slices.Contains(seen[cb.Section], cb.Fn) {
				issues = append(issues, messageIssue(m, "warn", "duplicate-callback",
					fmt.Sprintf("function %q already bound in section %s", cb.Fn, cb.Section)))
				continue
			}
			seen[cb.Section] = append(seen[cb.Section], cb.Fn)
		}
	}
	return issues
}

func messageIssue(m *Message, level, name, detail string) LintIssue {
	return LintIssue{Message: m.FullName(), LintLevel: level, LintName: name, Detail: detail}
}

func variableIssue(v *Variable, level, name, detail string) LintIssue {
	return LintIssue{Message: v.Message.FullName(), Variable: v.Name, LintLevel: level, LintName: name, Detail: detail}
}
