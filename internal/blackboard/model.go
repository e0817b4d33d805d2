// Package blackboard holds the schema object model of a CAN blackboard:
// sections, the messages they transmit, the variables packed into each
// message, and the routing of generated output to target files.
package blackboard

import (
	"fmt"
	"strings"
)

// Blackboard is the root of the model. It is built once by Build and is
// read-only afterwards.
type Blackboard struct {
	Sections     []*Section
	Messages     []*Message // every message, in declaration order
	Variables    []*Variable
	SectionFiles []SectionFile

	// BaseDir is the directory SectionFile paths are relative to.
	BaseDir string
}

type Section struct {
	Name     string
	Messages []*Message
}

// Message is a CAN message owned (transmitted) by exactly one section.
type Message struct {
	Index       int
	SectionName string
	Name        string
	Description string
	ID          uint32
	PeriodMs    int
	Tx          TxSpec
	Rx          RxSpec
	Callbacks   []Callback
	Variables   []*Variable

	GroupSize int
	GroupMask int
}

// FullName is the section-prefixed message name.
func (m *Message) FullName() string {
	return m.SectionName + "_" + m.Name
}

// SizeBits is the packed payload size of the message.
func (m *Message) SizeBits() int {
	total := 0
	for _, v := range m.Variables {
		total += v.SizeBits
	}
	return total
}

func (m *Message) SizeBytes() int {
	return m.SizeBits() / 8
}

// TransmittedBy reports whether section owns the message.
func (m *Message) TransmittedBy(section string) bool {
	return m.SectionName == section
}

// ReceivedBy reports whether section is listed as a receiver.
func (m *Message) ReceivedBy(section string) bool {
	for _, s := range m.Rx.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// CallbackFor returns the first callback bound to section. The second result
// is false when the message has no callback for that section.
func (m *Message) CallbackFor(section string) (Callback, bool) {
	for _, cb := range m.Callbacks {
		if cb.Section == section {
			return cb, true
		}
	}
	return Callback{}, false
}

// Variable is one field of a message payload.
type Variable struct {
	SubIndex       int
	Message        *Message
	Name           string
	Description    string
	SizeBits       int
	OffsetBits     int
	Units          string
	Signed         bool
	ResolutionBits int
}

// FullName is the variable name prefixed with the owning message's section.
func (v *Variable) FullName() string {
	return v.Message.SectionName + "_" + v.Name
}

func (v *Variable) SizeBytes() int   { return v.SizeBits / 8 }
func (v *Variable) OffsetBytes() int { return v.OffsetBits / 8 }

// FixedPoint reports whether the raw bits carry fractional resolution, in
// which case the normal representation of the value is floating point.
func (v *Variable) FixedPoint() bool {
	return v.ResolutionBits > 0
}

type TxSpec struct {
	Channels []string
}

type RxSpec struct {
	Sections []string
}

// Callback binds a function (and an optional context expression) to a
// message for one receiving section.
type Callback struct {
	Section string `json:"section" yaml:"section"`
	Fn      string `json:"fn" yaml:"fn"`
	Param   string `json:"param,omitempty" yaml:"param,omitempty"`
}

// SectionFile routes one generation pass: the output kind Type for Section
// is patched into Path.
type SectionFile struct {
	Section     string `json:"section" yaml:"section"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
	Path        string `json:"path" yaml:"path"`
}

func (b *Blackboard) Section(name string) *Section {
	for _, s := range b.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (b *Blackboard) String() string {
	var sb strings.Builder
	rule := strings.Repeat("*", 80) + "\n"

	sb.WriteString(rule)
	sb.WriteString("Messages\n")
	sb.WriteString(rule)
	for i, m := range b.Messages {
		fmt.Fprintf(&sb, "%d: Message %s\n", i+1, m)
		for _, v := range m.Variables {
			fmt.Fprintf(&sb, "      Variable %s\n", v)
		}
	}
	sb.WriteString("\n")
	sb.WriteString(rule)
	sb.WriteString("Variables\n")
	sb.WriteString(rule)
	for i, v := range b.Variables {
		fmt.Fprintf(&sb, "%d: Variable %s\n", i+1, v)
	}
	return sb.String()
}

func (m *Message) String() string {
	return fmt.Sprintf("%s id=0x%03X period=%dms bytes=%d tx=%v rx=%v",
		m.FullName(), m.ID, m.PeriodMs, m.SizeBytes(), m.Tx.Channels, m.Rx.Sections)
}

func (v *Variable) String() string {
	sign := "signed"
	if !v.Signed {
		sign = "unsigned"
	}
	return fmt.Sprintf("%s bits=%d offset=%d %s resolution=%d units=%q",
		v.FullName(), v.SizeBits, v.OffsetBits, sign, v.ResolutionBits, v.Units)
}
