package formatter

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Alia5/bbgen/internal/blackboard"
)

// Channel values of CanChannel_T in can_chan.h.
const (
	chanNone = "CAN_NONE"
	// Every received message is reported on the first channel; the
	// descriptor does not record which bus a message arrived on.
	chanRx = "CAN_CHAN1"
)

func tplFuncs() template.FuncMap {
	return template.FuncMap{
		"pad": pad,
	}
}

func pad(width int, v any) string {
	return fmt.Sprintf("%-*v", width, v)
}

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return sb.String(), nil
}

func cValueType(v *blackboard.Variable) string {
	if v.Signed {
		return fmt.Sprintf("int%d_t", v.SizeBits)
	}
	return fmt.Sprintf("uint%d_t", v.SizeBits)
}

// cNormalType is the type accessors expose: float for fixed-point values,
// the raw integer type otherwise.
func cNormalType(v *blackboard.Variable) string {
	if v.FixedPoint() {
		return "float32_T"
	}
	return cValueType(v)
}

// cSelector picks the bb_elem_{get,set}_<selector>_data accessor pair.
func cSelector(v *blackboard.Variable) string {
	if v.Signed {
		return fmt.Sprintf("int%d", v.SizeBits)
	}
	return fmt.Sprintf("uint%d", v.SizeBits)
}

func cReturnStatement(v *blackboard.Variable) string {
	if v.FixedPoint() {
		return fmt.Sprintf("return bb_utils_fixed%dToFloat(value, %dU);", v.SizeBits, v.ResolutionBits)
	}
	return "return value;"
}

func cConvertExpression(v *blackboard.Variable) string {
	if v.FixedPoint() {
		return fmt.Sprintf("bb_utils_floatToFixed%d(value, %dU)", v.SizeBits, v.ResolutionBits)
	}
	return "value"
}

// cTxChannels renders the txChan descriptor field.
func cTxChannels(m *blackboard.Message, tx bool) string {
	channels := m.Tx.Channels
	switch {
	case !tx || len(channels) == 0:
		return chanNone
	case len(channels) == 1:
		return channels[0]
	}
	// C++ refuses to OR enumerators together, so each one is widened first.
	parts := make([]string, len(channels))
	for i, ch := range channels {
		parts[i] = "(uint16_t)(" + ch + ")"
	}
	return "(CanChannel_T)(" + strings.Join(parts, " | ") + ")"
}

func cRxChannel(rx bool) string {
	if rx {
		return chanRx
	}
	return chanNone
}

func cCallbackFn(cb blackboard.Callback, bound bool) string {
	if !bound || cb.Fn == "" {
		return "NULL"
	}
	return "&" + cb.Fn
}

func cCallbackParam(cb blackboard.Callback, bound bool) string {
	if !bound || cb.Param == "" {
		return "NULL"
	}
	return "(void *)(" + cb.Param + ")"
}

// docComment continues a multi-line description inside a /** */ block.
func docComment(desc string) string {
	lines := strings.SplitAfter(desc, "\n")
	if n := len(lines); n > 1 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return strings.Join(lines, " * ")
}
