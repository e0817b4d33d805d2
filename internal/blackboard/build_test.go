package blackboard_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/bbgen/internal/blackboard"
)

func variable(name string, size int, extra ...any) map[string]any {
	v := map[string]any{"name": name, "description": "", "size": size, "units": "", "resolutionBits": 0}
	for i := 0; i+1 < len(extra); i += 2 {
		v[extra[i].(string)] = extra[i+1]
	}
	return v
}

func message(name, id string, vars ...any) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "",
		"id":          id,
		"periodMs":    50,
		"tx":          []any{"CAN_CHAN1"},
		"rx":          []any{},
		"callbacks":   []any{},
		"variables":   vars,
	}
}

func schema(sections ...any) blackboard.Document {
	return blackboard.Document{"sections": sections, "sectionFiles": []any{}}
}

func section(name string, messages ...any) map[string]any {
	return map[string]any{"name": name, "messages": messages}
}

func TestBuildLayout(t *testing.T) {
	doc := schema(
		section("BMS",
			message("Status", "1A3", variable("a", 8), variable("b", 16), variable("c", 32)),
			message("Limits", "0x1a4", variable("d", 16)),
		),
		section("MCU", message("Cmd", "20")),
	)

	bb, err := blackboard.Build(doc, nil)
	require.NoError(t, err)

	require.Len(t, bb.Messages, 3)
	require.Len(t, bb.Variables, 4)
	assert.Equal(t, uint32(0x1A3), bb.Messages[0].ID)
	assert.Equal(t, uint32(419), bb.Messages[0].ID)
	assert.Equal(t, uint32(0x1A4), bb.Messages[1].ID)
	assert.Equal(t, []int{0, 1, 2}, []int{bb.Messages[0].Index, bb.Messages[1].Index, bb.Messages[2].Index})

	status := bb.Messages[0]
	assert.Equal(t, "BMS_Status", status.FullName())
	assert.Equal(t, 7, status.SizeBytes())
	var offsets, subs []int
	for _, v := range status.Variables {
		offsets = append(offsets, v.OffsetBits)
		subs = append(subs, v.SubIndex)
	}
	assert.Equal(t, []int{0, 8, 24}, offsets)
	assert.Equal(t, []int{0, 1, 2}, subs)
	assert.Equal(t, 3, status.Variables[2].OffsetBytes())
	assert.Equal(t, "BMS_c", status.Variables[2].FullName())

	// Offsets restart per message.
	assert.Equal(t, 0, bb.Messages[1].Variables[0].OffsetBits)

	assert.Equal(t, 1, status.GroupSize)
	assert.Equal(t, 0xF, status.GroupMask)
	require.NotNil(t, bb.Section("MCU"))
	assert.Len(t, bb.Section("MCU").Messages, 1)
	assert.Nil(t, bb.Section("HMI"))
}

func TestBuildSigned(t *testing.T) {
	tests := []struct {
		name   string
		extra  []any
		signed bool
	}{
		{name: "missing", signed: true},
		{name: "true", extra: []any{"signed", true}, signed: true},
		{name: "false", extra: []any{"signed", false}, signed: false},
		{name: "string false", extra: []any{"signed", "false"}, signed: true},
		{name: "zero", extra: []any{"signed", 0}, signed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb, err := blackboard.Build(schema(section("S", message("M", "1", variable("v", 8, tt.extra...)))), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.signed, bb.Variables[0].Signed)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	without := func(m map[string]any, key string) map[string]any {
		delete(m, key)
		return m
	}

	tests := []struct {
		name string
		doc  blackboard.Document
		msg  string
	}{
		{
			name: "missing periodMs",
			doc:  schema(section("BMS", without(message("Status", "1A3"), "periodMs"))),
			msg:  "periodMs is not found within message Status in section BMS",
		},
		{
			name: "missing sections",
			doc:  blackboard.Document{"sectionFiles": []any{}},
			msg:  "sections is not found within blackboard",
		},
		{
			name: "missing tx",
			doc:  schema(section("BMS", without(message("Status", "1A3"), "tx"))),
			msg:  "tx is not found within message Status in section BMS",
		},
		{
			name: "callback without fn",
			doc: schema(section("BMS", func() map[string]any {
				m := message("Status", "1A3")
				m["callbacks"] = []any{map[string]any{"section": "MCU"}}
				return m
			}())),
			msg: "fn is not found within callback in message Status",
		},
		{
			name: "variable without units",
			doc:  schema(section("BMS", message("Status", "1A3", without(variable("v", 8), "units")))),
			msg:  "units is not found within variable v in message Status",
		},
		{
			name: "bad id",
			doc:  schema(section("BMS", message("Status", "XYZ"))),
			msg:  "id within message Status in section BMS must be a hexadecimal string",
		},
		{
			name: "string periodMs",
			doc: schema(section("BMS", func() map[string]any {
				m := message("Status", "1A3")
				m["periodMs"] = "fast"
				return m
			}())),
			msg: "periodMs within message Status in section BMS must be an integer",
		},
		{
			name: "missing section file path",
			doc: blackboard.Document{
				"sections": []any{},
				"sectionFiles": []any{map[string]any{"section": "BMS", "files": []any{
					map[string]any{"description": "d", "type": "BB_C_DEF"},
				}}},
			},
			msg: "path is not found within section file entry 0 for section BMS",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := blackboard.Build(tt.doc, nil)
			var se *blackboard.SchemaError
			require.True(t, errors.As(err, &se), "got %v", err)
			assert.EqualError(t, err, tt.msg)
		})
	}
}

func TestBuildNamingError(t *testing.T) {
	_, err := blackboard.Build(schema(section("S", message("Bad Name", "1"))), nil)
	var ne *blackboard.NamingError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "message", ne.Kind)

	_, err = blackboard.Build(schema(section("S", message("Ok", "1", variable("bad\tvar", 8)))), nil)
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "variable", ne.Kind)
}

func TestBuildRouting(t *testing.T) {
	doc := schema(section("S", message("M", "1")))
	routing := blackboard.Document{"sectionFiles": []any{
		map[string]any{"section": "S", "files": []any{
			map[string]any{"description": "decl", "type": "BB_C_DECL", "path": "bb.h"},
			map[string]any{"description": "def", "type": "BB_C_DEF", "path": "bb.c"},
		}},
	}}

	bb, err := blackboard.Build(doc, routing)
	require.NoError(t, err)
	assert.Equal(t, []blackboard.SectionFile{
		{Section: "S", Description: "decl", Type: "BB_C_DECL", Path: "bb.h"},
		{Section: "S", Description: "def", Type: "BB_C_DEF", Path: "bb.c"},
	}, bb.SectionFiles)
}

func TestBuildNullLists(t *testing.T) {
	m := message("M", "1")
	m["rx"] = nil
	m["callbacks"] = nil
	bb, err := blackboard.Build(schema(section("S", m)), nil)
	require.NoError(t, err)
	assert.Empty(t, bb.Messages[0].Rx.Sections)
	assert.Empty(t, bb.Messages[0].Callbacks)
}

func TestCallbackFor(t *testing.T) {
	m := message("M", "1")
	m["callbacks"] = []any{
		map[string]any{"section": "A", "fn": "first", "param": "&ctx"},
		map[string]any{"section": "A", "fn": "second"},
		map[string]any{"section": "B", "fn": nil},
	}
	bb, err := blackboard.Build(schema(section("S", m)), nil)
	require.NoError(t, err)
	msg := bb.Messages[0]

	cb, ok := msg.CallbackFor("A")
	require.True(t, ok)
	assert.Equal(t, "first", cb.Fn)
	assert.Equal(t, "&ctx", cb.Param)

	cb, ok = msg.CallbackFor("B")
	require.True(t, ok)
	assert.Equal(t, "", cb.Fn)

	_, ok = msg.CallbackFor("C")
	assert.False(t, ok)
}
