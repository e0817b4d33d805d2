package generator_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/bbgen/internal/blackboard"
	"github.com/Alia5/bbgen/internal/codegen/generator"
	"github.com/Alia5/bbgen/internal/codegen/munger"
	"github.com/Alia5/bbgen/internal/log"
	bbtest "github.com/Alia5/bbgen/internal/testing"
)

func buildBlackboard(t *testing.T, files ...map[string]any) *blackboard.Blackboard {
	t.Helper()
	fileList := make([]any, len(files))
	for i, f := range files {
		fileList[i] = f
	}
	doc := blackboard.Document{
		"sections": []any{
			map[string]any{
				"name": "MCU",
				"messages": []any{
					map[string]any{
						"name":        "Heartbeat",
						"description": "alive",
						"id":          "1A3",
						"periodMs":    100,
						"tx":          []any{"CAN_CHAN1"},
						"rx":          []any{},
						"callbacks":   []any{},
						"variables": []any{
							map[string]any{"name": "count", "description": "counter", "size": 8, "units": "n", "signed": false, "resolutionBits": 0},
						},
					},
				},
			},
		},
		"sectionFiles": []any{
			map[string]any{"section": "MCU", "files": fileList},
		},
	}
	bb, err := blackboard.Build(doc, nil)
	require.NoError(t, err)
	return bb
}

func file(tag, path string) map[string]any {
	return map[string]any{"description": "test", "type": tag, "path": path}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	decl := bbtest.WriteFile(t, dir, "inc/can_spec.h", bbtest.Sentries("CAN_SPEC_C_DECL"))
	def := bbtest.WriteFile(t, dir, "src/can_spec.c", bbtest.Sentries("CAN_SPEC_C_DEF"))
	bb := buildBlackboard(t, file("CAN_SPEC_C_DECL", "inc/can_spec.h"), file("CAN_SPEC_C_DEF", "src/can_spec.c"))

	var regions bytes.Buffer
	report, err := generator.New(dir, bbtest.DiscardLogger(), generator.WithRegionLogger(log.NewRegion(&regions))).Run(bb)
	require.NoError(t, err)
	require.Len(t, report.Results, 2)
	assert.Len(t, report.Stale(), 2)
	assert.Empty(t, report.Skipped)

	assert.Contains(t, bbtest.ReadFile(t, decl), "    CAN_ELEM_MCU_Heartbeat,\n")
	assert.Contains(t, bbtest.ReadFile(t, def), "0x1A3")
	assert.True(t, strings.HasSuffix(bbtest.ReadFile(t, def), munger.SentryPrefix+"CAN_SPEC_C_DEF\n// footer\n"))
	assert.Contains(t, regions.String(), "[CAN_SPEC_C_DECL]")
	assert.Contains(t, regions.String(), "[CAN_SPEC_C_DEF]")

	// A second pass finds nothing to do.
	check, err := generator.New(dir, bbtest.DiscardLogger(), generator.WithDryRun()).Run(bb)
	require.NoError(t, err)
	assert.Empty(t, check.Stale())
}

func TestRunDryRunReportsStale(t *testing.T) {
	dir := t.TempDir()
	body := bbtest.Sentries("BB_C_DECL")
	p := bbtest.WriteFile(t, dir, "bb.h", body)
	bb := buildBlackboard(t, file("BB_C_DECL", "bb.h"))

	report, err := generator.New(dir, bbtest.DiscardLogger(), generator.WithDryRun()).Run(bb)
	require.NoError(t, err)
	require.Len(t, report.Stale(), 1)
	assert.Equal(t, p, report.Stale()[0].Path)
	assert.Equal(t, body, bbtest.ReadFile(t, p))
}

func TestRunDispatchErrorTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	body := bbtest.Sentries("BB_C_DECL")
	p := bbtest.WriteFile(t, dir, "bb.h", body)
	bb := buildBlackboard(t, file("BB_C_DECL", "bb.h"), file("BB_RUST_DEF", "bb.rs"))

	_, err := generator.New(dir, bbtest.DiscardLogger()).Run(bb)
	var de *generator.DispatchError
	require.True(t, errors.As(err, &de), "got %v", err)
	assert.Equal(t, "BB_RUST_DEF", de.Type)
	assert.Equal(t, body, bbtest.ReadFile(t, p))
}

func TestRunSkipsUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	p := bbtest.WriteFile(t, dir, "bb.h", bbtest.Sentries("BB_C_DECL"))
	bb := buildBlackboard(t, file("BB_C_DEF", "missing.c"), file("BB_C_DECL", "bb.h"))

	report, err := generator.New(dir, bbtest.DiscardLogger()).Run(bb)
	require.NoError(t, err)
	require.Len(t, report.Skipped, 1)
	assert.True(t, munger.Recoverable(report.Skipped[0].Err))
	require.Len(t, report.Results, 1)
	assert.Contains(t, bbtest.ReadFile(t, p), "bb_get_MCU_count(void);")
}

func TestRunStructureErrorAborts(t *testing.T) {
	dir := t.TempDir()
	bbtest.WriteFile(t, dir, "broken.c", "// no sentries here\n")
	good := bbtest.WriteFile(t, dir, "bb.h", bbtest.Sentries("BB_C_DECL"))
	bb := buildBlackboard(t, file("BB_C_DEF", "broken.c"), file("BB_C_DECL", "bb.h"))

	_, err := generator.New(dir, bbtest.DiscardLogger()).Run(bb)
	var se *munger.StructureError
	require.True(t, errors.As(err, &se), "got %v", err)
	assert.Equal(t, bbtest.Sentries("BB_C_DECL"), bbtest.ReadFile(t, good))
}

func TestRunOnly(t *testing.T) {
	dir := t.TempDir()
	decl := bbtest.WriteFile(t, dir, "bb.h", bbtest.Sentries("BB_C_DECL"))
	def := bbtest.WriteFile(t, dir, "bb.c", bbtest.Sentries("BB_C_DEF"))
	bb := buildBlackboard(t, file("BB_C_DECL", "bb.h"), file("BB_C_DEF", "bb.c"), file("NOT_A_KIND", "x.c"))

	report, err := generator.New(dir, bbtest.DiscardLogger(), generator.WithOnly("BB_C_DEF")).Run(bb)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, bbtest.Sentries("BB_C_DECL"), bbtest.ReadFile(t, decl))
	assert.Contains(t, bbtest.ReadFile(t, def), "bb_elem_get_uint8_data")
}
