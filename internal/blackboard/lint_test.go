package blackboard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/bbgen/internal/blackboard"
)

func lintNames(issues []blackboard.LintIssue) []string {
	names := []string{}
	for _, i := range issues {
		names = append(names, i.LintName)
	}
	return names
}

func TestLint(t *testing.T) {
	withCallbacks := func(m map[string]any, cbs ...any) map[string]any {
		m["callbacks"] = cbs
		return m
	}
	withRx := func(m map[string]any, rx ...any) map[string]any {
		m["rx"] = rx
		return m
	}
	withTx := func(m map[string]any, tx ...any) map[string]any {
		m["tx"] = tx
		return m
	}

	tests := []struct {
		name string
		doc  blackboard.Document
		want []string
	}{
		{
			name: "clean",
			doc:  schema(section("A", message("M", "100", variable("v", 16)))),
			want: []string{},
		},
		{
			name: "extended identifier",
			doc:  schema(section("A", message("M", "800"))),
			want: []string{"id-range"},
		},
		{
			name: "duplicate identifier",
			doc:  schema(section("A", message("M", "100")), section("B", message("N", "0x100"))),
			want: []string{"duplicate-id"},
		},
		{
			name: "oversized payload",
			doc:  schema(section("A", message("M", "1", variable("a", 32), variable("b", 32), variable("c", 8)))),
			want: []string{"payload-size"},
		},
		{
			name: "too many variables",
			doc: schema(section("A", message("M", "1",
				variable("a", 8), variable("b", 8), variable("c", 8), variable("d", 8), variable("e", 8)))),
			want: []string{"data-items"},
		},
		{
			name: "odd width and misalignment",
			doc:  schema(section("A", message("M", "1", variable("a", 4), variable("b", 8)))),
			want: []string{"accessor-width", "alignment"},
		},
		{
			name: "unknown receiver",
			doc:  schema(section("A", withRx(message("M", "1"), "Z"))),
			want: []string{"unknown-rx-section"},
		},
		{
			name: "callback for undeclared section",
			doc:  schema(section("A", withCallbacks(message("M", "1"), map[string]any{"section": "Z", "fn": "f"}))),
			want: []string{"unknown-callback-section"},
		},
		{
			name: "callback for uninvolved section",
			doc: schema(
				section("A", withCallbacks(message("M", "1"), map[string]any{"section": "B", "fn": "f"})),
				section("B"),
			),
			want: []string{"unknown-callback-section"},
		},
		{
			name: "same function twice in a section",
			doc: schema(
				section("A",
					withCallbacks(withRx(message("M", "1"), "B"), map[string]any{"section": "B", "fn": "on_rx"}),
					withCallbacks(withRx(message("N", "2"), "B"), map[string]any{"section": "B", "fn": "on_rx"}),
				),
				section("B"),
			),
			want: []string{"duplicate-callback"},
		},
		{
			name: "no transmit channel",
			doc:  schema(section("A", withTx(message("M", "1")))),
			want: []string{"empty-tx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bb, err := blackboard.Build(tt.doc, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lintNames(blackboard.Lint(bb)))
		})
	}
}

func TestLintIssueString(t *testing.T) {
	i := blackboard.LintIssue{Message: "A_M", Variable: "v", LintLevel: "error", LintName: "alignment", Detail: "bit offset 4 is not byte aligned"}
	assert.Equal(t, "[error] A_M.v: bit offset 4 is not byte aligned (alignment)", i.String())
}
