package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/bbgen/internal/log"
	bbtest "github.com/Alia5/bbgen/internal/testing"
)

const schemaJSON = `{
  "sections": [
    {
      "name": "MCU",
      "messages": [
        {
          "name": "Heartbeat",
          "description": "alive
and kicking",
          "id": "1A3",
          "periodMs": 100,
          "tx": ["CAN_CHAN1"],
          "rx": ["HMI"],
          "callbacks": [],
          "variables": [
            {"name": "count", "description": "counter", "size": 8, "units": "n", "signed": false, "resolutionBits": 0}
          ]
        }
      ]
    }
  ],
  "sectionFiles": [
    {"section": "MCU", "files": [
      {"description": "Accessors", "type": "BB_C_DECL", "path": "inc/bb.h"}
    ]}
  ]
}`

func project(t *testing.T) (dir, schema, target string) {
	t.Helper()
	dir = t.TempDir()
	schema = bbtest.WriteFile(t, dir, "bb.json", schemaJSON)
	target = bbtest.WriteFile(t, dir, "inc/bb.h", bbtest.Sentries("BB_C_DECL"))
	return dir, schema, target
}

func TestInputsBaseDir(t *testing.T) {
	tests := []struct {
		name string
		in   Inputs
		want string
	}{
		{name: "explicit", in: Inputs{Schema: "a/s.json", Sections: "b/r.json", BaseDir: "c"}, want: "c"},
		{name: "routing file", in: Inputs{Schema: "a/s.json", Sections: "b/r.json"}, want: "b"},
		{name: "schema file", in: Inputs{Schema: "a/s.json"}, want: "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.baseDir())
		})
	}
}

func TestGenerateThenCheck(t *testing.T) {
	_, schema, target := project(t)
	regions := log.NewRegion(nil)

	check := &Check{Inputs: Inputs{Schema: schema}}
	assert.Error(t, check.Run(bbtest.DiscardLogger(), regions), "fresh target should be stale")

	gen := &Generate{Inputs: Inputs{Schema: schema}}
	require.NoError(t, gen.Run(bbtest.DiscardLogger(), regions))

	assert.Contains(t, bbtest.ReadFile(t, target), "uint8_t bb_get_MCU_count(void);")

	assert.NoError(t, check.Run(bbtest.DiscardLogger(), regions))
}

func TestDump(t *testing.T) {
	_, schema, _ := project(t)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&Dump{Inputs: Inputs{Schema: schema}, Format: "json", Out: &buf}).Run(bbtest.DiscardLogger()))

		var got dumpBlackboard
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got.Sections, 1)
		require.Len(t, got.Sections[0].Messages, 1)
		m := got.Sections[0].Messages[0]
		assert.Equal(t, "0x1A3", m.ID)
		assert.Equal(t, "alive\nand kicking", m.Description)
		assert.Equal(t, 1, m.GroupSize)
		assert.Equal(t, 0xF, m.GroupMask)
		assert.Equal(t, "MCU_count", m.Variables[0].FullName)
		assert.Equal(t, "inc/bb.h", got.SectionFiles[0].Path)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&Dump{Inputs: Inputs{Schema: schema}, Format: "yaml", Out: &buf}).Run(bbtest.DiscardLogger()))

		var got dumpBlackboard
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "MCU_Heartbeat", got.Sections[0].Messages[0].FullName)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, (&Dump{Inputs: Inputs{Schema: schema}, Format: "text", Out: &buf}).Run(bbtest.DiscardLogger()))
		assert.Contains(t, buf.String(), "1: Message MCU_Heartbeat id=0x1A3")
	})
}

func TestLint(t *testing.T) {
	_, schema, _ := project(t)

	// The only finding is the undeclared HMI receiver, a warning.
	assert.NoError(t, (&Lint{Inputs: Inputs{Schema: schema}}).Run(bbtest.DiscardLogger()))
	assert.Error(t, (&Lint{Inputs: Inputs{Schema: schema}, Strict: true}).Run(bbtest.DiscardLogger()))
}

func TestModelCommandsWithoutRouting(t *testing.T) {
	dir := t.TempDir()
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.ReplaceAll(schemaJSON, "alive\n", "alive ")), &doc))
	delete(doc, "sectionFiles")
	body, err := json.Marshal(doc)
	require.NoError(t, err)
	schema := bbtest.WriteFile(t, dir, "bb.json", string(body))
	in := Inputs{Schema: schema}

	var buf bytes.Buffer
	require.NoError(t, (&Dump{Inputs: in, Format: "json", Out: &buf}).Run(bbtest.DiscardLogger()))
	var got dumpBlackboard
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Empty(t, got.SectionFiles)
	assert.Len(t, got.Sections, 1)

	assert.NoError(t, (&Lint{Inputs: in}).Run(bbtest.DiscardLogger()))

	_, err = in.Load(bbtest.DiscardLogger())
	assert.Error(t, err, "generation still needs a routing list")
}

func TestTemplate(t *testing.T) {
	root, err := Template("generate")
	require.NoError(t, err)

	assert.Equal(t, "", root["schema"])
	assert.Equal(t, "", root["base_dir"])
	assert.Equal(t, []string{}, root["only"])
	logOpts, ok := root["log"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "info", logOpts["level"])
	assert.Equal(t, "auto", logOpts["format"])
	assert.Contains(t, logOpts, "region_file")

	dump, err := Template("dump")
	require.NoError(t, err)
	assert.Equal(t, "text", dump["format"])
	assert.NotContains(t, dump, "out")

	_, err = Template("serve")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()

	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			dest := filepath.Join(dir, "conf", "bbgen."+format)
			c := &ConfigInit{Command: "lint", Format: format, Output: dest}
			require.NoError(t, c.Run())

			data, err := os.ReadFile(dest)
			require.NoError(t, err)
			assert.Contains(t, string(data), "strict")

			assert.Error(t, c.Run(), "existing file without --force")
			c.Force = true
			assert.NoError(t, c.Run())
		})
	}
}
