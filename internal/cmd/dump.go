package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	yaml "gopkg.in/yaml.v3"

	"github.com/Alia5/bbgen/internal/blackboard"
)

type Dump struct {
	Inputs `embed:""`
	Format string `help:"Output format" enum:"text,json,yaml" default:"text" env:"BBGEN_DUMP_FORMAT"`

	Out io.Writer `kong:"-"`
}

// Run is called by Kong when the dump command is executed.
func (d *Dump) Run(logger *slog.Logger) error {
	bb, err := d.LoadModel(logger)
	if err != nil {
		return err
	}
	out := d.Out
	if out == nil {
		out = os.Stdout
	}

	switch d.Format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dumpOf(bb))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(dumpOf(bb)); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := io.WriteString(out, bb.String())
		return err
	}
}

type dumpBlackboard struct {
	Sections     []dumpSection            `json:"sections" yaml:"sections"`
	SectionFiles []blackboard.SectionFile `json:"sectionFiles" yaml:"sectionFiles"`
}

type dumpSection struct {
	Name     string        `json:"name" yaml:"name"`
	Messages []dumpMessage `json:"messages" yaml:"messages"`
}

type dumpMessage struct {
	Index       int                   `json:"index" yaml:"index"`
	Name        string                `json:"name" yaml:"name"`
	FullName    string                `json:"fullName" yaml:"fullName"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	ID          string                `json:"id" yaml:"id"`
	PeriodMs    int                   `json:"periodMs" yaml:"periodMs"`
	SizeBytes   int                   `json:"sizeBytes" yaml:"sizeBytes"`
	Tx          []string              `json:"tx" yaml:"tx"`
	Rx          []string              `json:"rx" yaml:"rx"`
	Callbacks   []blackboard.Callback `json:"callbacks,omitempty" yaml:"callbacks,omitempty"`
	GroupSize   int                   `json:"groupSize" yaml:"groupSize"`
	GroupMask   int                   `json:"groupMask" yaml:"groupMask"`
	Variables   []dumpVariable        `json:"variables" yaml:"variables"`
}

type dumpVariable struct {
	SubIndex       int    `json:"subIndex" yaml:"subIndex"`
	Name           string `json:"name" yaml:"name"`
	FullName       string `json:"fullName" yaml:"fullName"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	SizeBits       int    `json:"sizeBits" yaml:"sizeBits"`
	OffsetBits     int    `json:"offsetBits" yaml:"offsetBits"`
	Units          string `json:"units,omitempty" yaml:"units,omitempty"`
	Signed         bool   `json:"signed" yaml:"signed"`
	ResolutionBits int    `json:"resolutionBits" yaml:"resolutionBits"`
}

// dumpOf flattens the model into a tree free of back references.
func dumpOf(bb *blackboard.Blackboard) dumpBlackboard {
	out := dumpBlackboard{SectionFiles: bb.SectionFiles}
	for _, s := range bb.Sections {
		ds := dumpSection{Name: s.Name, Messages: []dumpMessage{}}
		for _, m := range s.Messages {
			dm := dumpMessage{
				Index:       m.Index,
				Name:        m.Name,
				FullName:    m.FullName(),
				Description: m.Description,
				ID:          fmt.Sprintf("0x%03X", m.ID),
				PeriodMs:    m.PeriodMs,
				SizeBytes:   m.SizeBytes(),
				Tx:          m.Tx.Channels,
				Rx:          m.Rx.Sections,
				Callbacks:   m.Callbacks,
				GroupSize:   m.GroupSize,
				GroupMask:   m.GroupMask,
				Variables:   []dumpVariable{},
			}
			for _, v := range m.Variables {
				dm.Variables = append(dm.Variables, dumpVariable{
					SubIndex:       v.SubIndex,
					Name:           v.Name,
					FullName:       v.FullName(),
					Description:    v.Description,
					SizeBits:       v.SizeBits,
					OffsetBits:     v.OffsetBits,
					Units:          v.Units,
					Signed:         v.Signed,
					ResolutionBits: v.ResolutionBits,
				})
			}
			ds.Messages = append(ds.Messages, dm)
		}
		out.Sections = append(out.Sections, ds)
	}
	return out
}
