package blackboard

import (
	"fmt"
	"strings"
	"unicode"
)

// Build converts a decoded schema document into a Blackboard. When routing
// is nil the "sectionFiles" list is read from doc itself.
func Build(doc, routing Document) (*Blackboard, error) {
	bb := &Blackboard{}

	if routing == nil {
		routing = doc
	}
	sectionFiles, err := ParseSectionFiles(routing)
	if err != nil {
		return nil, err
	}
	bb.SectionFiles = sectionFiles

	sections, err := lookupList(doc, "sections", "blackboard")
	if err != nil {
		return nil, err
	}
	for i, raw := range sections {
		sm, ok := asMap(raw)
		if !ok {
			return nil, &SchemaError{Key: fmt.Sprintf("sections[%d]", i), Context: "blackboard", Want: "an object"}
		}
		if err := bb.addSection(sm); err != nil {
			return nil, err
		}
	}
	return bb, nil
}

func (b *Blackboard) addSection(sm map[string]any) error {
	name, err := lookupString(sm, "name", "blackboard")
	if err != nil {
		return err
	}
	section := &Section{Name: name}
	b.Sections = append(b.Sections, section)

	ctx := "section " + name
	messages, err := lookupList(sm, "messages", ctx)
	if err != nil {
		return err
	}
	for i, raw := range messages {
		mm, ok := asMap(raw)
		if !ok {
			return &SchemaError{Key: fmt.Sprintf("messages[%d]", i), Context: ctx, Want: "an object"}
		}
		msg, err := b.buildMessage(section, mm)
		if err != nil {
			return err
		}
		section.Messages = append(section.Messages, msg)
	}
	return nil
}

func (b *Blackboard) buildMessage(section *Section, mm map[string]any) (*Message, error) {
	sectionCtx := "section " + section.Name
	name, err := lookupString(mm, "name", sectionCtx)
	if err != nil {
		return nil, err
	}
	ctx := fmt.Sprintf("message %s in %s", name, sectionCtx)

	msg := &Message{
		Index:       len(b.Messages),
		SectionName: section.Name,
		Name:        name,
	}

	if msg.Tx.Channels, err = lookupStrings(mm, "tx", "tx in "+ctx); err != nil {
		return nil, err
	}
	if msg.Rx.Sections, err = lookupStrings(mm, "rx", ctx); err != nil {
		return nil, err
	}
	if msg.Callbacks, err = buildCallbacks(mm, name); err != nil {
		return nil, err
	}
	if msg.Description, err = lookupString(mm, "description", ctx); err != nil {
		return nil, err
	}
	if msg.ID, err = lookupHex(mm, "id", ctx); err != nil {
		return nil, err
	}
	if msg.PeriodMs, err = lookupInt(mm, "periodMs", ctx); err != nil {
		return nil, err
	}
	if msg.GroupSize, err = lookupInt(mm, "groupSize", ctx); err != nil {
		return nil, err
	}
	if msg.GroupMask, err = lookupInt(mm, "groupMask", ctx); err != nil {
		return nil, err
	}
	if hasSpace(msg.Name) {
		return nil, &NamingError{Kind: "message", Name: msg.Name}
	}

	variables, err := lookupList(mm, "variables", ctx)
	if err != nil {
		return nil, err
	}

	b.Messages = append(b.Messages, msg)

	offset := 0
	for i, raw := range variables {
		vm, ok := asMap(raw)
		if !ok {
			return nil, &SchemaError{Key: fmt.Sprintf("variables[%d]", i), Context: ctx, Want: "an object"}
		}
		v, err := buildVariable(msg, i, offset, vm)
		if err != nil {
			return nil, err
		}
		offset += v.SizeBits
		msg.Variables = append(msg.Variables, v)
		b.Variables = append(b.Variables, v)
	}
	return msg, nil
}

func buildCallbacks(mm map[string]any, messageName string) ([]Callback, error) {
	ctx := "message " + messageName
	raw, err := lookupList(mm, "callbacks", ctx)
	if err != nil {
		return nil, err
	}

	cbCtx := "callback in message " + messageName
	callbacks := make([]Callback, 0, len(raw))
	for i, item := range raw {
		cm, ok := asMap(item)
		if !ok {
			return nil, &SchemaError{Key: fmt.Sprintf("callbacks[%d]", i), Context: ctx, Want: "an object"}
		}
		section, err := lookupString(cm, "section", cbCtx)
		if err != nil {
			return nil, err
		}
		fn, err := lookup(cm, "fn", cbCtx)
		if err != nil {
			return nil, err
		}
		// param is optional: absent and null both mean "no context".
		callbacks = append(callbacks, Callback{
			Section: section,
			Fn:      scalarText(fn),
			Param:   scalarText(cm["param"]),
		})
	}
	return callbacks, nil
}

func buildVariable(msg *Message, subIndex, offsetBits int, vm map[string]any) (*Variable, error) {
	name, err := lookupString(vm, "name", "variable name in message "+msg.Name)
	if err != nil {
		return nil, err
	}
	ctx := fmt.Sprintf("variable %s in message %s", name, msg.Name)

	v := &Variable{
		SubIndex:   subIndex,
		Message:    msg,
		Name:       name,
		OffsetBits: offsetBits,
		// Missing or anything but an explicit false means signed.
		Signed: true,
	}
	if s, ok := vm["signed"].(bool); ok && !s {
		v.Signed = false
	}

	if v.Description, err = lookupString(vm, "description", ctx); err != nil {
		return nil, err
	}
	if v.SizeBits, err = lookupInt(vm, "size", ctx); err != nil {
		return nil, err
	}
	if v.Units, err = lookupString(vm, "units", ctx); err != nil {
		return nil, err
	}
	if v.ResolutionBits, err = lookupInt(vm, "resolutionBits", ctx); err != nil {
		return nil, err
	}
	if v.SizeBits < 0 {
		return nil, &SchemaError{Key: "size", Context: ctx, Want: "a non-negative integer"}
	}
	if v.ResolutionBits < 0 {
		return nil, &SchemaError{Key: "resolutionBits", Context: ctx, Want: "a non-negative integer"}
	}
	if hasSpace(v.Name) {
		return nil, &NamingError{Kind: "variable", Name: v.Name}
	}
	return v, nil
}

// ParseSectionFiles reads the "sectionFiles" routing list of a document.
func ParseSectionFiles(doc Document) ([]SectionFile, error) {
	entries, err := lookupList(doc, "sectionFiles", "blackboard")
	if err != nil {
		return nil, err
	}

	var out []SectionFile
	for i, raw := range entries {
		em, ok := asMap(raw)
		if !ok {
			return nil, &SchemaError{Key: fmt.Sprintf("sectionFiles[%d]", i), Context: "blackboard", Want: "an object"}
		}
		section, err := lookupString(em, "section", "blackboard")
		if err != nil {
			return nil, err
		}
		files, err := lookupList(em, "files", "section files of "+section)
		if err != nil {
			return nil, err
		}
		for j, rawFile := range files {
			ctx := fmt.Sprintf("section file entry %d for section %s", j, section)
			fm, ok := asMap(rawFile)
			if !ok {
				return nil, &SchemaError{Key: fmt.Sprintf("files[%d]", j), Context: ctx, Want: "an object"}
			}
			sf := SectionFile{Section: section}
			if sf.Description, err = lookupString(fm, "description", ctx); err != nil {
				return nil, err
			}
			if sf.Type, err = lookupString(fm, "type", ctx); err != nil {
				return nil, err
			}
			if sf.Path, err = lookupString(fm, "path", ctx); err != nil {
				return nil, err
			}
			out = append(out, sf)
		}
	}
	return out, nil
}

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}
