// Package formatter renders the generated regions of a blackboard target
// file. Every output kind is a pure function of the model and one routing
// entry; the kinds are dispatched through a fixed table keyed by tag.
package formatter

import (
	"sort"

	"github.com/Alia5/bbgen/internal/blackboard"
)

// Render produces the text destined for the sentry region of sf.Type in sf.Path.
type Render func(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error)

const (
	CanSpecCDecl     = "CAN_SPEC_C_DECL"
	CanSpecCDef      = "CAN_SPEC_C_DEF"
	CanSpecSchedCDef = "CAN_SPEC_SCHED_C_DEF"
	CanSpecCppDecl   = "CAN_SPEC_CPP_DECL"
	CanSpecCppDef    = "CAN_SPEC_CPP_DEF"
	BBCDecl          = "BB_C_DECL"
	BBCDef           = "BB_C_DEF"
	BBCppDecl        = "BB_CPP_DECL"
	BBCppDef         = "BB_CPP_DEF"
	BBCDefaultCB     = "BB_C_DEFAULT_CB"
	BBCCallbackDecl  = "BB_C_CALLBACK_DECL"
)

var kinds = map[string]Render{
	CanSpecCDecl:     renderCanSpecCDecl,
	CanSpecCDef:      renderCanSpecCDef,
	CanSpecSchedCDef: renderCanSpecSchedCDef,
	CanSpecCppDecl:   renderCanSpecCppDecl,
	CanSpecCppDef:    renderCanSpecCppDef,
	BBCDecl:          renderBBCDecl,
	BBCDef:           renderBBCDef,
	BBCppDecl:        renderBBCppDecl,
	BBCppDef:         renderBBCppDef,
	BBCDefaultCB:     renderDefaultCallbacks,
	BBCCallbackDecl:  renderCallbackDecls,
}

// Lookup returns the renderer registered for tag.
func Lookup(tag string) (Render, bool) {
	r, ok := kinds[tag]
	return r, ok
}

// Tags lists every registered output kind, sorted.
func Tags() []string {
	tags := make([]string, 0, len(kinds))
	for t := range kinds {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
