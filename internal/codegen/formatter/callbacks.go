package formatter

import (
	"text/template"

	"github.com/Alia5/bbgen/internal/blackboard"
)

const defaultCallbacksTmpl = `
/// @brief Auto-generated default weakly linked callbacks for the {{.Section}} subsystem.

{{range .Callbacks}}
/**
 * @brief {{.Fn}} - callback for message {{.Message}}
 * @param param Pointer to user defined context
 * @param rxChan If the callback is occurring on receipt of this variable, this is
 *              the channel the message was received on. Otherwise, CAN_NONE.
 * @param txChan If the callback is occurring on transmission of this variable, this
 *              is the channel the message was transmitted on. Otherwise, CAN_NONE.
 */
MAKE_WEAK(void {{.Fn}}(void * context, CanChannel_T rxChan, CanChannel_T txChan))
{
    (void) context; // Unused - stub
    (void) rxChan;  // Unused - stub
    (void) txChan;  // Unused - stub
}
{{end}}
`

const callbackDeclsTmpl = `
/// @brief Auto-generated declarations for callbacks for the {{.Section}} subsystem.

{{range .Callbacks}}
void {{.Fn}}(void * context, CanChannel_T rxChan, CanChannel_T txChan);
{{end}}
`

var (
	defaultCallbacks = template.Must(template.New(BBCDefaultCB).Funcs(tplFuncs()).Parse(defaultCallbacksTmpl))
	callbackDecls    = template.Must(template.New(BBCCallbackDecl).Funcs(tplFuncs()).Parse(callbackDeclsTmpl))
)

type callbackData struct {
	Section   string
	Callbacks []boundCallback
}

type boundCallback struct {
	Fn      string
	Message string
}

// boundCallbacks collects the callback each applicable message binds to
// section. Messages without a bound function are skipped.
func boundCallbacks(bb *blackboard.Blackboard, section string) callbackData {
	data := callbackData{Section: section}
	for use := range Messages(bb, section, false) {
		cb, ok := use.Message.CallbackFor(section)
		if !ok || cb.Fn == "" {
			continue
		}
		data.Callbacks = append(data.Callbacks, boundCallback{Fn: cb.Fn, Message: use.Message.Name})
	}
	return data
}

func renderDefaultCallbacks(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error) {
	return render(defaultCallbacks, boundCallbacks(bb, sf.Section))
}

func renderCallbackDecls(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error) {
	return render(callbackDecls, boundCallbacks(bb, sf.Section))
}
