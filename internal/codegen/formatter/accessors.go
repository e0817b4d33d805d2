package formatter

import (
	"text/template"

	"github.com/Alia5/bbgen/internal/blackboard"
)

const bbCDeclTmpl = `
/// @brief Auto-generated {{.Description}} for the {{.Section}} (type = {{.Type}}) subsystem.

{{range .Accessors}}{{.Normal}} bb_get_{{.Base}}(void);
void bb_set_{{.Base}}(const {{.Normal}} value);

{{end}}
`

const bbCDefTmpl = `

/// @brief Auto-generated {{.Description}} for the {{.Section}} (type = {{.Type}}) subsystem.

{{range .Accessors}}
/**
 * @brief Gets the {{.Base}} value from the blackboard.
 * {{.Doc}}
 * @return {{.Value}} value of {{.Base}} in {{.Units}}
 */
{{.Normal}} bb_get_{{.Base}}(void)
{
    const CANMsgInfo_T * canMsgInfo = can_elem_get_can_msg_info_idx(CAN_ELEM_{{.Msg}});
    const BlackboardElement_T * const bbElem = bb_get_element(CAN_ELEM_{{.Msg}});
    const CANDataInfo_T * dataInfo = &canMsgInfo->data_info[{{.SubIndex}}];
    const {{.Value}} value = bb_elem_get_{{.Selector}}_data(bbElem, dataInfo->start_byte);
    {{.Return}}
}

/**
 * @brief Sets the {{.Base}} value within the blackboard.
 * @see bb_get_{{.Base}} for a description of this property.
 * @param value {{.Value}} in {{.Units}}
 */
void bb_set_{{.Base}}(const {{.Normal}} value)
{
    const CANMsgInfo_T * canMsgInfo = can_elem_get_can_msg_info_idx(CAN_ELEM_{{.Msg}});
    BlackboardElement_T * bbElem = bb_get_element(CAN_ELEM_{{.Msg}});
    const CANDataInfo_T * dataInfo = &canMsgInfo->data_info[{{.SubIndex}}];
    bb_elem_set_{{.Selector}}_data(bbElem, {{.Convert}}, dataInfo->start_byte);
}
{{end}}

`

const bbCppDeclTmpl = `

/// @brief Auto-generated {{.Description}} for the {{.Section}} (type = {{.Type}}) subsystem.

{{range .Accessors}}   static {{.Normal}} get_{{.Base}}();
   static void set_{{.Base}}(const {{.Normal}} value);

{{end}}
`

const bbCppDefTmpl = `

/// @brief Auto-generated {{.Description}} for the {{.Section}} (type = {{.Type}}) subsystem.

{{range .Accessors}}
/**
 * @brief Gets the {{.Base}} value from the blackboard.
 * {{.Doc}}
 * @return {{.Value}} value of {{.Base}} in {{.Units}}
 */
{{.Normal}} BBoard::get_{{.Base}}()
{
    return bb_get_{{.Base}}();
}

/**
 * @brief Sets the {{.Base}} value within the blackboard.
 * @see bb_get_{{.Base}} for a description of this property.
 * @param value {{.Value}} in {{.Units}}
 */
void BBoard::set_{{.Base}}(const {{.Normal}} value)
{
    bb_set_{{.Base}}(value);
}
{{end}}

`

var (
	bbCDecl   = template.Must(template.New(BBCDecl).Funcs(tplFuncs()).Parse(bbCDeclTmpl))
	bbCDef    = template.Must(template.New(BBCDef).Funcs(tplFuncs()).Parse(bbCDefTmpl))
	bbCppDecl = template.Must(template.New(BBCppDecl).Funcs(tplFuncs()).Parse(bbCppDeclTmpl))
	bbCppDef  = template.Must(template.New(BBCppDef).Funcs(tplFuncs()).Parse(bbCppDefTmpl))
)

type accessorData struct {
	sectionHeader
	Accessors []accessor
}

// accessor carries everything the getter/setter pair of one variable needs.
type accessor struct {
	Base     string
	Msg      string
	SubIndex int
	Doc      string
	Units    string
	Value    string
	Normal   string
	Selector string
	Return   string
	Convert  string
}

func accessors(bb *blackboard.Blackboard, sf blackboard.SectionFile) accessorData {
	data := accessorData{sectionHeader: headerOf(sf)}
	for use := range Variables(bb, sf.Section) {
		v := use.Variable
		data.Accessors = append(data.Accessors, accessor{
			Base:     v.FullName(),
			Msg:      use.Message.FullName(),
			SubIndex: v.SubIndex,
			Doc:      docComment(v.Description),
			Units:    v.Units,
			Value:    cValueType(v),
			Normal:   cNormalType(v),
			Selector: cSelector(v),
			Return:   cReturnStatement(v),
			Convert:  cConvertExpression(v),
		})
	}
	return data
}

func renderBBCDecl(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error) {
	return render(bbCDecl, accessors(bb, sf))
}

func renderBBCDef(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error) {
	return render(bbCDef, accessors(bb, sf))
}

func renderBBCppDecl(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error) {
	return render(bbCppDecl, accessors(bb, sf))
}

func renderBBCppDef(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error) {
	return render(bbCppDef, accessors(bb, sf))
}
