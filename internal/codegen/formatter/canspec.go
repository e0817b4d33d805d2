package formatter

import (
	"fmt"
	"text/template"

	"github.com/Alia5/bbgen/internal/blackboard"
)

const enumRowsTmpl = `{{define "enum"}}typedef enum
{
{{range .Names}}    CAN_ELEM_{{.}},
{{end}}
    // Last item can be used as a count
    CAN_ELEM_LAST_MSG
} CANElementIndex_T;
{{end}}`

const canSpecCDeclTmpl = `

/// @brief Auto-generated {{.Description}} for the {{.Section}} (type = {{.Type}}) subsystem.

{{template "enum" .}}
// can_elem.h and can_spec.h have a carefully crafted inter-dependency since they are really one
// file auto-generated in one half and fixed code in the other. Take care about changing the
// order/location of includes.
#include "can_elem.h"
extern const CANElement_T can_spec_can_element_list[CAN_ELEM_LAST_MSG];

`

const canSpecCppDeclTmpl = `

/// @brief Auto-generated {{.Description}} for the {{.Section}} (type = {{.Type}}) subsystem.

#include "can_elem.h"


{{template "enum" .}}

extern const CANElement_T can_spec_can_element_list[CAN_ELEM_LAST_MSG];

const CANElement_T * can_elem_get_can_elem_idx(const CANElementIndex_T idx);

const CANMsgInfo_T * can_elem_get_can_msg_info_idx(const CANElementIndex_T idx);
const CANMsgInfo_T * can_elem_get_can_msg_info_msgid(const uint32_t msgID);

`

const descriptorRowTmpl = `{{define "row"}}    {
        /* .canMsgInfo */
        {
            0x{{printf "%03X" .ID}}                                    /* id        */,
            {{pad 40 .Name}} /* name      */,
            {{pad 5 .PeriodMs}}                                    /* period_ms */,
            {{.SizeBytes}}                                        /* numBytes  */,
            {   /* data_info */
                /* name                              signed_val         start_byte byte_count */
{{range .DataInfo}}                { {{pad 34 .Name}} {{pad 18 .Sign}} {{.Start}}         {{.Count}} },
{{end}}
            }
        },
        {
{{- if .Sched}}
            /* Callbacks always null for scheduling calculations */
            NULL,
            NULL
{{- else}}
            {{pad 40 .Callback}} /* pCallback */,
            {{pad 40 .Context}} /* callbackParam */
{{- end}}
        },
        {{.Tx}}  /* txChan */,
        {{.Rx}}  /* rxChan */
    },
{{end}}`

const canSpecCDefTmpl = `
/// @brief Auto-generated {{.Description}} for the {{.Section}} (type = {{.Type}}) subsystem.

const CANElement_T can_spec_can_element_list[CAN_ELEM_LAST_MSG] =
{
{{range .Rows}}{{template "row" .}}{{end}}
};

`

const canSpecSchedCDefTmpl = `
/// @brief Auto-generated {{.Description}} for the {{.Section}} (type = {{.Type}}) subsystem.

static constexpr CANElement_T can_spec_can_element_sched_list[CAN_ELEM_LAST_MSG] =
{
{{range .Rows}}{{template "row" .}}{{end}}
};

`

const canSpecCppDefTmpl = `
#include "can_spec.h"
#include "can_msg_info.h"

/// @brief Auto-generated {{.Description}} for the {{.Section}} (type = {{.Type}}) subsystem.

const CANElement_T can_spec_can_element_list[CAN_ELEM_LAST_MSG] =
{
{{range .Rows}}{{template "row" .}}{{end}}
};

const CANElement_T * can_elem_get_can_elem_idx(const CANElementIndex_T idx)
{
    return &can_spec_can_element_list[idx];
}

const CANMsgInfo_T * can_elem_get_can_msg_info_idx(const CANElementIndex_T idx)
{
    return &can_spec_can_element_list[idx].canMsgInfo;
}

/**
 * @brief Returns the CAN message info of the element with the given message ID
 * @param msgID The ID of the message
 *
 * @return The message info of the element with the given message ID
 * or NULL if it is not found
 */
const CANMsgInfo_T * can_elem_get_can_msg_info_msgid(const uint32_t msgID)
{
    const CANMsgInfo_T * canMsgInfo = NULL;
    for (uint32_t i = 0U; i < (uint32_t)(CAN_ELEM_LAST_MSG); ++i)
    {
        const CANElementIndex_T idx = (CANElementIndex_T)(i);
        if (can_spec_can_element_list[idx].canMsgInfo.id == msgID)
        {
            canMsgInfo = &can_spec_can_element_list[idx].canMsgInfo;
            break;
        }
    }
    return canMsgInfo;
}
`

var (
	canSpecCDecl     = template.Must(template.New(CanSpecCDecl).Funcs(tplFuncs()).Parse(enumRowsTmpl + canSpecCDeclTmpl))
	canSpecCppDecl   = template.Must(template.New(CanSpecCppDecl).Funcs(tplFuncs()).Parse(enumRowsTmpl + canSpecCppDeclTmpl))
	canSpecCDef      = template.Must(template.New(CanSpecCDef).Funcs(tplFuncs()).Parse(descriptorRowTmpl + canSpecCDefTmpl))
	canSpecSchedCDef = template.Must(template.New(CanSpecSchedCDef).Funcs(tplFuncs()).Parse(descriptorRowTmpl + canSpecSchedCDefTmpl))
	canSpecCppDef    = template.Must(template.New(CanSpecCppDef).Funcs(tplFuncs()).Parse(descriptorRowTmpl + canSpecCppDefTmpl))
)

type sectionHeader struct {
	Description string
	Section     string
	Type        string
}

func headerOf(sf blackboard.SectionFile) sectionHeader {
	return sectionHeader{Description: sf.Description, Section: sf.Section, Type: sf.Type}
}

type enumData struct {
	sectionHeader
	Names []string
}

type descriptorData struct {
	sectionHeader
	Rows []descriptorRow
}

type descriptorRow struct {
	ID        uint32
	Name      string
	PeriodMs  int
	SizeBytes int
	DataInfo  []dataInfoRow
	Sched     bool
	Callback  string
	Context   string
	Tx        string
	Rx        string
}

type dataInfoRow struct {
	Name  string
	Sign  string
	Start string
	Count int
}

func enumNames(bb *blackboard.Blackboard, sf blackboard.SectionFile) enumData {
	data := enumData{sectionHeader: headerOf(sf)}
	for use := range Messages(bb, sf.Section, false) {
		data.Names = append(data.Names, use.Message.FullName())
	}
	return data
}

func renderCanSpecCDecl(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error) {
	return render(canSpecCDecl, enumNames(bb, sf))
}

func renderCanSpecCppDecl(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error) {
	return render(canSpecCppDecl, enumNames(bb, sf))
}

func renderCanSpecCDef(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error) {
	return render(canSpecCDef, descriptors(bb, sf, false))
}

func renderCanSpecSchedCDef(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error) {
	return render(canSpecSchedCDef, descriptors(bb, sf, true))
}

func renderCanSpecCppDef(bb *blackboard.Blackboard, sf blackboard.SectionFile) (string, error) {
	return render(canSpecCppDef, descriptors(bb, sf, false))
}

func descriptors(bb *blackboard.Blackboard, sf blackboard.SectionFile, sched bool) descriptorData {
	data := descriptorData{sectionHeader: headerOf(sf)}
	for use := range Messages(bb, sf.Section, false) {
		data.Rows = append(data.Rows, descriptorOf(use, sf.Section, sched))
	}
	return data
}

func descriptorOf(use MessageUse, section string, sched bool) descriptorRow {
	m := use.Message
	cb, bound := m.CallbackFor(section)
	return descriptorRow{
		ID:        m.ID,
		Name:      `"` + m.FullName() + `"`,
		PeriodMs:  m.PeriodMs,
		SizeBytes: m.SizeBytes(),
		DataInfo:  dataInfo(m),
		Sched:     sched,
		Callback:  cCallbackFn(cb, bound),
		Context:   cCallbackParam(cb, bound),
		Tx:        cTxChannels(m, use.Tx),
		Rx:        cRxChannel(use.Rx),
	}
}

// dataInfo lists every variable of m, padded with inert rows up to
// blackboard.MaxDataItems. Padding rows repeat the last real start byte.
func dataInfo(m *blackboard.Message) []dataInfoRow {
	rows := make([]dataInfoRow, 0, max(len(m.Variables), blackboard.MaxDataItems))
	lastStart := 0
	for _, v := range m.Variables {
		lastStart = v.OffsetBytes()
		sign := "CAN_DATA_SIGNED,"
		if !v.Signed {
			sign = "CAN_DATA_UNSIGNED,"
		}
		rows = append(rows, dataInfoRow{
			Name:  `"` + v.Name + `",`,
			Sign:  sign,
			Start: fmt.Sprintf("%d,", lastStart),
			Count: v.SizeBytes(),
		})
	}
	for len(rows) < blackboard.MaxDataItems {
		rows = append(rows, dataInfoRow{
			Name:  "NULL_STR,",
			Sign:  "CAN_DATA_UNSIGNED,",
			Start: fmt.Sprintf("%d,", lastStart),
		})
	}
	return rows
}
