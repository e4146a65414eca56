package fields

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the SharePoint FieldTypeKind code of a column.
type Kind int

const (
	KindInvalid Kind = iota
	KindInteger
	KindText
	KindNote
	KindDateTime
	KindCounter
	KindChoice
	KindLookup
	KindBoolean
	KindNumber
	KindCurrency
	KindURL
	KindComputed
	KindThreading
	KindGUID
	KindMultiChoice
	KindGridChoice
	KindCalculated
	KindFile
	KindAttachments
	KindUser
	KindRecurrence
	KindCrossProjectLink
	KindModStat
	KindError
	KindContentTypeID
	KindPageSeparator
	KindThreadIndex
	KindWorkflowStatus
	KindAllDayEvent
	KindWorkflowEventType
	KindMaxItems
)

var kindNames = [...]string{
	KindInvalid:           "invalid",
	KindInteger:           "integer",
	KindText:              "text",
	KindNote:              "note",
	KindDateTime:          "datetime",
	KindCounter:           "counter",
	KindChoice:            "choice",
	KindLookup:            "lookup",
	KindBoolean:           "boolean",
	KindNumber:            "number",
	KindCurrency:          "currency",
	KindURL:               "url",
	KindComputed:          "computed",
	KindThreading:         "threading",
	KindGUID:              "guid",
	KindMultiChoice:       "multichoice",
	KindGridChoice:        "gridchoice",
	KindCalculated:        "calculated",
	KindFile:              "file",
	KindAttachments:       "attachments",
	KindUser:              "user",
	KindRecurrence:        "recurrence",
	KindCrossProjectLink:  "crossprojectlink",
	KindModStat:           "modstat",
	KindError:             "error",
	KindContentTypeID:     "contenttypeid",
	KindPageSeparator:     "pageseparator",
	KindThreadIndex:       "threadindex",
	KindWorkflowStatus:    "workflowstatus",
	KindAllDayEvent:       "alldayevent",
	KindWorkflowEventType: "workfloweventtype",
	KindMaxItems:          "maxitems",
}

// String returns the lowercase remote name of the kind.
func (k Kind) String() string {
	if k.Valid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Valid reports whether k is one of the known remote kinds.
func (k Kind) Valid() bool {
	return k > KindInvalid && k <= KindMaxItems
}

// ParseKind accepts a kind name ("multichoice") or its numeric code ("15").
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if Kind(k) != KindInvalid && n == name {
			return Kind(k), nil
		}
	}
	if code, err := strconv.Atoi(name); err == nil && Kind(code).Valid() {
		return Kind(code), nil
	}
	return KindInvalid, fmt.Errorf("unknown field kind %q", s)
}
