package ubhub

import "fmt"

// The portal allocates a fixed number of offering slots per group and a
// fixed number of groups per result page. Both are properties of the remote
// form generator, not of this client.
const (
	SlotsPerGroup = 3
	GroupsPerPage = 50
)

// TagFormats describes how the portal's form generator derives element ids
// from a widget's purpose and position. The format strings and the per-slot
// suffix sequences are externally imposed constants observed in rendered
// pages; they cannot be computed and must be reproduced byte for byte. They
// live in a table rather than in the extraction code so that markup drift
// can be patched without touching the decoder.
type TagFormats struct {
	// session length widget, one per group: group index
	SessionCode string
	// class descriptor widget: slot+1, ClassDescriptorSeq[slot], group index
	ClassDescriptor    string
	ClassDescriptorSeq [SlotsPerGroup]int
	// date range widget, one per group: group index
	DateRange string
	// meeting schedule widget: slot+1, MeetingScheduleSeq[slot], group index
	MeetingSchedule    string
	MeetingScheduleSeq [SlotsPerGroup]int
	// room widget: slot+1, group index
	Room string
	// instructor widget: slot+1, InstructorSeq[slot], group index
	Instructor    string
	InstructorSeq [SlotsPerGroup]int
	// seat count widget: slot+1, group index
	Seats string
	// semester display label, one per page
	SemesterLabel string
}

var DefaultTagFormats = TagFormats{
	SessionCode:        "SSR_DER_CS_GRP_SESSION_CODE$215$$%d",
	ClassDescriptor:    "SSR_CLSRCH_F_WK_SSR_CMPNT_DESCR_%d$%d$$%d",
	ClassDescriptorSeq: [SlotsPerGroup]int{294, 295, 296},
	DateRange:          "SSR_CLSRCH_F_WK_SSR_MTG_DT_LONG_1$88$$%d",
	MeetingSchedule:    "SSR_CLSRCH_F_WK_SSR_MTG_SCHED_L_%d$%d$$%d",
	MeetingScheduleSeq: [SlotsPerGroup]int{134, 135, 154},
	Room:               "SSR_CLSRCH_F_WK_SSR_MTG_LOC_LONG_%d$%d",
	Instructor:         "SSR_CLSRCH_F_WK_SSR_INSTR_LONG_%d$%d$$%d",
	InstructorSeq:      [SlotsPerGroup]int{86, 161, 162},
	Seats:              "SSR_CLSRCH_F_WK_SSR_DESCR50_%d$%d",
	SemesterLabel:      "TERM_VAL_TBL_DESCR",
}

func (t *TagFormats) sessionCodeId(group int) string {
	return fmt.Sprintf(t.SessionCode, group)
}

func (t *TagFormats) classDescriptorId(group, slot int) string {
	return fmt.Sprintf(t.ClassDescriptor, slot+1, t.ClassDescriptorSeq[slot], group)
}

func (t *TagFormats) dateRangeId(group int) string {
	return fmt.Sprintf(t.DateRange, group)
}

func (t *TagFormats) meetingScheduleId(group, slot int) string {
	return fmt.Sprintf(t.MeetingSchedule, slot+1, t.MeetingScheduleSeq[slot], group)
}

func (t *TagFormats) roomId(group, slot int) string {
	return fmt.Sprintf(t.Room, slot+1, group)
}

func (t *TagFormats) instructorId(group, slot int) string {
	return fmt.Sprintf(t.Instructor, slot+1, t.InstructorSeq[slot], group)
}

func (t *TagFormats) seatsId(group, slot int) string {
	return fmt.Sprintf(t.Seats, slot+1, group)
}

// groupWindow gives the group index range rendered on a 1-based page
// number. Ported from observed behavior: every page carries up to 50
// groups and repeats the markup of the pages before it. The upper bound
// is exclusive.
func groupWindow(page int) (first, last int) {
	first = (page - 1) * GroupsPerPage
	if first < 0 {
		first = 0
	}
	last = page*GroupsPerPage - 1
	if last < 0 {
		last = 0
	}
	return first, last
}
