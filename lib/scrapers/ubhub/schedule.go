package ubhub

import (
	"bytes"
	"errors"
	"fmt"
	"time"
	"ubsched/lib/htmlutil"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ClassSchedule is a queryable view over one result page's markup. It owns
// the parsed tree; its group and offering views are cheap handles into it
// and must not outlive it.
type ClassSchedule struct {
	doc  *goquery.Document
	page int
	tags *TagFormats
}

func NewClassSchedule(page Page) (*ClassSchedule, error) {
	return NewClassScheduleWithTags(page, &DefaultTagFormats)
}

func NewClassScheduleWithTags(page Page, tags *TagFormats) (*ClassSchedule, error) {
	if !utf8.Valid(page.Body) {
		return nil, ErrInvalidEncoding
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parse page %d: %w", page.Number, err)
	}
	return &ClassSchedule{
		doc:  doc,
		page: page.Number,
		tags: tags,
	}, nil
}

func (s *ClassSchedule) Page() int {
	return s.page
}

// SemesterLabel returns the semester display string rendered on the page,
// e.g. "Spring 2023".
func (s *ClassSchedule) SemesterLabel() (string, error) {
	return s.flatTextAt(s.tags.SemesterLabel)
}

// Groups returns views over every group index this page can render. The
// views are lazy: constructing them touches no markup, so absent groups
// only surface as errors once their fields are read.
func (s *ClassSchedule) Groups() []ClassGroup {
	first, last := groupWindow(s.page)
	groups := make([]ClassGroup, 0, last-first)
	for index := first; index < last; index++ {
		groups = append(groups, ClassGroup{schedule: s, index: index})
	}
	return groups
}

func (s *ClassSchedule) GroupAt(index int) ClassGroup {
	return ClassGroup{schedule: s, index: index}
}

// flatTextAt extracts the text of a widget that is expected to be a single
// flat text run. A nested element means the "widget is a leaf text node"
// assumption broke, and truncating or concatenating would silently corrupt
// the value.
func (s *ClassSchedule) flatTextAt(id string) (string, error) {
	node := htmlutil.FindById(s.doc, id)
	if node == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingTag, id)
	}
	if !htmlutil.SingleTextLeaf(node) {
		return "", fmt.Errorf("%w: %s is not a flat text element", ErrUnknownHtmlFormat, id)
	}
	return node.FirstChild.Data, nil
}

// nestedTextAt extracts the concatenated text of a widget that is expected
// to contain nested markup. The meeting schedule widget is the one field
// rendered this way; a flat text run there is as suspicious as nesting is
// elsewhere.
func (s *ClassSchedule) nestedTextAt(id string) (string, error) {
	node := htmlutil.FindById(s.doc, id)
	if node == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingTag, id)
	}
	if htmlutil.SingleTextLeaf(node) {
		return "", fmt.Errorf("%w: %s is a flat text element", ErrUnknownHtmlFormat, id)
	}
	return htmlutil.GetText(node), nil
}

// ClassGroup is a view over one cohort of mutually exclusive scheduling
// options (e.g. a lecture with its lab and recitation). Every accessor is
// independently fallible; one undecodable field never blocks its siblings.
type ClassGroup struct {
	schedule *ClassSchedule
	index    int
}

func (g ClassGroup) Index() int {
	return g.index
}

// SessionWeeks returns the length in weeks of the group's session, e.g.
// 15 for "University 15 Week Session".
func (g ClassGroup) SessionWeeks() (int, error) {
	text, err := g.schedule.flatTextAt(g.schedule.tags.sessionCodeId(g.index))
	if err != nil {
		return 0, err
	}
	return parseSessionWeeks(text)
}

func (g ClassGroup) StartDate() (time.Time, error) {
	start, _, err := g.dates()
	return start, err
}

func (g ClassGroup) EndDate() (time.Time, error) {
	_, end, err := g.dates()
	return end, err
}

func (g ClassGroup) dates() (time.Time, time.Time, error) {
	text, err := g.schedule.flatTextAt(g.schedule.tags.dateRangeId(g.index))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return parseDateRange(text)
}

// Offerings returns the group's three slot views. The portal always
// allocates three slots per group; unpopulated slots exist as views whose
// accessors fail with ErrMissingTag.
func (g ClassGroup) Offerings() []ClassOffering {
	offerings := make([]ClassOffering, SlotsPerGroup)
	for slot := 0; slot < SlotsPerGroup; slot++ {
		offerings[slot] = ClassOffering{
			schedule: g.schedule,
			group:    g.index,
			slot:     slot,
		}
	}
	return offerings
}

func (g ClassGroup) OfferingAt(slot int) ClassOffering {
	return ClassOffering{schedule: g.schedule, group: g.index, slot: slot}
}

// ClassOffering is a view over one scheduling option at a fixed slot
// within its group. Each attribute decodes from its own widget and is
// independently optional.
type ClassOffering struct {
	schedule *ClassSchedule
	group    int
	slot     int
}

func (o ClassOffering) Slot() int {
	return o.slot
}

func (o ClassOffering) descriptor() (ClassDescriptor, error) {
	text, err := o.schedule.flatTextAt(
		o.schedule.tags.classDescriptorId(o.group, o.slot),
	)
	if err != nil {
		return ClassDescriptor{}, err
	}
	return parseClassDescriptor(text)
}

func (o ClassOffering) Kind() (ClassKind, error) {
	info, err := o.descriptor()
	return info.Kind, err
}

func (o ClassOffering) ClassId() (int, error) {
	info, err := o.descriptor()
	return info.ClassId, err
}

func (o ClassOffering) Section() (string, error) {
	info, err := o.descriptor()
	return info.Section, err
}

// Meeting returns the offering's meeting days and times. A missing widget
// is not an error here: the portal legitimately omits it for asynchronous
// offerings and for slots rendered under a "Time Conflict" banner, so
// absence decodes to (nil, nil), an explicit "no scheduled meeting time".
func (o ClassOffering) Meeting() (*MeetingSchedule, error) {
	text, err := o.schedule.nestedTextAt(
		o.schedule.tags.meetingScheduleId(o.group, o.slot),
	)
	if err != nil {
		if errors.Is(err, ErrMissingTag) {
			return nil, nil
		}
		return nil, err
	}
	meeting, err := parseMeetingSchedule(text)
	if err != nil {
		return nil, err
	}
	return &meeting, nil
}

func (o ClassOffering) Days() ([]DayOfWeek, error) {
	meeting, err := o.Meeting()
	if err != nil || meeting == nil {
		return nil, err
	}
	return meeting.Days, nil
}

func (o ClassOffering) StartTime() (*time.Time, error) {
	meeting, err := o.Meeting()
	if err != nil || meeting == nil {
		return nil, err
	}
	return &meeting.StartTime, nil
}

func (o ClassOffering) EndTime() (*time.Time, error) {
	meeting, err := o.Meeting()
	if err != nil || meeting == nil {
		return nil, err
	}
	return &meeting.EndTime, nil
}

// Room returns the meeting location, e.g. "Nsc 215". The portal sometimes
// renders "Arr Arr" for to-be-arranged rooms; that is passed through
// untouched since no reliable grammar distinguishes it from a real room.
func (o ClassOffering) Room() (string, error) {
	return o.schedule.flatTextAt(o.schedule.tags.roomId(o.group, o.slot))
}

func (o ClassOffering) Instructor() (string, error) {
	// no validation: instructor names have no usable pattern
	return o.schedule.flatTextAt(o.schedule.tags.instructorId(o.group, o.slot))
}

// Seats returns the open/total seat counts, or nil when the portal shows
// the offering as "Closed" (a valid terminal state, not a decode failure).
func (o ClassOffering) Seats() (*SeatCount, error) {
	text, err := o.schedule.flatTextAt(o.schedule.tags.seatsId(o.group, o.slot))
	if err != nil {
		return nil, err
	}
	return parseSeats(text)
}

func (o ClassOffering) OpenSeats() (*int, error) {
	seats, err := o.Seats()
	if err != nil || seats == nil {
		return nil, err
	}
	return &seats.Open, nil
}

func (o ClassOffering) TotalSeats() (*int, error) {
	seats, err := o.Seats()
	if err != nil || seats == nil {
		return nil, err
	}
	return &seats.Total, nil
}

// IsOpen reports whether the offering still has open seats, decoded from
// the same widget as the seat counts. Seat text matching neither grammar
// is markup drift and errors out; only a decoded "Closed" reads as closed.
func (o ClassOffering) IsOpen() (bool, error) {
	seats, err := o.Seats()
	if err != nil {
		return false, err
	}
	return seats != nil, nil
}
