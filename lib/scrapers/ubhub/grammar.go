package ubhub

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Text grammars of the individual widgets, reproduced verbatim from pages
// the portal serves. Any text that matches none of these is markup drift
// and must surface as ErrUnknownElementFormat rather than a guess.
var (
	classDescriptorRe = regexp.MustCompile(`^Class Nbr (\d+) - Section ([A-Z](?:\d?)+) ([A-Z]+)$`)
	meetingScheduleRe = regexp.MustCompile(`^((?:[A-Z][a-z]+\s)+)(\d?\d:\d\d(?:AM|PM)) to (\d?\d:\d\d(?:AM|PM))$`)
	seatsRe           = regexp.MustCompile(`^Open Seats (\d+) of (\d+)$`)
	sessionWeeksRe    = regexp.MustCompile(`^University (\d\d?) Week Session$`)
)

const (
	dateLayout      = "01/02/2006"
	timeLayout      = "3:04PM"
	dateRangeSep    = " - "
	closedSeatsText = "Closed"
)

// ClassKind is the offering's instructional format. The portal renders it
// as a closed set of codes; an unknown code is a decode failure, not a new
// variant.
type ClassKind int

const (
	KindRecitation ClassKind = iota
	KindLab
	KindLecture
	KindSeminar
)

func (k ClassKind) String() string {
	switch k {
	case KindRecitation:
		return "Recitation"
	case KindLab:
		return "Lab"
	case KindLecture:
		return "Lecture"
	case KindSeminar:
		return "Seminar"
	}
	return fmt.Sprintf("ClassKind(%d)", int(k))
}

func parseClassKind(s string) (ClassKind, error) {
	switch s {
	case "REC":
		return KindRecitation, nil
	case "LAB":
		return KindLab, nil
	case "LEC":
		return KindLecture, nil
	case "SEM":
		return KindSeminar, nil
	}
	return 0, fmt.Errorf("%w: class kind %q", ErrUnknownElementFormat, s)
}

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = [...]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

func (d DayOfWeek) String() string {
	if d < Sunday || d > Saturday {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return dayNames[d]
}

func parseDayOfWeek(s string) (DayOfWeek, error) {
	for i, name := range dayNames {
		if s == name {
			return DayOfWeek(i), nil
		}
	}
	return 0, fmt.Errorf("%w: day of week %q", ErrUnknownElementFormat, s)
}

// ClassDescriptor is the decoded form of the compound
// "Class Nbr <id> - Section <code> <KIND>" widget.
type ClassDescriptor struct {
	ClassId int
	Section string
	Kind    ClassKind
}

func parseClassDescriptor(text string) (ClassDescriptor, error) {
	groups := classDescriptorRe.FindStringSubmatch(text)
	if groups == nil {
		return ClassDescriptor{}, fmt.Errorf("%w: class descriptor %q", ErrUnknownElementFormat, text)
	}
	id, err := strconv.Atoi(groups[1])
	if err != nil {
		return ClassDescriptor{}, fmt.Errorf("%w: class number %q", ErrUnknownElementFormat, groups[1])
	}
	kind, err := parseClassKind(groups[3])
	if err != nil {
		return ClassDescriptor{}, err
	}
	return ClassDescriptor{
		ClassId: id,
		Section: groups[2],
		Kind:    kind,
	}, nil
}

// MeetingSchedule is the decoded form of the
// "<Day...> <start> to <end>" widget.
type MeetingSchedule struct {
	Days      []DayOfWeek
	StartTime time.Time
	EndTime   time.Time
}

func parseMeetingSchedule(text string) (MeetingSchedule, error) {
	groups := meetingScheduleRe.FindStringSubmatch(text)
	if groups == nil {
		return MeetingSchedule{}, fmt.Errorf("%w: meeting schedule %q", ErrUnknownElementFormat, text)
	}

	var days []DayOfWeek
	for _, field := range strings.Fields(groups[1]) {
		day, err := parseDayOfWeek(field)
		if err != nil {
			return MeetingSchedule{}, err
		}
		days = append(days, day)
	}

	start, err := time.Parse(timeLayout, groups[2])
	if err != nil {
		return MeetingSchedule{}, fmt.Errorf("%w: start time %q", ErrUnknownElementFormat, groups[2])
	}
	end, err := time.Parse(timeLayout, groups[3])
	if err != nil {
		return MeetingSchedule{}, fmt.Errorf("%w: end time %q", ErrUnknownElementFormat, groups[3])
	}

	return MeetingSchedule{
		Days:      days,
		StartTime: start,
		EndTime:   end,
	}, nil
}

type SeatCount struct {
	Open  int
	Total int
}

// parseSeats decodes "Open Seats <n> of <m>". The literal "Closed" is a
// valid terminal value and yields a nil count with no error; it is not
// the same as a missing widget.
func parseSeats(text string) (*SeatCount, error) {
	if text == closedSeatsText {
		return nil, nil
	}
	groups := seatsRe.FindStringSubmatch(text)
	if groups == nil {
		return nil, fmt.Errorf("%w: seat count %q", ErrUnknownElementFormat, text)
	}
	open, err := strconv.Atoi(groups[1])
	if err != nil {
		return nil, fmt.Errorf("%w: open seats %q", ErrUnknownElementFormat, groups[1])
	}
	total, err := strconv.Atoi(groups[2])
	if err != nil {
		return nil, fmt.Errorf("%w: total seats %q", ErrUnknownElementFormat, groups[2])
	}
	return &SeatCount{Open: open, Total: total}, nil
}

func parseSessionWeeks(text string) (int, error) {
	groups := sessionWeeksRe.FindStringSubmatch(text)
	if groups == nil {
		return 0, fmt.Errorf("%w: session length %q", ErrUnknownElementFormat, text)
	}
	weeks, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, fmt.Errorf("%w: session length %q", ErrUnknownElementFormat, groups[1])
	}
	return weeks, nil
}

func parseDateRange(text string) (start, end time.Time, err error) {
	sides := strings.SplitN(text, dateRangeSep, 2)
	if len(sides) != 2 {
		return start, end, fmt.Errorf("%w: date range %q", ErrUnknownElementFormat, text)
	}
	start, err = time.Parse(dateLayout, sides[0])
	if err != nil {
		return start, end, fmt.Errorf("%w: start date %q", ErrUnknownElementFormat, sides[0])
	}
	end, err = time.Parse(dateLayout, sides[1])
	if err != nil {
		return start, end, fmt.Errorf("%w: end date %q", ErrUnknownElementFormat, sides[1])
	}
	return start, end, nil
}
