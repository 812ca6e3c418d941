package schedule

import (
	"errors"
	"time"
	"ubsched/lib/scrapers/ubhub"
)

// Snapshot is the flattened, serializable form of one schedule fetch.
// Decoding is lossy on purpose: every widget decodes independently, so a
// field the portal rendered unreadably becomes an absent field rather than
// a failed snapshot.
type Snapshot struct {
	Course        string    `json:"course"`
	Semester      string    `json:"semester"`
	Career        string    `json:"career"`
	SemesterLabel string    `json:"semester_label,omitempty"`
	FetchedAt     time.Time `json:"fetched_at"`
	Groups        []Group   `json:"groups"`
}

type Group struct {
	Index        int        `json:"index"`
	IsOpen       *bool      `json:"is_open,omitempty"`
	SessionWeeks *int       `json:"session_weeks,omitempty"`
	StartDate    *string    `json:"start_date,omitempty"`
	EndDate      *string    `json:"end_date,omitempty"`
	Offerings    []Offering `json:"offerings"`
}

type Offering struct {
	Slot       int      `json:"slot"`
	Kind       *string  `json:"kind,omitempty"`
	ClassId    *int     `json:"class_id,omitempty"`
	Section    *string  `json:"section,omitempty"`
	Days       []string `json:"days,omitempty"`
	StartTime  *string  `json:"start_time,omitempty"`
	EndTime    *string  `json:"end_time,omitempty"`
	Room       *string  `json:"room,omitempty"`
	Instructor *string  `json:"instructor,omitempty"`
	OpenSeats  *int     `json:"open_seats,omitempty"`
	TotalSeats *int     `json:"total_seats,omitempty"`
	IsOpen     *bool    `json:"is_open,omitempty"`
}

const (
	dateFormat = "2006-01-02"
	timeFormat = "15:04"
)

// DecodeGroups flattens every populated group on a page. Groups whose
// widgets are entirely absent are trailing padding in the page's render
// window and are dropped; groups that decode partially are kept with the
// fields that survived.
func DecodeGroups(s *ubhub.ClassSchedule) []Group {
	var groups []Group
	for _, view := range s.Groups() {
		group, populated := decodeGroup(view)
		if !populated {
			continue
		}
		groups = append(groups, group)
	}
	return groups
}

func decodeGroup(view ubhub.ClassGroup) (Group, bool) {
	group := Group{Index: view.Index()}
	populated := false

	if weeks, err := view.SessionWeeks(); err == nil {
		group.SessionWeeks = &weeks
		populated = true
	}
	if start, err := view.StartDate(); err == nil {
		text := start.Format(dateFormat)
		group.StartDate = &text
		populated = true
	}
	if end, err := view.EndDate(); err == nil {
		text := end.Format(dateFormat)
		group.EndDate = &text
		populated = true
	}

	for _, offeringView := range view.Offerings() {
		offering, offeringPopulated := decodeOffering(offeringView)
		if !offeringPopulated {
			continue
		}
		populated = true
		group.Offerings = append(group.Offerings, offering)

		// a group is open as long as any of its options is; unknown
		// stays unknown rather than defaulting to closed
		if offering.IsOpen != nil {
			if group.IsOpen == nil {
				open := false
				group.IsOpen = &open
			}
			if *offering.IsOpen {
				*group.IsOpen = true
			}
		}
	}

	return group, populated
}

func decodeOffering(view ubhub.ClassOffering) (Offering, bool) {
	offering := Offering{Slot: view.Slot()}

	// the descriptor is the one widget every rendered slot carries; its
	// absence means the slot was never populated
	_, err := view.ClassId()
	if errors.Is(err, ubhub.ErrMissingTag) {
		return offering, false
	}

	if kind, err := view.Kind(); err == nil {
		text := kind.String()
		offering.Kind = &text
	}
	if id, err := view.ClassId(); err == nil {
		offering.ClassId = &id
	}
	if section, err := view.Section(); err == nil {
		offering.Section = &section
	}
	if meeting, err := view.Meeting(); err == nil && meeting != nil {
		for _, day := range meeting.Days {
			offering.Days = append(offering.Days, day.String())
		}
		start := meeting.StartTime.Format(timeFormat)
		end := meeting.EndTime.Format(timeFormat)
		offering.StartTime = &start
		offering.EndTime = &end
	}
	if room, err := view.Room(); err == nil {
		offering.Room = &room
	}
	if instructor, err := view.Instructor(); err == nil {
		offering.Instructor = &instructor
	}
	if seats, err := view.Seats(); err == nil && seats != nil {
		offering.OpenSeats = &seats.Open
		offering.TotalSeats = &seats.Total
	}
	if isOpen, err := view.IsOpen(); err == nil {
		offering.IsOpen = &isOpen
	}

	return offering, true
}
