package schedule

import (
	"fmt"
	"strings"
	"time"
	"ubsched/lib/timezone"

	ics "github.com/arran4/golang-ical"
)

var byDayCodes = map[string]string{
	"Sunday":    "SU",
	"Monday":    "MO",
	"Tuesday":   "TU",
	"Wednesday": "WE",
	"Thursday":  "TH",
	"Friday":    "FR",
	"Saturday":  "SA",
}

var weekdayNumbers = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// ExportICal renders the snapshot's offerings as a calendar of weekly
// recurring events. Offerings without a complete meeting time (async
// sections, partially decoded widgets) are skipped; a calendar entry with
// a guessed time is worse than none.
func ExportICal(snapshot Snapshot) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ubsched//schedule export//EN")

	for _, group := range snapshot.Groups {
		if group.StartDate == nil || group.EndDate == nil {
			continue
		}
		startDate, err := time.ParseInLocation(dateFormat, *group.StartDate, timezone.Location)
		if err != nil {
			return "", fmt.Errorf("group %d start date: %w", group.Index, err)
		}
		endDate, err := time.ParseInLocation(dateFormat, *group.EndDate, timezone.Location)
		if err != nil {
			return "", fmt.Errorf("group %d end date: %w", group.Index, err)
		}

		for _, offering := range group.Offerings {
			if offering.ClassId == nil ||
				len(offering.Days) == 0 ||
				offering.StartTime == nil ||
				offering.EndTime == nil {
				continue
			}

			startClock, err := time.Parse(timeFormat, *offering.StartTime)
			if err != nil {
				return "", fmt.Errorf("class %d start time: %w", *offering.ClassId, err)
			}
			endClock, err := time.Parse(timeFormat, *offering.EndTime)
			if err != nil {
				return "", fmt.Errorf("class %d end time: %w", *offering.ClassId, err)
			}

			first, err := firstMeeting(startDate, offering.Days)
			if err != nil {
				return "", fmt.Errorf("class %d: %w", *offering.ClassId, err)
			}
			eventStart := time.Date(
				first.Year(), first.Month(), first.Day(),
				startClock.Hour(), startClock.Minute(), 0, 0, timezone.Location,
			)
			eventEnd := time.Date(
				first.Year(), first.Month(), first.Day(),
				endClock.Hour(), endClock.Minute(), 0, 0, timezone.Location,
			)

			event := cal.AddEvent(fmt.Sprintf(
				"%d-%d-%d@%s", *offering.ClassId, group.Index, offering.Slot, snapshot.Semester,
			))
			event.SetDtStampTime(snapshot.FetchedAt)
			event.SetStartAt(eventStart)
			event.SetEndAt(eventEnd)
			event.SetSummary(eventSummary(snapshot, offering))
			if offering.Room != nil {
				event.SetLocation(*offering.Room)
			}
			if offering.Instructor != nil {
				event.SetDescription("Instructor: " + *offering.Instructor)
			}

			byDay, err := byDayRule(offering.Days)
			if err != nil {
				return "", fmt.Errorf("class %d: %w", *offering.ClassId, err)
			}
			event.AddRrule(fmt.Sprintf(
				"FREQ=WEEKLY;BYDAY=%s;UNTIL=%s",
				byDay, endDate.UTC().Format("20060102T150405Z"),
			))
		}
	}

	return cal.Serialize(), nil
}

func eventSummary(snapshot Snapshot, offering Offering) string {
	summary := fmt.Sprintf("Class %d", *offering.ClassId)
	if offering.Section != nil {
		summary += " " + *offering.Section
	}
	if offering.Kind != nil {
		summary += " (" + *offering.Kind + ")"
	}
	if snapshot.SemesterLabel != "" {
		summary += " - " + snapshot.SemesterLabel
	}
	return summary
}

// firstMeeting finds the earliest day on or after the session start that
// falls on one of the meeting days.
func firstMeeting(start time.Time, days []string) (time.Time, error) {
	meets := map[time.Weekday]bool{}
	for _, day := range days {
		weekday, ok := weekdayNumbers[day]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown meeting day %q", day)
		}
		meets[weekday] = true
	}
	for offset := 0; offset < 7; offset++ {
		candidate := start.AddDate(0, 0, offset)
		if meets[candidate.Weekday()] {
			return candidate, nil
		}
	}
	return time.Time{}, fmt.Errorf("no meeting day within a week of %s", start.Format(dateFormat))
}

func byDayRule(days []string) (string, error) {
	codes := make([]string, len(days))
	for i, day := range days {
		code, ok := byDayCodes[day]
		if !ok {
			return "", fmt.Errorf("unknown meeting day %q", day)
		}
		codes[i] = code
	}
	return strings.Join(codes, ","), nil
}
