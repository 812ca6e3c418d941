package schedule

import (
	"strings"
	"testing"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"
)

func TestExportICal(t *testing.T) {
	rendered, err := ExportICal(fixtureSnapshot())
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(rendered))
	require.NoError(t, err)

	// only the lecture has a complete meeting time; the lab and the
	// second group's bare offering are skipped
	events := cal.Events()
	require.Len(t, events, 1)

	event := events[0]
	require.Contains(t, event.GetProperty(ics.ComponentPropertySummary).Value, "23229")
	require.Equal(t, "Nsc 215", event.GetProperty(ics.ComponentPropertyLocation).Value)

	rrule := event.GetProperty(ics.ComponentPropertyRrule)
	require.NotNil(t, rrule)
	require.Contains(t, rrule.Value, "FREQ=WEEKLY")
	require.Contains(t, rrule.Value, "BYDAY=MO,WE")
	require.Contains(t, rrule.Value, "UNTIL=")

	// 2023-01-30 is a Monday, so the first occurrence is the start date
	start, err := event.GetStartAt()
	require.NoError(t, err)
	require.Equal(t, "2023-01-30", start.Format("2006-01-02"))
}

func TestExportICalSkipsIncompleteGroups(t *testing.T) {
	snapshot := fixtureSnapshot()
	snapshot.Groups[0].EndDate = nil

	rendered, err := ExportICal(snapshot)
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(rendered))
	require.NoError(t, err)
	require.Empty(t, cal.Events())
}
