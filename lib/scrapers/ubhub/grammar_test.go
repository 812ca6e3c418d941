package ubhub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseClassDescriptor(t *testing.T) {
	info, err := parseClassDescriptor("Class Nbr 23229 - Section A5 LEC")
	require.NoError(t, err)
	require.Equal(t, 23229, info.ClassId)
	require.Equal(t, "A5", info.Section)
	require.Equal(t, KindLecture, info.Kind)
}

func TestParseClassDescriptorRejectsDrift(t *testing.T) {
	cases := []string{
		"",
		"Class Nbr 23229 - Section A5",
		"Class Nbr 23229 - Section A5 WKSHP", // unknown kind token
		"Class 23229 - Section A5 LEC",
		"Class Nbr 23229 Section A5 LEC",
	}
	for _, text := range cases {
		_, err := parseClassDescriptor(text)
		require.ErrorIsf(t, err, ErrUnknownElementFormat, "input: %q", text)
	}
}

func TestParseMeetingSchedule(t *testing.T) {
	meeting, err := parseMeetingSchedule("Monday Wednesday 3:00PM to 4:20PM")
	require.NoError(t, err)
	require.Equal(t, []DayOfWeek{Monday, Wednesday}, meeting.Days)
	require.Equal(t, "15:00", meeting.StartTime.Format("15:04"))
	require.Equal(t, "16:20", meeting.EndTime.Format("15:04"))
}

func TestParseMeetingScheduleRejectsUnknownDay(t *testing.T) {
	_, err := parseMeetingSchedule("Funday 3:00PM to 4:20PM")
	require.ErrorIs(t, err, ErrUnknownElementFormat)
}

func TestParseSeats(t *testing.T) {
	seats, err := parseSeats("Open Seats 5 of 30")
	require.NoError(t, err)
	require.NotNil(t, seats)
	require.Equal(t, 5, seats.Open)
	require.Equal(t, 30, seats.Total)
}

func TestParseSeatsClosedIsAbsentNotError(t *testing.T) {
	seats, err := parseSeats("Closed")
	require.NoError(t, err)
	require.Nil(t, seats)
}

func TestParseSeatsRejectsDrift(t *testing.T) {
	cases := []string{
		"Open Seats 5 of",
		"5 of 30",
		"Waitlist 5 of 30",
		"closed",
	}
	for _, text := range cases {
		_, err := parseSeats(text)
		require.ErrorIsf(t, err, ErrUnknownElementFormat, "input: %q", text)
	}
}

func TestParseSessionWeeks(t *testing.T) {
	weeks, err := parseSessionWeeks("University 15 Week Session")
	require.NoError(t, err)
	require.Equal(t, 15, weeks)

	weeks, err = parseSessionWeeks("University 6 Week Session")
	require.NoError(t, err)
	require.Equal(t, 6, weeks)

	_, err = parseSessionWeeks("University 123 Week Session")
	require.ErrorIs(t, err, ErrUnknownElementFormat)
}

func TestParseDateRange(t *testing.T) {
	start, end, err := parseDateRange("01/30/2023 - 05/12/2023")
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, time.January, 30, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2023, time.May, 12, 0, 0, 0, 0, time.UTC), end)
}

func TestParseDateRangeRejectsDrift(t *testing.T) {
	cases := []string{
		"01/30/2023",
		"01/30/2023 to 05/12/2023",
		"2023/01/30 - 2023/05/12",
	}
	for _, text := range cases {
		_, _, err := parseDateRange(text)
		require.ErrorIsf(t, err, ErrUnknownElementFormat, "input: %q", text)
	}
}
