package schedule

import (
	"fmt"
	"testing"
	"ubsched/lib/scrapers/ubhub"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func decodePage(t *testing.T, body string) []Group {
	t.Helper()
	decoded, err := ubhub.NewClassSchedule(ubhub.Page{Number: 1, Body: []byte(body)})
	require.NoError(t, err)
	return DecodeGroups(decoded)
}

func TestDecodeGroupsDropsEmptyWindow(t *testing.T) {
	groups := decodePage(t, `<html><body></body></html>`)
	require.Empty(t, groups)
}

func TestDecodeGroupsKeepsPartialOffering(t *testing.T) {
	tags := ubhub.DefaultTagFormats
	body := fmt.Sprintf(
		`<html><body>
			<span id="%s">Class Nbr 23229 - Section A5 LEC</span>
			<span id="%s">garbled seat text</span>
		</body></html>`,
		fmt.Sprintf(tags.ClassDescriptor, 1, tags.ClassDescriptorSeq[0], 0),
		fmt.Sprintf(tags.Seats, 1, 0),
	)

	groups := decodePage(t, body)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Offerings, 1)

	offering := groups[0].Offerings[0]
	require.Equal(t, 23229, *offering.ClassId)
	require.Equal(t, "A5", *offering.Section)
	// the seat widget failed its grammar; the field is absent, the
	// offering survives
	require.Nil(t, offering.OpenSeats)
	require.Nil(t, offering.IsOpen)
	require.Nil(t, groups[0].IsOpen)
}

func TestDecodeIsDeterministic(t *testing.T) {
	tags := ubhub.DefaultTagFormats
	body := fmt.Sprintf(
		`<html><body>
			<span id="%s">University 15 Week Session</span>
			<span id="%s">Class Nbr 23229 - Section A5 LEC</span>
			<span id="%s">Open Seats 5 of 30</span>
		</body></html>`,
		fmt.Sprintf(tags.SessionCode, 0),
		fmt.Sprintf(tags.ClassDescriptor, 1, tags.ClassDescriptorSeq[0], 0),
		fmt.Sprintf(tags.Seats, 1, 0),
	)

	first := decodePage(t, body)
	second := decodePage(t, body)
	diff := cmp.Diff(first, second)
	require.Emptyf(t, diff, "same page bytes decoded differently:\n%s", diff)
}

func TestDecodeGroupsDerivesOpenFromAnyMember(t *testing.T) {
	tags := ubhub.DefaultTagFormats
	body := fmt.Sprintf(
		`<html><body>
			<span id="%s">Class Nbr 1 - Section A LEC</span>
			<span id="%s">Closed</span>
			<span id="%s">Class Nbr 2 - Section B LAB</span>
			<span id="%s">Open Seats 1 of 20</span>
		</body></html>`,
		fmt.Sprintf(tags.ClassDescriptor, 1, tags.ClassDescriptorSeq[0], 0),
		fmt.Sprintf(tags.Seats, 1, 0),
		fmt.Sprintf(tags.ClassDescriptor, 2, tags.ClassDescriptorSeq[1], 0),
		fmt.Sprintf(tags.Seats, 2, 0),
	)

	groups := decodePage(t, body)
	require.Len(t, groups, 1)
	require.NotNil(t, groups[0].IsOpen)
	require.True(t, *groups[0].IsOpen)

	require.False(t, *groups[0].Offerings[0].IsOpen)
	require.True(t, *groups[0].Offerings[1].IsOpen)
}
