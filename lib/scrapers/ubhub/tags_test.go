package ubhub

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWidgetIdsMatchObservedPortalIds(t *testing.T) {
	tags := DefaultTagFormats

	// ids lifted from real rendered pages, byte for byte
	require.Equal(t, "SSR_DER_CS_GRP_SESSION_CODE$215$$0", tags.sessionCodeId(0))
	require.Equal(t, "SSR_CLSRCH_F_WK_SSR_MTG_DT_LONG_1$88$$7", tags.dateRangeId(7))
	require.Equal(t, "SSR_CLSRCH_F_WK_SSR_CMPNT_DESCR_1$294$$0", tags.classDescriptorId(0, 0))
	require.Equal(t, "SSR_CLSRCH_F_WK_SSR_CMPNT_DESCR_2$295$$3", tags.classDescriptorId(3, 1))
	require.Equal(t, "SSR_CLSRCH_F_WK_SSR_CMPNT_DESCR_3$296$$49", tags.classDescriptorId(49, 2))
	require.Equal(t, "SSR_CLSRCH_F_WK_SSR_MTG_SCHED_L_1$134$$0", tags.meetingScheduleId(0, 0))
	require.Equal(t, "SSR_CLSRCH_F_WK_SSR_MTG_SCHED_L_2$135$$0", tags.meetingScheduleId(0, 1))
	require.Equal(t, "SSR_CLSRCH_F_WK_SSR_MTG_SCHED_L_3$154$$12", tags.meetingScheduleId(12, 2))
	require.Equal(t, "SSR_CLSRCH_F_WK_SSR_MTG_LOC_LONG_1$0", tags.roomId(0, 0))
	require.Equal(t, "SSR_CLSRCH_F_WK_SSR_INSTR_LONG_2$161$$5", tags.instructorId(5, 1))
	require.Equal(t, "SSR_CLSRCH_F_WK_SSR_DESCR50_3$21", tags.seatsId(21, 2))
}

func TestWidgetIdsPairwiseDistinct(t *testing.T) {
	tags := DefaultTagFormats
	seen := map[string]string{}

	record := func(purpose, id string) {
		prev, dup := seen[id]
		require.Falsef(t, dup, "id %q produced by both %s and %s", id, prev, purpose)
		seen[id] = purpose
	}

	for group := 0; group < 100; group++ {
		record("session", tags.sessionCodeId(group))
		record("dates", tags.dateRangeId(group))
		for slot := 0; slot < SlotsPerGroup; slot++ {
			record("descriptor", tags.classDescriptorId(group, slot))
			record("meeting", tags.meetingScheduleId(group, slot))
			record("room", tags.roomId(group, slot))
			record("instructor", tags.instructorId(group, slot))
			record("seats", tags.seatsId(group, slot))
		}
	}
}

func TestWidgetIdsDeterministic(t *testing.T) {
	tags := DefaultTagFormats
	for slot := 0; slot < SlotsPerGroup; slot++ {
		require.Equal(t, tags.classDescriptorId(42, slot), tags.classDescriptorId(42, slot))
		require.Equal(t, tags.instructorId(42, slot), tags.instructorId(42, slot))
	}
}

func TestGroupWindow(t *testing.T) {
	cases := []struct {
		page  int
		first int
		last  int
	}{
		{page: 1, first: 0, last: 49},
		{page: 2, first: 50, last: 99},
		{page: 3, first: 100, last: 149},
	}
	for _, test := range cases {
		first, last := groupWindow(test.page)
		require.Equal(t, test.first, first)
		require.Equal(t, test.last, last)
	}
}
