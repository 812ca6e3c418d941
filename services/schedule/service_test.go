package schedule

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"ubsched/lib/catalog"
	"ubsched/lib/scrapers/ubhub"
	"ubsched/lib/testutil"
	"ubsched/lib/timezone"
	"ubsched/services/schedule/db"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func fixtureSnapshot() Snapshot {
	return Snapshot{
		Course:        "004544",
		Semester:      "2231",
		Career:        "UGRD",
		SemesterLabel: "Spring 2023",
		FetchedAt:     time.Unix(timezone.Now().Unix(), 0).In(timezone.Location),
		Groups: []Group{
			{
				Index:        0,
				IsOpen:       ptr(true),
				SessionWeeks: ptr(15),
				StartDate:    ptr("2023-01-30"),
				EndDate:      ptr("2023-05-12"),
				Offerings: []Offering{
					{
						Slot:       0,
						Kind:       ptr("Lecture"),
						ClassId:    ptr(23229),
						Section:    ptr("A5"),
						Days:       []string{"Monday", "Wednesday"},
						StartTime:  ptr("15:00"),
						EndTime:    ptr("16:20"),
						Room:       ptr("Nsc 215"),
						Instructor: ptr("Alan Hunt"),
						OpenSeats:  ptr(5),
						TotalSeats: ptr(30),
						IsOpen:     ptr(true),
					},
					{
						Slot:    1,
						Kind:    ptr("Lab"),
						ClassId: ptr(23230),
						Section: ptr("B1"),
						Room:    ptr("Capen 201"),
						IsOpen:  ptr(false),
					},
				},
			},
			{
				Index:     1,
				Offerings: []Offering{{Slot: 0, ClassId: ptr(23240)}},
			},
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/schedule",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	snapshot := fixtureSnapshot()
	require.NoError(t, store.Save(ctx, snapshot))

	restored, err := store.Latest(ctx, "004544", "2231", "UGRD")
	require.NoError(t, err)

	diff := cmp.Diff(snapshot, restored)
	require.Emptyf(t, diff, "snapshot changed across save/load:\n%s", diff)
}

func TestStoreLatestWins(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/schedule",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx := context.Background()

	older := fixtureSnapshot()
	older.FetchedAt = older.FetchedAt.Add(-time.Hour)
	older.SemesterLabel = "stale"
	require.NoError(t, store.Save(ctx, older))

	newer := fixtureSnapshot()
	require.NoError(t, store.Save(ctx, newer))

	restored, err := store.Latest(ctx, "004544", "2231", "UGRD")
	require.NoError(t, err)
	require.Equal(t, "Spring 2023", restored.SemesterLabel)
}

func TestStoreLatestMissing(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/schedule",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	_, err := store.Latest(context.Background(), "000000", "2231", "UGRD")
	require.ErrorIs(t, err, ErrNoSnapshot)
}

// schedulePage renders the minimal markup of a one-group result page using
// the portal's real widget id scheme.
func schedulePage() string {
	tags := ubhub.DefaultTagFormats
	span := func(id, text string) string {
		return fmt.Sprintf(`<span id="%s">%s</span>`, id, text)
	}
	return `<html><body>` +
		span(tags.SemesterLabel, "Spring 2023") +
		span(fmt.Sprintf(tags.SessionCode, 0), "University 15 Week Session") +
		span(fmt.Sprintf(tags.DateRange, 0), "01/30/2023 - 05/12/2023") +
		span(
			fmt.Sprintf(tags.ClassDescriptor, 1, tags.ClassDescriptorSeq[0], 0),
			"Class Nbr 23229 - Section A5 LEC",
		) +
		fmt.Sprintf(
			`<div id="%s"><span>Monday Wednesday </span><span>3:00PM to 4:20PM</span></div>`,
			fmt.Sprintf(tags.MeetingSchedule, 1, tags.MeetingScheduleSeq[0], 0),
		) +
		span(fmt.Sprintf(tags.Room, 1, 0), "Nsc 215") +
		span(fmt.Sprintf(tags.Instructor, 1, tags.InstructorSeq[0], 0), "Alan Hunt") +
		span(fmt.Sprintf(tags.Seats, 1, 0), "Open Seats 5 of 30") +
		`</body></html>`
}

func testPortal(t *testing.T) *ubhub.Endpoints {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/landing", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:  "psprd-8083-PORTAL-PSJSESSIONID",
			Value: "token",
		})
	})
	mux.HandleFunc("/prime/", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/schedule", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, schedulePage())
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &ubhub.Endpoints{
		TokenA:         server.URL + "/landing",
		TokenB:         server.URL + "/landing?again=1",
		PrimeA:         server.URL + "/prime/a",
		PrimeB:         server.URL + "/prime/b",
		ScheduleFormat: server.URL + "/schedule?CRSE_ID=%s&STRM=%s&ACAD_CAREER=%s",
	}
}

func TestFetchPersistsSnapshot(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "services/schedule",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	service := NewService(ServiceOptions{
		Client: ubhub.NewClient(ubhub.ClientOptions{Endpoints: testPortal(t)}),
		Store:  &store,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	course, err := catalog.ParseCourse("CSE115")
	require.NoError(t, err)
	semester, err := catalog.ParseSemester("Spring 2023")
	require.NoError(t, err)

	snapshot, err := service.Fetch(ctx, Query{Course: course, Semester: semester})
	require.NoError(t, err)
	require.Equal(t, "Spring 2023", snapshot.SemesterLabel)
	require.Len(t, snapshot.Groups, 1)
	require.Len(t, snapshot.Groups[0].Offerings, 1)

	lecture := snapshot.Groups[0].Offerings[0]
	require.Equal(t, 23229, *lecture.ClassId)
	require.Equal(t, "Lecture", *lecture.Kind)
	require.Equal(t, []string{"Monday", "Wednesday"}, lecture.Days)
	require.Equal(t, "15:00", *lecture.StartTime)
	require.True(t, *snapshot.Groups[0].IsOpen)

	restored, err := store.Latest(ctx, "004544", "2231", "UGRD")
	require.NoError(t, err)
	diff := cmp.Diff(snapshot.Groups, restored.Groups)
	require.Emptyf(t, diff, "persisted snapshot diverged:\n%s", diff)
}

func TestFetchRequiresInferrableCareer(t *testing.T) {
	service := NewService(ServiceOptions{
		Client: ubhub.NewClient(ubhub.ClientOptions{Endpoints: testPortal(t)}),
	})

	semester, err := catalog.ParseSemester("2231")
	require.NoError(t, err)

	_, err = service.Fetch(context.Background(), Query{
		Course:   catalog.RawCourse("999999"),
		Semester: semester,
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "career is required")
}
