package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"
	"ubsched/lib/catalog"
	"ubsched/lib/restyutil"
	"ubsched/lib/scrapers/ubhub"
	"ubsched/lib/serviceutil"
	"ubsched/lib/sqliteutil"
	"ubsched/services/schedule"
	"ubsched/services/schedule/db"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scheduleFormat *string
	scheduleDb     *string
	scheduleRaw    *[]string
)

func init() {
	scheduleFormat = scheduleCmd.Flags().String("format", "table", "Output format: table, json or ics.")
	scheduleDb = scheduleCmd.Flags().String("db", "", "Also record the snapshot to this sqlite database.")
	scheduleRaw = scheduleCmd.Flags().StringSlice("raw", nil,
		"Pass arguments through as portal ids instead of catalog names: course, semester and/or career.")
	rootCmd.AddCommand(scheduleCmd)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule <course> <semester> [career]",
	Short: "Fetches the class schedule for a course, e.g. `schedule CSE115 spring2023`.",
	Args:  cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		query, err := resolveQuery(args)
		if err != nil {
			serviceutil.Fatal("bad query", err)
		}

		client := ubhub.NewClient(ubhub.ClientOptions{})
		if *verbose {
			client.SetInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/ubhub"))
		}

		var store *schedule.Store
		if *scheduleDb != "" {
			database, err := sqliteutil.OpenDB(db.Schema, *scheduleDb)
			if err != nil {
				serviceutil.Fatal("failed to open db", err)
			}
			defer database.Close()
			s := schedule.NewStore(database)
			store = &s
		}

		service := schedule.NewService(schedule.ServiceOptions{
			Client: client,
			Store:  store,
		})

		t1 := time.Now()
		snapshot, err := service.Fetch(cmd.Context(), query)
		if err != nil {
			serviceutil.Fatal("fetch failed", err)
		}
		slog.Info("fetched schedule",
			"groups", len(snapshot.Groups),
			"seconds", time.Since(t1).Seconds(),
		)

		switch *scheduleFormat {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(snapshot); err != nil {
				serviceutil.Fatal("failed to encode snapshot", err)
			}
		case "ics":
			rendered, err := schedule.ExportICal(snapshot)
			if err != nil {
				serviceutil.Fatal("failed to render calendar", err)
			}
			fmt.Print(rendered)
		case "table":
			renderTable(snapshot)
		default:
			serviceutil.Fatal("unknown format", fmt.Errorf("%q is not table, json or ics", *scheduleFormat))
		}
	},
}

func resolveQuery(args []string) (schedule.Query, error) {
	raw := func(name string) bool {
		return slices.Contains(*scheduleRaw, name)
	}

	var query schedule.Query
	var err error

	if raw("course") {
		query.Course = catalog.RawCourse(args[0])
	} else {
		query.Course, err = catalog.ParseCourse(args[0])
		if err != nil {
			return schedule.Query{}, err
		}
	}

	if raw("semester") {
		query.Semester = catalog.RawSemester(args[1])
	} else {
		query.Semester, err = catalog.ParseSemester(args[1])
		if err != nil {
			return schedule.Query{}, err
		}
	}

	if len(args) == 3 {
		if raw("career") {
			query.Career = catalog.RawCareer(args[2])
		} else {
			query.Career, err = catalog.ParseCareer(args[2])
			if err != nil {
				return schedule.Query{}, err
			}
		}
	}

	return query, nil
}

func renderTable(snapshot schedule.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	if snapshot.SemesterLabel != "" {
		t.SetTitle(snapshot.SemesterLabel)
	}
	t.AppendHeader(table.Row{
		"Group", "Class", "Section", "Kind", "Meets", "Room", "Instructor", "Seats",
	})

	for _, group := range snapshot.Groups {
		for _, offering := range group.Offerings {
			t.AppendRow(table.Row{
				group.Index,
				orDash(intText(offering.ClassId)),
				orDash(strText(offering.Section)),
				orDash(strText(offering.Kind)),
				meetsText(offering),
				orDash(strText(offering.Room)),
				orDash(strText(offering.Instructor)),
				seatsText(offering),
			})
		}
		t.AppendSeparator()
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func strText(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intText(n *int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprint(*n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func meetsText(offering schedule.Offering) string {
	if len(offering.Days) == 0 || offering.StartTime == nil || offering.EndTime == nil {
		return "async"
	}
	days := make([]string, len(offering.Days))
	for i, day := range offering.Days {
		days[i] = day[:3]
	}
	return fmt.Sprintf("%s %s-%s", strings.Join(days, "/"), *offering.StartTime, *offering.EndTime)
}

func seatsText(offering schedule.Offering) string {
	if offering.IsOpen != nil && !*offering.IsOpen {
		return "closed"
	}
	if offering.OpenSeats == nil || offering.TotalSeats == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d", *offering.OpenSeats, *offering.TotalSeats)
}
