package commands

import (
	"fmt"
	"os"
	"ubsched/lib/catalog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogCoursesCmd)
	catalogCmd.AddCommand(catalogSemestersCmd)
	catalogCmd.AddCommand(catalogCareersCmd)
	rootCmd.AddCommand(catalogCmd)
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search <course>",
	Short: "Looks a course up by name, falling back to the closest match.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		course, err := catalog.ParseCourse(args[0])
		if err == nil {
			name := course.Name()
			if name == "" {
				name = "(raw id)"
			}
			fmt.Printf("%s -> %s\n", name, course.Id())
			return
		}

		suggestion, ok := catalog.SuggestCourse(args[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "no course resembling %q in the catalog\n", args[0])
			os.Exit(1)
		}
		fmt.Printf("closest match: %s -> %s\n", suggestion.Name(), suggestion.Id())
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Prints the known name-to-id mappings.",
}

var catalogCoursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "Prints every course with a known portal id.",
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Course", "Id", "Career"})

		for _, course := range catalog.Courses {
			careerId := "-"
			if career, ok := course.Career(); ok {
				careerId = career.Id()
			}
			t.AppendRow(table.Row{course.Name(), course.Id(), careerId})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()

		fmt.Println("Missing a course? Raw 6-digit portal ids are accepted anywhere a course name is.")
	},
}

var catalogSemestersCmd = &cobra.Command{
	Use:   "semesters",
	Short: "Prints every semester with a known term id.",
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Semester", "Id"})

		for _, semester := range catalog.Semesters {
			t.AppendRow(table.Row{semester.Name(), semester.Id()})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}

var catalogCareersCmd = &cobra.Command{
	Use:   "careers",
	Short: "Prints every known career id.",
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Career", "Id"})

		for _, career := range catalog.Careers {
			t.AppendRow(table.Row{career.Name(), career.Id()})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
