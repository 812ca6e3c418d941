// catalog-gen regenerates the course table in lib/catalog from its CSV
// source. Invoked through go:generate; see lib/catalog/catalog.go.
package main

import (
	"bytes"
	"encoding/csv"
	"flag"
	"go/format"
	"io"
	"os"
	"sort"
	"text/template"
	"ubsched/lib/serviceutil"

	"log/slog"
)

type course struct {
	Id     string
	Career string
	Name   string
}

var fileTemplate = template.Must(template.New("courses").Parse(
	`// Code generated by catalog-gen; DO NOT EDIT.

package catalog

// Courses holds every course with a known id mapping, sourced from
// courses.csv.
var Courses = []Course{
{{- range .}}
	{id: {{printf "%q" .Id}}, name: {{printf "%q" .Name}}, career: {{printf "%q" .Career}}},
{{- end}}
}
`))

func readCourses(path string) ([]course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// header row
	if _, err := reader.Read(); err != nil {
		return nil, err
	}

	var courses []course
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		courses = append(courses, course{
			Id:     record[0],
			Career: record[1],
			Name:   record[2],
		})
	}

	sort.Slice(courses, func(i, j int) bool {
		return courses[i].Name < courses[j].Name
	})
	return courses, nil
}

func main() {
	in := flag.String("in", "courses.csv", "course table csv")
	out := flag.String("out", "courses_gen.go", "generated go source")
	flag.Parse()

	courses, err := readCourses(*in)
	if err != nil {
		serviceutil.Fatal("read course table", err)
	}

	var buffer bytes.Buffer
	if err := fileTemplate.Execute(&buffer, courses); err != nil {
		serviceutil.Fatal("render course table", err)
	}
	source, err := format.Source(buffer.Bytes())
	if err != nil {
		serviceutil.Fatal("format course table", err)
	}
	if err := os.WriteFile(*out, source, 0644); err != nil {
		serviceutil.Fatal("write course table", err)
	}

	slog.Info("regenerated course table", slog.Int("courses", len(courses)))
}
