// Package catalog maps human-readable course, semester and career names to
// the opaque ids the portal's network API is keyed on. The course table is
// generated from courses.csv; there is no known way to enumerate the
// mappings automatically, so the table grows by hand as ids are observed.
package catalog

//go:generate go run ubsched/cmd/catalog-gen -in courses.csv -out courses_gen.go

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var ErrUnknownEntry = errors.New("unknown catalog entry")

// suggestions below this similarity are noise
const suggestThreshold = 0.8

var (
	rawCourseIdRe   = regexp.MustCompile(`^\d{6}$`)
	rawSemesterIdRe = regexp.MustCompile(`^\d{4}$`)
	rawCareerIdRe   = regexp.MustCompile(`^[A-Z]{3,4}$`)
)

// Course identifies one catalog entry by the portal's internal course id.
// Raw courses carry an id with no name and no known career.
type Course struct {
	id     string
	name   string
	career string
}

// RawCourse wraps a portal course id that has no entry in the catalog yet.
func RawCourse(id string) Course {
	return Course{id: id}
}

func (c Course) Id() string {
	return c.id
}

// Name returns the canonical catalog name, or "" for raw ids.
func (c Course) Name() string {
	return c.name
}

// Career infers the career from the course. Raw courses report false since
// the career depends entirely on which course the id denotes.
func (c Course) Career() (Career, bool) {
	if c.career == "" {
		return Career{}, false
	}
	for _, career := range Careers {
		if career.id == c.career {
			return career, true
		}
	}
	return Career{id: c.career}, true
}

// ParseCourse resolves a course name like "CSE 115" to its catalog entry.
// A six-digit string is accepted verbatim as a raw portal id. Anything else
// fails, with the closest catalog name folded into the error when one is
// plausible.
func ParseCourse(s string) (Course, error) {
	key := normalize(s)
	for _, course := range Courses {
		if course.name == key {
			return course, nil
		}
	}
	if rawCourseIdRe.MatchString(key) {
		return RawCourse(key), nil
	}
	if suggestion, ok := SuggestCourse(s); ok {
		return Course{}, fmt.Errorf(
			"%w: course %q (did you mean %q?)",
			ErrUnknownEntry, s, suggestion.name,
		)
	}
	return Course{}, fmt.Errorf("%w: course %q", ErrUnknownEntry, s)
}

// SuggestCourse returns the catalog course most similar to the input, if
// any is similar enough to be worth showing.
func SuggestCourse(s string) (Course, bool) {
	key := normalize(s)
	var best Course
	var bestSimilarity float64
	for _, course := range Courses {
		similarity := matchr.JaroWinkler(key, course.name, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = course
		}
	}
	return best, bestSimilarity >= suggestThreshold
}

// Semester identifies an academic term by the portal's 4-digit term id.
type Semester struct {
	id   string
	name string
}

// Semesters holds every term with a known id mapping, most recent last.
// There is no known endpoint to enumerate these either. Only 2231 has
// been observed against the live portal; the later ids extrapolate the
// PeopleSoft term-numbering pattern and have not been verified.
var Semesters = []Semester{
	{id: "2231", name: "SPRING2023"},
	{id: "2236", name: "SUMMER2023"},
	{id: "2239", name: "FALL2023"},
	{id: "2240", name: "WINTER2024"},
	{id: "2241", name: "SPRING2024"},
}

func RawSemester(id string) Semester {
	return Semester{id: id}
}

func (s Semester) Id() string {
	return s.id
}

func (s Semester) Name() string {
	return s.name
}

// ParseSemester resolves names like "Spring 2023"; a bare 4-digit string is
// accepted verbatim as a raw term id.
func ParseSemester(s string) (Semester, error) {
	key := normalize(s)
	for _, semester := range Semesters {
		if semester.name == key {
			return semester, nil
		}
	}
	if rawSemesterIdRe.MatchString(key) {
		return RawSemester(key), nil
	}
	return Semester{}, fmt.Errorf("%w: semester %q", ErrUnknownEntry, s)
}

// Career identifies an academic career. The portal requires it on every
// schedule query even though it is redundant with the course.
type Career struct {
	id   string
	name string
}

var Careers = []Career{
	{id: "UGRD", name: "UNDERGRADUATE"},
	{id: "GRAD", name: "GRADUATE"},
	{id: "LAW", name: "LAW"},
	{id: "SDM", name: "DENTALMEDICINE"},
	{id: "MED", name: "MEDICINE"},
	{id: "PHRM", name: "PHARMACY"},
}

func RawCareer(id string) Career {
	return Career{id: id}
}

func (c Career) Id() string {
	return c.id
}

func (c Career) Name() string {
	return c.name
}

func ParseCareer(s string) (Career, error) {
	key := normalize(s)
	for _, career := range Careers {
		if career.name == key || career.id == key {
			return career, nil
		}
	}
	if rawCareerIdRe.MatchString(key) {
		return RawCareer(key), nil
	}
	return Career{}, fmt.Errorf("%w: career %q", ErrUnknownEntry, s)
}

// normalize strips whitespace and uppercases so "cse 115" and "CSE115"
// compare equal.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
