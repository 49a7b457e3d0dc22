package routine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

// Range is an inclusive numeric bound pair. An empty or unparseable side is unbounded.
type Range struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

func (r Range) contains(value float64) bool {
	if lo, err := strconv.ParseFloat(strings.TrimSpace(r.Min), 64); err == nil && value < lo {
		return false
	}
	if hi, err := strconv.ParseFloat(strings.TrimSpace(r.Max), 64); err == nil && value > hi {
		return false
	}
	return true
}

// Criteria selects items: any value within a categorical field, every field,
// every numeric range, and the search text as a case-insensitive substring of
// at least one search field.
type Criteria struct {
	Categories map[string][]string
	Ranges     map[string]Range
	Search     string
}

// Fields exposes the filterable attributes of T. Criteria naming fields that
// are not declared here are ignored.
type Fields[T any] struct {
	Categorical map[string]func(T) string
	Numeric     map[string]func(T) float64
	Search      []func(T) string
}

// Filter returns the items matching criteria in their original order.
func Filter[T any](items []T, criteria Criteria, fields Fields[T]) []T {
	needle := strings.ToLower(strings.TrimSpace(criteria.Search))
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if matchesCategories(item, criteria.Categories, fields.Categorical) &&
			matchesRanges(item, criteria.Ranges, fields.Numeric) &&
			matchesSearch(item, needle, fields.Search) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func matchesCategories[T any](item T, selected map[string][]string, getters map[string]func(T) string) bool {
	for field, values := range selected {
		getter, ok := getters[field]
		if !ok || len(values) == 0 {
			continue
		}
		actual := getter(item)
		matched := false
		for _, value := range values {
			if strings.EqualFold(actual, value) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func matchesRanges[T any](item T, ranges map[string]Range, getters map[string]func(T) float64) bool {
	for field, bounds := range ranges {
		getter, ok := getters[field]
		if !ok {
			continue
		}
		if !bounds.contains(getter(item)) {
			return false
		}
	}
	return true
}

func matchesSearch[T any](item T, needle string, getters []func(T) string) bool {
	if needle == "" {
		return true
	}
	for _, getter := range getters {
		if strings.Contains(strings.ToLower(getter(item)), needle) {
			return true
		}
	}
	return false
}

// Paginate slices items to a 1-based page. Non-positive page or size fall back to 1 and len(items).
func Paginate[T any](items []T, page, size int) ([]T, *models.Pagination) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = len(items)
		if size == 0 {
			size = 1
		}
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(items)}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}, pagination
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], pagination
}

// CourseFields filters merge forest roots.
var CourseFields = Fields[DisplayCourse]{
	Categorical: map[string]func(DisplayCourse) string{
		"courseType":  func(c DisplayCourse) string { return string(c.CourseType) },
		"type":        func(c DisplayCourse) string { return c.Type },
		"levelTerm":   func(c DisplayCourse) string { return c.LevelTerm },
		"pId":         func(c DisplayCourse) string { return c.PID },
		"designation": func(c DisplayCourse) string { return c.Designation },
	},
	Numeric: map[string]func(DisplayCourse) float64{
		"credit":       func(c DisplayCourse) float64 { return c.Credit },
		"studentCount": func(c DisplayCourse) float64 { return float64(c.StudentCount) },
	},
	Search: []func(DisplayCourse) string{
		func(c DisplayCourse) string { return c.CourseCode },
		func(c DisplayCourse) string { return c.CourseTitle },
		func(c DisplayCourse) string { return c.Section },
		func(c DisplayCourse) string { return c.TeacherName },
		func(c DisplayCourse) string { return c.TeacherID },
	},
}

// TeacherLoad is the teaching load of one teacher across root sections.
type TeacherLoad struct {
	TeacherID   string   `json:"teacherId"`
	Name        string   `json:"name"`
	Designation string   `json:"designation"`
	Email       string   `json:"email"`
	Mobile      string   `json:"mobile"`
	CourseCount int      `json:"courseCount"`
	CreditLoad  float64  `json:"creditLoad"`
	SectionIDs  []string `json:"sectionIds"`
}

// TeacherLoads groups root sections by teacher. Merged children are excluded
// so co-taught credit is counted once. Sections without a teacher are skipped.
func TeacherLoads(roots []DisplayCourse) []TeacherLoad {
	index := make(map[string]int)
	loads := make([]TeacherLoad, 0)
	for _, root := range roots {
		if root.TeacherID == "" {
			continue
		}
		i, ok := index[root.TeacherID]
		if !ok {
			i = len(loads)
			index[root.TeacherID] = i
			loads = append(loads, TeacherLoad{
				TeacherID:   root.TeacherID,
				Name:        root.TeacherName,
				Designation: root.Designation,
				Email:       root.TeacherEmail,
				Mobile:      root.TeacherMobile,
			})
		}
		loads[i].CourseCount++
		loads[i].CreditLoad += root.Credit
		loads[i].SectionIDs = append(loads[i].SectionIDs, root.SectionID)
	}
	sort.SliceStable(loads, func(i, j int) bool {
		if loads[i].Name != loads[j].Name {
			return loads[i].Name < loads[j].Name
		}
		return loads[i].TeacherID < loads[j].TeacherID
	})
	return loads
}

// TeacherFields filters teacher loads.
var TeacherFields = Fields[TeacherLoad]{
	Categorical: map[string]func(TeacherLoad) string{
		"designation": func(t TeacherLoad) string { return t.Designation },
	},
	Numeric: map[string]func(TeacherLoad) float64{
		"creditLoad":  func(t TeacherLoad) float64 { return t.CreditLoad },
		"courseCount": func(t TeacherLoad) float64 { return float64(t.CourseCount) },
	},
	Search: []func(TeacherLoad) string{
		func(t TeacherLoad) string { return t.Name },
		func(t TeacherLoad) string { return t.TeacherID },
		func(t TeacherLoad) string { return t.Email },
		func(t TeacherLoad) string { return t.Mobile },
	},
}
