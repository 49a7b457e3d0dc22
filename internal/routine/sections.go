package routine

import (
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

// MergedCreditLabel replaces the credit of merged sections in tabular output.
const MergedCreditLabel = "Merge"

// DisplayCourse is a section with the sections merged into it.
type DisplayCourse struct {
	models.Enrollment
	Children []DisplayCourse `json:"children"`
}

// IntegrityError reports a merge cycle. The cycle was broken at BrokenAt,
// which is shown as a root.
type IntegrityError struct {
	SectionIDs []string `json:"sectionIds"`
	BrokenAt   string   `json:"brokenAt"`
	Message    string   `json:"message"`
}

func (e IntegrityError) Error() string {
	return e.Message
}

// Forest is the merge forest built from a flat section list.
type Forest struct {
	Roots  []DisplayCourse  `json:"roots"`
	Errors []IntegrityError `json:"errors,omitempty"`
}

// BuildForest attaches each section under its merge parent when the parent is
// part of sections, otherwise the section is a root. Roots and children are
// ordered by course code then section. Merge cycles are broken at their
// smallest member and reported in Forest.Errors.
func BuildForest(sections []models.Enrollment) Forest {
	lookup := make(map[string]models.Enrollment, len(sections))
	ids := make([]string, 0, len(sections))
	for _, section := range sections {
		if _, dup := lookup[section.SectionID]; dup {
			continue
		}
		lookup[section.SectionID] = section
		ids = append(ids, section.SectionID)
	}
	sort.Slice(ids, func(i, j int) bool { return lessSection(lookup[ids[i]], lookup[ids[j]]) })

	parent := make(map[string]string, len(ids))
	for _, id := range ids {
		if p := lookup[id].ParentID(); p != "" {
			if _, ok := lookup[p]; ok {
				parent[id] = p
			}
		}
	}

	var forest Forest
	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[string]int, len(ids))
	for _, id := range ids {
		if state[id] != unvisited {
			continue
		}
		var path []string
		cur := id
		for {
			if state[cur] == done {
				break
			}
			if state[cur] == onPath {
				cycle := path[indexOf(path, cur):]
				brokenAt := smallestSection(cycle, lookup)
				delete(parent, brokenAt)
				forest.Errors = append(forest.Errors, newCycleError(cycle, brokenAt))
				break
			}
			state[cur] = onPath
			path = append(path, cur)
			next, ok := parent[cur]
			if !ok {
				break
			}
			cur = next
		}
		for _, visited := range path {
			state[visited] = done
		}
	}

	children := make(map[string][]string, len(parent))
	for _, id := range ids {
		if p, ok := parent[id]; ok {
			children[p] = append(children[p], id)
		}
	}

	var build func(id string) DisplayCourse
	build = func(id string) DisplayCourse {
		node := DisplayCourse{Enrollment: lookup[id], Children: []DisplayCourse{}}
		for _, child := range children[id] {
			node.Children = append(node.Children, build(child))
		}
		return node
	}

	forest.Roots = make([]DisplayCourse, 0, len(ids))
	for _, id := range ids {
		if _, hasParent := parent[id]; !hasParent {
			forest.Roots = append(forest.Roots, build(id))
		}
	}
	return forest
}

func lessSection(a, b models.Enrollment) bool {
	if a.CourseCode != b.CourseCode {
		return a.CourseCode < b.CourseCode
	}
	if a.Section != b.Section {
		return a.Section < b.Section
	}
	return a.SectionID < b.SectionID
}

func smallestSection(ids []string, lookup map[string]models.Enrollment) string {
	smallest := ids[0]
	for _, id := range ids[1:] {
		if lessSection(lookup[id], lookup[smallest]) {
			smallest = id
		}
	}
	return smallest
}

func newCycleError(cycle []string, brokenAt string) IntegrityError {
	ids := make([]string, len(cycle))
	copy(ids, cycle)
	return IntegrityError{
		SectionIDs: ids,
		BrokenAt:   brokenAt,
		Message:    "merge cycle between sections " + strings.Join(ids, " -> ") + "; " + brokenAt + " shown as root",
	}
}

func indexOf(items []string, target string) int {
	for i, item := range items {
		if item == target {
			return i
		}
	}
	return 0
}

// Stats aggregates per-section metrics.
type Stats struct {
	Students int `json:"students"`
	CIW      int `json:"ciw"`
	CR       int `json:"cr"`
	CAT      int `json:"cat"`
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Students: s.Students + o.Students,
		CIW:      s.CIW + o.CIW,
		CR:       s.CR + o.CR,
		CAT:      s.CAT + o.CAT,
	}
}

// TreeStats sums the node's own stats with those of every merged descendant.
// CIW and CR come from lookup by section id; students and classes taken come
// from the sections themselves.
func TreeStats(node DisplayCourse, lookup map[string]Stats) Stats {
	own := lookup[node.SectionID]
	total := Stats{
		Students: node.StudentCount,
		CIW:      own.CIW,
		CR:       own.CR,
		CAT:      node.ClassTaken,
	}
	for _, child := range node.Children {
		total = total.add(TreeStats(child, lookup))
	}
	return total
}

// TotalCredit sums root credits. Merged children are counted under their parent.
func TotalCredit(roots []DisplayCourse) float64 {
	var total float64
	for _, root := range roots {
		total += root.Credit
	}
	return total
}

// FlatRow is one section in depth-first display order.
type FlatRow struct {
	models.Enrollment
	Depth       int    `json:"depth"`
	Merged      bool   `json:"merged"`
	CreditLabel string `json:"creditLabel"`
}

// Flatten walks the forest depth-first.
func Flatten(roots []DisplayCourse) []FlatRow {
	rows := make([]FlatRow, 0, len(roots))
	var walk func(nodes []DisplayCourse, depth int)
	walk = func(nodes []DisplayCourse, depth int) {
		for _, node := range nodes {
			row := FlatRow{Enrollment: node.Enrollment, Depth: depth, Merged: depth > 0}
			if row.Merged {
				row.CreditLabel = MergedCreditLabel
			} else {
				row.CreditLabel = strconv.FormatFloat(node.Credit, 'f', -1, 64)
			}
			rows = append(rows, row)
			walk(node.Children, depth+1)
		}
	}
	walk(roots, 0)
	return rows
}

// WouldCycle reports whether merging sectionID into parentID closes a cycle.
func WouldCycle(sections []models.Enrollment, sectionID, parentID string) bool {
	if parentID == "" {
		return false
	}
	if parentID == sectionID {
		return true
	}
	parents := make(map[string]string, len(sections))
	for _, section := range sections {
		parents[section.SectionID] = section.ParentID()
	}
	parents[sectionID] = parentID

	visited := map[string]struct{}{sectionID: {}}
	cur := parentID
	for cur != "" {
		if _, seen := visited[cur]; seen {
			return true
		}
		visited[cur] = struct{}{}
		cur = parents[cur]
	}
	return false
}
