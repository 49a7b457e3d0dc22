package models

// CourseType classifies how a course section is delivered.
type CourseType string

const (
	CourseTypeTheory CourseType = "Theory"
	CourseTypeLab    CourseType = "Lab"
	CourseTypeOthers CourseType = "Others"
	CourseTypeNA     CourseType = "N/A"
)

// Enrollment is one course section offered in a semester. A section merged
// into another references it through MergedWithSectionID.
type Enrollment struct {
	SectionID           string     `db:"section_id" json:"sectionId"`
	SemesterID          string     `db:"semester_id" json:"semesterId"`
	CourseCode          string     `db:"course_code" json:"courseCode"`
	CourseTitle         string     `db:"course_title" json:"courseTitle"`
	Section             string     `db:"section" json:"section"`
	PID                 string     `db:"p_id" json:"pId"`
	Semester            string     `db:"semester" json:"semester"`
	LevelTerm           string     `db:"level_term" json:"levelTerm"`
	Credit              float64    `db:"credit" json:"credit"`
	CourseType          CourseType `db:"course_type" json:"courseType"`
	Type                string     `db:"type" json:"type"`
	WeeklyClass         int        `db:"weekly_class" json:"weeklyClass"`
	StudentCount        int        `db:"student_count" json:"studentCount"`
	ClassTaken          int        `db:"class_taken" json:"classTaken"`
	TeacherID           string     `db:"teacher_id" json:"teacherId"`
	TeacherName         string     `db:"teacher_name" json:"teacherName"`
	Designation         string     `db:"designation" json:"designation"`
	TeacherMobile       string     `db:"teacher_mobile" json:"teacherMobile"`
	TeacherEmail        string     `db:"teacher_email" json:"teacherEmail"`
	MergedWithSectionID *string    `db:"merged_with_section_id" json:"mergedWithSectionId,omitempty"`
}

// ParentID returns the merge parent, or "" for unmerged sections.
func (e Enrollment) ParentID() string {
	if e.MergedWithSectionID == nil {
		return ""
	}
	return *e.MergedWithSectionID
}

// Matches reports whether a routine cell belongs to this section. Cells carry a
// denormalised copy of the section identity, so the join is by course code,
// section and program.
func (e Enrollment) Matches(detail *ClassDetail) bool {
	return detail != nil &&
		detail.CourseCode == e.CourseCode &&
		detail.Section == e.Section &&
		detail.PID == e.PID
}

// EnrollmentFilter narrows the sections loaded for a semester.
type EnrollmentFilter struct {
	SemesterID string
	PID        string
}
