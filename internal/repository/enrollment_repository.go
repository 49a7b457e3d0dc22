package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/routine-admin-api/internal/models"
)

const enrollmentColumns = `section_id, semester_id, course_code, course_title, section, p_id, semester, level_term, credit, course_type, type,
	weekly_class, student_count, class_taken, teacher_id, teacher_name, designation, teacher_mobile, teacher_email, merged_with_section_id`

// EnrollmentRepository reads course sections and maintains their merge links.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns the sections of a semester, optionally narrowed to a program.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error) {
	conditions := []string{"semester_id = $1"}
	args := []interface{}{filter.SemesterID}
	if filter.PID != "" {
		conditions = append(conditions, fmt.Sprintf("p_id = $%d", len(args)+1))
		args = append(args, filter.PID)
	}

	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE %s ORDER BY course_code ASC, section ASC", enrollmentColumns, strings.Join(conditions, " AND "))
	var sections []models.Enrollment
	if err := r.db.SelectContext(ctx, &sections, query, args...); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return sections, nil
}

// FindByID fetches a section by section id.
func (r *EnrollmentRepository) FindByID(ctx context.Context, sectionID string) (*models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE section_id = $1", enrollmentColumns)
	var section models.Enrollment
	if err := r.db.GetContext(ctx, &section, query, sectionID); err != nil {
		return nil, err
	}
	return &section, nil
}

// UpdateMergeParent sets or clears (nil parent) the merge parent of a section.
func (r *EnrollmentRepository) UpdateMergeParent(ctx context.Context, sectionID string, parentID *string) error {
	const query = `UPDATE enrollments SET merged_with_section_id = $1 WHERE section_id = $2`
	res, err := r.db.ExecContext(ctx, query, parentID, sectionID)
	if err != nil {
		return fmt.Errorf("update merge parent: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update merge parent: section %s not found", sectionID)
	}
	return nil
}
