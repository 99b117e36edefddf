package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Opeso2580/eduplatform/internal/model"
)

// EnrollmentRepository defines enrollment persistence operations.
// Create surfaces gorm.ErrDuplicatedKey when the (student, course) unique
// index rejects a second row; the service layer absorbs that as a no-op.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	Update(ctx context.Context, enrollment *model.Enrollment) error
	FindByID(ctx context.Context, id uint) (*model.Enrollment, error)
	FindByStudentAndCourse(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error)
	ListApprovedByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error)
	ListPendingByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error)
	List(ctx context.Context, pendingOnly bool) ([]model.Enrollment, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository builds a GORM-backed repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}

func (r *enrollmentRepository) FindByID(ctx context.Context, id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	if err := r.db.WithContext(ctx).First(&enrollment, id).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListApprovedByStudent orders by most recent approval, falling back to the
// request time for rows approved before approved_at was stamped.
func (r *enrollmentRepository) ListApprovedByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	if err := r.db.WithContext(ctx).Preload("Course").
		Where("student_id = ? AND approved = ?", studentID, true).
		Order("approved_at desc, requested_at desc").
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) ListPendingByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND approved = ?", studentID, false).
		Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *enrollmentRepository) List(ctx context.Context, pendingOnly bool) ([]model.Enrollment, error) {
	q := r.db.WithContext(ctx).Preload("Course").Preload("Student").
		Order("requested_at desc")
	if pendingOnly {
		q = q.Where("approved = ?", false)
	}
	var enrollments []model.Enrollment
	if err := q.Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}
