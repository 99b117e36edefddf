package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/Opeso2580/eduplatform/internal/errors"
	"github.com/Opeso2580/eduplatform/internal/model"
	"github.com/Opeso2580/eduplatform/internal/repository"
)

// StudentEnrollments partitions a student's enrollments into approved
// records (most recent approval first) and the set of pending course IDs.
type StudentEnrollments struct {
	Approved         []model.Enrollment `json:"approved"`
	PendingCourseIDs []uint             `json:"pending_course_ids"`
}

// EnrollmentService tracks the request/approval state per (student, course)
// pair.
type EnrollmentService interface {
	Request(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error)
	Approve(ctx context.Context, enrollmentID uint) (*model.Enrollment, error)
	ListForStudent(ctx context.Context, studentID uint) (*StudentEnrollments, error)
	List(ctx context.Context, pendingOnly bool) ([]model.Enrollment, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
}

// NewEnrollmentService creates a new enrollment service.
func NewEnrollmentService(enrollments repository.EnrollmentRepository, courses repository.CourseRepository) EnrollmentService {
	return &enrollmentService{enrollments: enrollments, courses: courses}
}

// Request creates a pending enrollment for a published course. It is
// idempotent: an existing record, approved or not, is returned untouched,
// and a duplicate-key insert lost to a concurrent request is absorbed the
// same way.
func (s *enrollmentService) Request(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error) {
	if _, err := s.courses.FindPublishedByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}

	existing, err := s.enrollments.FindByStudentAndCourse(ctx, studentID, courseID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost an insert race; the winner's row is the answer.
			return s.enrollments.FindByStudentAndCourse(ctx, studentID, courseID)
		}
		return nil, err
	}
	return enrollment, nil
}

// Approve flips an enrollment to approved and stamps the approval time.
// Approval is monotonic: an already-approved record is returned as is and
// nothing here ever resets one to pending.
func (s *enrollmentService) Approve(ctx context.Context, enrollmentID uint) (*model.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, err
	}
	if enrollment.Approved {
		return enrollment, nil
	}

	now := time.Now()
	enrollment.Approved = true
	enrollment.ApprovedAt = &now
	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// ListForStudent builds the approved/pending partition views.
func (s *enrollmentService) ListForStudent(ctx context.Context, studentID uint) (*StudentEnrollments, error) {
	approved, err := s.enrollments.ListApprovedByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	pending, err := s.enrollments.ListPendingByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	pendingIDs := make([]uint, 0, len(pending))
	for _, e := range pending {
		pendingIDs = append(pendingIDs, e.CourseID)
	}
	return &StudentEnrollments{
		Approved:         approved,
		PendingCourseIDs: pendingIDs,
	}, nil
}

// List returns enrollments for the admin view, optionally pending only.
func (s *enrollmentService) List(ctx context.Context, pendingOnly bool) ([]model.Enrollment, error) {
	return s.enrollments.List(ctx, pendingOnly)
}
