package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Opeso2580/eduplatform/internal/cache"
	apperrors "github.com/Opeso2580/eduplatform/internal/errors"
	"github.com/Opeso2580/eduplatform/internal/model"
	"github.com/Opeso2580/eduplatform/internal/repository"
)

const (
	publishedCoursesCacheKey = "courses:published"
	publishedCoursesCacheTTL = 5 * time.Minute
)

// CreateCourseInput carries the fields for an admin course creation.
type CreateCourseInput struct {
	Title            string
	Slug             string
	ShortDescription string
	Description      string
	Published        bool
}

// CourseService exposes the course catalog and the approved-enrollment
// content gate.
type CourseService interface {
	ListPublished(ctx context.Context) ([]model.Course, error)
	DetailForStudent(ctx context.Context, studentID, courseID uint) (*model.Course, error)
	Create(ctx context.Context, in CreateCourseInput) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
}

type courseService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	cache       *cache.Client
}

// NewCourseService creates a new course service.
func NewCourseService(courses repository.CourseRepository, enrollments repository.EnrollmentRepository, cache *cache.Client) CourseService {
	return &courseService{courses: courses, enrollments: enrollments, cache: cache}
}

// ListPublished returns the browsable catalog, newest first, served from
// cache when possible.
func (s *courseService) ListPublished(ctx context.Context) ([]model.Course, error) {
	if data, _ := s.cache.Get(ctx, publishedCoursesCacheKey); data != nil {
		var cached []model.Course
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	courses, err := s.courses.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(courses); err == nil {
		_ = s.cache.Set(ctx, publishedCoursesCacheKey, payload, publishedCoursesCacheTTL)
	}
	return courses, nil
}

// DetailForStudent returns full course content iff the student holds an
// approved enrollment. A published-but-unapproved course is browsable in
// the catalog but forbidden here.
func (s *courseService) DetailForStudent(ctx context.Context, studentID, courseID uint) (*model.Course, error) {
	course, err := s.courses.FindPublishedByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, err
	}

	enrollment, err := s.enrollments.FindByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEnrollmentNotApproved
		}
		return nil, err
	}
	if !enrollment.Approved {
		return nil, apperrors.ErrEnrollmentNotApproved
	}
	return course, nil
}

// Create adds a course (admin action) and drops the catalog cache.
func (s *courseService) Create(ctx context.Context, in CreateCourseInput) (*model.Course, error) {
	course := &model.Course{
		Title:            in.Title,
		Slug:             in.Slug,
		ShortDescription: in.ShortDescription,
		Description:      in.Description,
		Published:        in.Published,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, publishedCoursesCacheKey)
	return course, nil
}

// List returns every course including drafts, for the admin view.
func (s *courseService) List(ctx context.Context) ([]model.Course, error) {
	return s.courses.List(ctx)
}
