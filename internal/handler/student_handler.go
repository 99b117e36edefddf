package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Opeso2580/eduplatform/internal/service"
)

// StudentHandler serves the authorized-student area.
type StudentHandler struct {
	courseService     service.CourseService
	enrollmentService service.EnrollmentService
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(courseService service.CourseService, enrollmentService service.EnrollmentService) *StudentHandler {
	return &StudentHandler{courseService: courseService, enrollmentService: enrollmentService}
}

// Dashboard handles GET /student/dashboard/. The student gate has already
// checked role and authorization against the persisted record.
func (h *StudentHandler) Dashboard(c echo.Context) error {
	user := currentUser(c)
	enrollments, err := h.enrollmentService.ListForStudent(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":        user,
		"enrollments": enrollments,
	})
}

// Classes handles GET /student/classes/: the browsable catalog of published
// courses annotated with the student's approved/pending partition. Courses
// without an approved enrollment are listable here but their content stays
// behind ClassDetail's gate.
func (h *StudentHandler) Classes(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	courses, err := h.courseService.ListPublished(ctx)
	if err != nil {
		return httpError(err)
	}
	enrollments, err := h.enrollmentService.ListForStudent(ctx, user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"courses":     courses,
		"enrollments": enrollments,
	})
}

// ClassDetail handles GET /student/classes/:id/. Content is released only
// against an approved enrollment.
func (h *StudentHandler) ClassDetail(c echo.Context) error {
	user := currentUser(c)
	courseID, err := pathID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid course id")
	}

	course, err := h.courseService.DetailForStudent(c.Request().Context(), user.ID, courseID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"course": course})
}

// RequestEnrollment handles POST /student/classes/:id/request. Requesting
// twice is harmless: the existing record is reported as success.
func (h *StudentHandler) RequestEnrollment(c echo.Context) error {
	user := currentUser(c)
	courseID, err := pathID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid course id")
	}

	enrollment, err := h.enrollmentService.Request(c.Request().Context(), user.ID, courseID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "enrollment requested, awaiting approval",
		"enrollment": enrollment,
	})
}
