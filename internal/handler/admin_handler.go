package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Opeso2580/eduplatform/internal/service"
)

// AdminHandler serves the administrative area: enrollment approval and
// course management.
type AdminHandler struct {
	courseService     service.CourseService
	enrollmentService service.EnrollmentService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(courseService service.CourseService, enrollmentService service.EnrollmentService) *AdminHandler {
	return &AdminHandler{courseService: courseService, enrollmentService: enrollmentService}
}

// CreateCourseRequest represents an admin course creation request.
type CreateCourseRequest struct {
	Title            string `json:"title" validate:"required,max=200"`
	Slug             string `json:"slug" validate:"max=220"`
	ShortDescription string `json:"short_description" validate:"max=300"`
	Description      string `json:"description"`
	Published        bool   `json:"published"`
}

// ListEnrollments handles GET /admin/enrollments/. With ?pending=true only
// unapproved requests are returned.
func (h *AdminHandler) ListEnrollments(c echo.Context) error {
	pendingOnly := c.QueryParam("pending") == "true"
	enrollments, err := h.enrollmentService.List(c.Request().Context(), pendingOnly)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"enrollments": enrollments})
}

// ApproveEnrollment handles POST /admin/enrollments/:id/approve.
func (h *AdminHandler) ApproveEnrollment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid enrollment id")
	}

	enrollment, err := h.enrollmentService.Approve(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "enrollment approved",
		"enrollment": enrollment,
	})
}

// CreateCourse handles POST /admin/courses/.
func (h *AdminHandler) CreateCourse(c echo.Context) error {
	var req CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.courseService.Create(c.Request().Context(), service.CreateCourseInput{
		Title:            req.Title,
		Slug:             req.Slug,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Published:        req.Published,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"course": course})
}

// ListCourses handles GET /admin/courses/, drafts included.
func (h *AdminHandler) ListCourses(c echo.Context) error {
	courses, err := h.courseService.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"courses": courses})
}
