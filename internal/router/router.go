package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Opeso2580/eduplatform/internal/auth"
	"github.com/Opeso2580/eduplatform/internal/config"
	apperrors "github.com/Opeso2580/eduplatform/internal/errors"
	"github.com/Opeso2580/eduplatform/internal/handler"
	"github.com/Opeso2580/eduplatform/internal/model"
	"github.com/Opeso2580/eduplatform/internal/service"
)

// claimsKey is where sessionClaims stashes the parsed token claims.
const claimsKey = "claims"

// Register wires routes and middleware. URL paths mirror the page routes
// the rendering collaborator links to.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokens auth.TokenStoreInterface,
	authService service.AuthService,
	authHandler *handler.AuthHandler,
	studentHandler *handler.StudentHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Public routes
	e.POST("/student/login/", authHandler.Login)
	e.POST("/student/signup/", authHandler.Signup)
	e.POST("/student/verify/", authHandler.Verify)
	e.POST("/student/resend-code/", authHandler.ResendCode)
	e.POST("/student/refresh/", authHandler.Refresh)

	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})

	// Any authenticated session may log out, student or not. Registered
	// directly so unknown paths still answer 404 instead of falling into a
	// JWT-guarded catch-all.
	e.GET("/student/logout/", authHandler.Logout, jwtMiddleware, sessionClaims(tokens))

	// Student area: fresh persisted-user check on every request.
	student := e.Group("/student", jwtMiddleware, sessionClaims(tokens), studentGate(authService))
	student.GET("/dashboard/", studentHandler.Dashboard)
	student.GET("/classes/", studentHandler.Classes)
	student.GET("/classes/:id/", studentHandler.ClassDetail)
	student.POST("/classes/:id/request", studentHandler.RequestEnrollment)

	// Admin area
	admin := e.Group("/admin", jwtMiddleware, sessionClaims(tokens), adminGate(authService))
	admin.GET("/enrollments/", adminHandler.ListEnrollments)
	admin.POST("/enrollments/:id/approve", adminHandler.ApproveEnrollment)
	admin.GET("/courses/", adminHandler.ListCourses)
	admin.POST("/courses/", adminHandler.CreateCourse)
}

// sessionClaims rejects blacklisted access tokens and exposes the typed
// claims to downstream handlers.
func sessionClaims(tokens auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return forbid(c, http.StatusUnauthorized, apperrors.ErrInvalidSession, "INVALID_SESSION")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return forbid(c, http.StatusUnauthorized, apperrors.ErrInvalidSession, "INVALID_SESSION")
			}
			if claims.ID != "" {
				blacklisted, _ := tokens.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
				if blacklisted {
					return forbid(c, http.StatusUnauthorized, apperrors.ErrInvalidSession, "INVALID_SESSION")
				}
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// studentGate re-reads the persisted user on each request: non-students are
// forbidden, and a student whose authorization was revoked after the token
// was minted is steered back into verification instead of served. A stale
// session never outranks the stored record.
func studentGate(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsKey).(*auth.Claims)
			if !ok {
				return forbid(c, http.StatusUnauthorized, apperrors.ErrInvalidSession, "INVALID_SESSION")
			}
			user, err := authService.CurrentUser(c.Request().Context(), claims.UserID)
			if err != nil {
				return forbid(c, http.StatusUnauthorized, apperrors.ErrInvalidSession, "INVALID_SESSION")
			}
			if user.Role != model.RoleStudent {
				return forbid(c, http.StatusForbidden, apperrors.ErrStudentsOnly, "STUDENTS_ONLY")
			}
			if !user.CanUsePlatform() {
				body := echo.Map{
					"error":       apperrors.ErrNotAuthorized.Error(),
					"code":        "NOT_AUTHORIZED",
					"redirect_to": service.RedirectVerify,
				}
				if ticket, terr := authService.PendingTicket(c.Request().Context(), user.ID); terr == nil {
					body["verify_ticket"] = ticket
				}
				return c.JSON(http.StatusForbidden, body)
			}
			c.Set(handler.CurrentUserKey, user)
			return next(c)
		}
	}
}

// adminGate restricts a group to administrator accounts.
func adminGate(authService service.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsKey).(*auth.Claims)
			if !ok {
				return forbid(c, http.StatusUnauthorized, apperrors.ErrInvalidSession, "INVALID_SESSION")
			}
			user, err := authService.CurrentUser(c.Request().Context(), claims.UserID)
			if err != nil {
				return forbid(c, http.StatusUnauthorized, apperrors.ErrInvalidSession, "INVALID_SESSION")
			}
			if user.Role != model.RoleAdmin {
				return forbid(c, http.StatusForbidden, apperrors.ErrAdminsOnly, "ADMINS_ONLY")
			}
			c.Set(handler.CurrentUserKey, user)
			return next(c)
		}
	}
}

func forbid(c echo.Context, status int, err error, code string) error {
	return c.JSON(status, apperrors.ErrorResponse{Error: err.Error(), Code: code})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
