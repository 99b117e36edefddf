package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Opeso2580/eduplatform/internal/auth"
	"github.com/Opeso2580/eduplatform/internal/config"
	"github.com/Opeso2580/eduplatform/internal/handler"
	"github.com/Opeso2580/eduplatform/internal/model"
	"github.com/Opeso2580/eduplatform/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*service.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) Verify(ctx context.Context, ticketID, code string) (*service.AuthResult, error) {
	args := m.Called(ctx, ticketID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) ResendCode(ctx context.Context, ticketID string) (bool, error) {
	args := m.Called(ctx, ticketID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *auth.Claims, refreshToken string) error {
	args := m.Called(ctx, claims, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) PendingTicket(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

// MockCourseService is a mock implementation of service.CourseService.
type MockCourseService struct {
	mock.Mock
}

func (m *MockCourseService) ListPublished(ctx context.Context) ([]model.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Course), args.Error(1)
}

func (m *MockCourseService) DetailForStudent(ctx context.Context, studentID, courseID uint) (*model.Course, error) {
	args := m.Called(ctx, studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseService) Create(ctx context.Context, in service.CreateCourseInput) (*model.Course, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Course), args.Error(1)
}

func (m *MockCourseService) List(ctx context.Context) ([]model.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Course), args.Error(1)
}

// MockEnrollmentService is a mock implementation of service.EnrollmentService.
type MockEnrollmentService struct {
	mock.Mock
}

func (m *MockEnrollmentService) Request(ctx context.Context, studentID, courseID uint) (*model.Enrollment, error) {
	args := m.Called(ctx, studentID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}

func (m *MockEnrollmentService) Approve(ctx context.Context, enrollmentID uint) (*model.Enrollment, error) {
	args := m.Called(ctx, enrollmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}

func (m *MockEnrollmentService) ListForStudent(ctx context.Context, studentID uint) (*service.StudentEnrollments, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StudentEnrollments), args.Error(1)
}

func (m *MockEnrollmentService) List(ctx context.Context, pendingOnly bool) ([]model.Enrollment, error) {
	args := m.Called(ctx, pendingOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Enrollment), args.Error(1)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, role model.Role, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, model.Role, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.Get(1).(model.Role), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

type routerMocks struct {
	authService *MockAuthService
	courses     *MockCourseService
	enrollments *MockEnrollmentService
	tokens      *MockTokenStore
}

const testJWTSecret = "test-secret"

func newTestRouter(t *testing.T) (*echo.Echo, *routerMocks) {
	t.Helper()
	m := &routerMocks{
		authService: new(MockAuthService),
		courses:     new(MockCourseService),
		enrollments: new(MockEnrollmentService),
		tokens:      new(MockTokenStore),
	}
	e := echo.New()
	Register(
		e,
		&config.Config{JWTSecret: testJWTSecret},
		m.tokens,
		m.authService,
		handler.NewAuthHandler(m.authService),
		handler.NewStudentHandler(m.courses, m.enrollments),
		handler.NewAdminHandler(m.courses, m.enrollments),
	)
	return e, m
}

func doAuthed(e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStudentGate(t *testing.T) {
	jwtService := auth.NewJWTService(testJWTSecret)

	t.Run("non-student is forbidden", func(t *testing.T) {
		e, m := newTestRouter(t)
		token, err := jwtService.GenerateAccessToken(5, model.RoleTeacher)
		assert.NoError(t, err)

		m.tokens.On("IsAccessTokenBlacklisted", mock.Anything, mock.Anything).Return(false, nil)
		m.authService.On("CurrentUser", mock.Anything, uint(5)).
			Return(&model.User{ID: 5, Role: model.RoleTeacher}, nil)

		rec := doAuthed(e, http.MethodGet, "/student/dashboard/", token)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "STUDENTS_ONLY", decodeBody(t, rec)["code"])
	})

	t.Run("downgraded student gets a fresh ticket instead of access", func(t *testing.T) {
		e, m := newTestRouter(t)
		// Session was minted while the student was authorized; the stored
		// record has been downgraded since.
		token, err := jwtService.GenerateAccessToken(3, model.RoleStudent)
		assert.NoError(t, err)

		m.tokens.On("IsAccessTokenBlacklisted", mock.Anything, mock.Anything).Return(false, nil)
		m.authService.On("CurrentUser", mock.Anything, uint(3)).
			Return(&model.User{ID: 3, Role: model.RoleStudent, Authorized: false}, nil)
		m.authService.On("PendingTicket", mock.Anything, uint(3)).Return("ticket-fresh", nil)

		rec := doAuthed(e, http.MethodGet, "/student/dashboard/", token)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "NOT_AUTHORIZED", body["code"])
		assert.Equal(t, "ticket-fresh", body["verify_ticket"])
		assert.Equal(t, service.RedirectVerify, body["redirect_to"])
		m.enrollments.AssertNotCalled(t, "ListForStudent", mock.Anything, mock.Anything)
	})

	t.Run("blacklisted token is rejected", func(t *testing.T) {
		e, m := newTestRouter(t)
		token, err := jwtService.GenerateAccessToken(3, model.RoleStudent)
		assert.NoError(t, err)
		tokenID, err := jwtService.ExtractTokenID(token)
		assert.NoError(t, err)

		m.tokens.On("IsAccessTokenBlacklisted", mock.Anything, tokenID).Return(true, nil)

		rec := doAuthed(e, http.MethodGet, "/student/dashboard/", token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_SESSION", decodeBody(t, rec)["code"])
		m.authService.AssertNotCalled(t, "CurrentUser", mock.Anything, mock.Anything)
	})

	t.Run("authorized student passes through", func(t *testing.T) {
		e, m := newTestRouter(t)
		token, err := jwtService.GenerateAccessToken(3, model.RoleStudent)
		assert.NoError(t, err)

		m.tokens.On("IsAccessTokenBlacklisted", mock.Anything, mock.Anything).Return(false, nil)
		m.authService.On("CurrentUser", mock.Anything, uint(3)).
			Return(&model.User{ID: 3, Role: model.RoleStudent, Authorized: true}, nil)
		m.enrollments.On("ListForStudent", mock.Anything, uint(3)).
			Return(&service.StudentEnrollments{}, nil)

		rec := doAuthed(e, http.MethodGet, "/student/dashboard/", token)

		assert.Equal(t, http.StatusOK, rec.Code)
		m.enrollments.AssertExpectations(t)
	})
}

func TestAdminGate(t *testing.T) {
	jwtService := auth.NewJWTService(testJWTSecret)

	t.Run("student is forbidden", func(t *testing.T) {
		e, m := newTestRouter(t)
		token, err := jwtService.GenerateAccessToken(3, model.RoleStudent)
		assert.NoError(t, err)

		m.tokens.On("IsAccessTokenBlacklisted", mock.Anything, mock.Anything).Return(false, nil)
		m.authService.On("CurrentUser", mock.Anything, uint(3)).
			Return(&model.User{ID: 3, Role: model.RoleStudent, Authorized: true}, nil)

		rec := doAuthed(e, http.MethodGet, "/admin/enrollments/", token)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "ADMINS_ONLY", decodeBody(t, rec)["code"])
	})

	t.Run("admin passes through", func(t *testing.T) {
		e, m := newTestRouter(t)
		token, err := jwtService.GenerateAccessToken(7, model.RoleAdmin)
		assert.NoError(t, err)

		m.tokens.On("IsAccessTokenBlacklisted", mock.Anything, mock.Anything).Return(false, nil)
		m.authService.On("CurrentUser", mock.Anything, uint(7)).
			Return(&model.User{ID: 7, Role: model.RoleAdmin, Authorized: true}, nil)
		m.enrollments.On("List", mock.Anything, false).Return([]model.Enrollment{}, nil)

		rec := doAuthed(e, http.MethodGet, "/admin/enrollments/", token)

		assert.Equal(t, http.StatusOK, rec.Code)
		m.enrollments.AssertExpectations(t)
	})
}

func TestUnknownPathIsNotFound(t *testing.T) {
	e, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/no/such/path", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
