package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Opeso2580/eduplatform/internal/auth"
	"github.com/Opeso2580/eduplatform/internal/service"
)

// AuthHandler handles login, signup, verification, and session endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest represents a credential submission.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest represents an account creation request.
type SignupRequest struct {
	Username        string `json:"username" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email"`
	FirstName       string `json:"first_name" validate:"required,max=150"`
	MiddleName      string `json:"middle_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"required,max=150"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// VerifyRequest represents a code submission for a pending identity.
type VerifyRequest struct {
	VerifyTicket string `json:"verify_ticket" validate:"required"`
	Code         string `json:"code" validate:"required,len=6"`
}

// ResendRequest represents a code re-issue request.
type ResendRequest struct {
	VerifyTicket string `json:"verify_ticket" validate:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthResponse is the shared shape for login/signup/verify outcomes.
type AuthResponse struct {
	State        service.LoginState `json:"state"`
	AccessToken  string             `json:"access_token,omitempty"`
	RefreshToken string             `json:"refresh_token,omitempty"`
	VerifyTicket string             `json:"verify_ticket,omitempty"`
	RedirectTo   string             `json:"redirect_to"`
	EmailDelayed bool               `json:"email_delayed,omitempty"`
	User         interface{}        `json:"user,omitempty"`
}

func authResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		State:        res.State,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		VerifyTicket: res.VerifyTicket,
		RedirectTo:   res.RedirectTo,
		EmailDelayed: res.EmailDelayed,
		User:         res.User,
	}
}

// Login handles POST /student/login/.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, authResponse(res))
}

// Signup handles POST /student/signup/.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Signup(c.Request().Context(), service.SignupInput{
		Username:   req.Username,
		Email:      req.Email,
		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		Password:   req.Password,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, authResponse(res))
}

// Verify handles POST /student/verify/.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.authService.Verify(c.Request().Context(), req.VerifyTicket, req.Code)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, authResponse(res))
}

// ResendCode handles POST /student/resend-code/.
func (h *AuthHandler) ResendCode(c echo.Context) error {
	var req ResendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	delayed, err := h.authService.ResendCode(c.Request().Context(), req.VerifyTicket)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "verification code sent, check your email",
		"email_delayed": delayed,
		"redirect_to":   service.RedirectVerify,
	})
}

// Refresh handles POST /student/refresh/.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": accessToken})
}

// Logout handles GET /student/logout/: the access token is blacklisted for
// its remaining lifetime and an optional refresh_token query parameter is
// revoked alongside it.
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, _ := c.Get("claims").(*auth.Claims)
	refreshToken := c.QueryParam("refresh_token")

	if err := h.authService.Logout(c.Request().Context(), claims, refreshToken); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":     "logged out",
		"redirect_to": service.RedirectLogin,
	})
}
