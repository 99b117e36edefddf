package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Opeso2580/eduplatform/internal/auth"
	apperrors "github.com/Opeso2580/eduplatform/internal/errors"
	"github.com/Opeso2580/eduplatform/internal/mailer"
	"github.com/Opeso2580/eduplatform/internal/model"
	"github.com/Opeso2580/eduplatform/internal/repository"
	"github.com/Opeso2580/eduplatform/internal/verification"
)

const bcryptCost = 10

// Redirect targets handed back to the rendering collaborator.
const (
	RedirectAdmin     = "/admin/"
	RedirectDashboard = "/student/dashboard/"
	RedirectVerify    = "/student/verify/"
	RedirectLogin     = "/student/login/"
)

// LoginState names the terminal state of an authentication attempt.
type LoginState string

const (
	// StateAuthenticated means a full session was established.
	StateAuthenticated LoginState = "authenticated"
	// StatePendingVerification means credentials checked out but the email
	// code step is still outstanding; only a verification ticket is issued.
	StatePendingVerification LoginState = "pending_verification"
)

// AuthResult is the outcome of a login, signup, or verify attempt.
type AuthResult struct {
	State        LoginState
	AccessToken  string
	RefreshToken string
	VerifyTicket string
	RedirectTo   string
	EmailDelayed bool
	User         *model.User
}

// SignupInput carries the fields collected by the signup form.
type SignupInput struct {
	Username   string
	Email      string
	FirstName  string
	MiddleName string
	LastName   string
	Password   string
}

// AuthService orchestrates login, signup, email verification, and session
// lifecycle.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Verify(ctx context.Context, ticketID, code string) (*AuthResult, error)
	ResendCode(ctx context.Context, ticketID string) (emailDelayed bool, err error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, claims *auth.Claims, refreshToken string) error
	CurrentUser(ctx context.Context, userID uint) (*model.User, error)
	PendingTicket(ctx context.Context, userID uint) (string, error)
}

type authService struct {
	users     repository.UserRepository
	tickets   auth.TicketStoreInterface
	tokens    auth.TokenStoreInterface
	jwt       *auth.JWTService
	codes     *verification.Engine
	mail      mailer.Mailer
	ticketTTL time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	users repository.UserRepository,
	tickets auth.TicketStoreInterface,
	tokens auth.TokenStoreInterface,
	jwt *auth.JWTService,
	codes *verification.Engine,
	mail mailer.Mailer,
	ticketTTL time.Duration,
) AuthService {
	return &authService{
		users:     users,
		tickets:   tickets,
		tokens:    tokens,
		jwt:       jwt,
		codes:     codes,
		mail:      mail,
		ticketTTL: ticketTTL,
	}
}

// Signup creates an unauthorized student account, issues a verification
// code, and attempts delivery. The account and code are committed whether
// or not the email goes out.
func (s *authService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, apperrors.ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		MiddleName:   strings.TrimSpace(in.MiddleName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hashed),
		Role:         model.RoleStudent,
		Authorized:   false,
	}

	code, err := s.codes.IssueCode(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, err
	}

	emailDelayed := s.deliverCode(ctx, user, code, true)

	ticket, err := s.tickets.CreateTicket(ctx, user.ID, s.ticketTTL)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		State:        StatePendingVerification,
		VerifyTicket: ticket,
		RedirectTo:   RedirectVerify,
		EmailDelayed: emailDelayed,
		User:         user,
	}, nil
}

// Login runs the authentication state machine: bad credentials block with
// one generic error; admins are force-authorized and sent to the admin
// area; unauthorized students get a verification ticket instead of a
// session; everyone else gets a full session.
func (s *authService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Role == model.RoleAdmin {
		if !user.Authorized {
			user.Authorized = true
			if err := s.users.Update(ctx, user); err != nil {
				return nil, err
			}
		}
		return s.establishSession(ctx, user, RedirectAdmin)
	}

	if !user.CanUsePlatform() {
		ticket, err := s.tickets.CreateTicket(ctx, user.ID, s.ticketTTL)
		if err != nil {
			return nil, err
		}
		return &AuthResult{
			State:        StatePendingVerification,
			VerifyTicket: ticket,
			RedirectTo:   RedirectVerify,
			User:         user,
		}, nil
	}

	return s.establishSession(ctx, user, RedirectDashboard)
}

// Verify completes the pending-verification transition: on a live ticket
// and a correct, unexpired code it authorizes the user, invalidates the
// code, drops the ticket, and establishes a full session. Every failure
// mode maps to the same generic error.
func (s *authService) Verify(ctx context.Context, ticketID, code string) (*AuthResult, error) {
	userID, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.ErrVerificationFailed
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrVerificationFailed
	}

	if !s.codes.CheckCode(user, strings.TrimSpace(code)) {
		return nil, apperrors.ErrVerificationFailed
	}

	user.Authorized = true
	s.codes.Invalidate(user)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	_ = s.tickets.DeleteTicket(ctx, ticketID)

	return s.establishSession(ctx, user, RedirectDashboard)
}

// ResendCode re-issues a code for the pending identity behind the ticket
// and re-sends it. No credentials are required; the new code supersedes the
// old one even when delivery fails.
func (s *authService) ResendCode(ctx context.Context, ticketID string) (bool, error) {
	userID, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return false, apperrors.ErrVerificationFailed
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, apperrors.ErrVerificationFailed
	}
	if user.Email == "" {
		return false, apperrors.ErrVerificationFailed
	}

	code, err := s.codes.IssueCode(user)
	if err != nil {
		return false, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return false, err
	}

	return s.deliverCode(ctx, user, code, false), nil
}

// Refresh validates a refresh token and returns a new access token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidSession
	}
	tokenID, err := s.jwt.ExtractTokenID(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidSession
	}
	storedID, storedRole, err := s.tokens.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", apperrors.ErrInvalidSession
	}
	if storedID != claims.UserID || storedRole != claims.Role {
		return "", apperrors.ErrInvalidSession
	}
	return s.jwt.GenerateAccessToken(claims.UserID, claims.Role)
}

// Logout blacklists the presented access token for its remaining lifetime
// and, when a refresh token is supplied, revokes it too.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims, refreshToken string) error {
	if claims != nil && claims.ID != "" && claims.ExpiresAt != nil {
		if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
			if err := s.tokens.BlacklistAccessToken(ctx, claims.ID, ttl); err != nil {
				return err
			}
		}
	}
	if refreshToken != "" {
		tokenID, err := s.jwt.ExtractTokenID(refreshToken)
		if err != nil {
			return apperrors.ErrInvalidSession
		}
		return s.tokens.DeleteRefreshToken(ctx, tokenID)
	}
	return nil
}

// CurrentUser re-reads the persisted user record. Gates call this on every
// request so a later authorization downgrade beats a still-valid session.
func (s *authService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrInvalidSession
	}
	return user, nil
}

// PendingTicket mints a fresh verification ticket for an unauthorized
// student intercepted mid-session.
func (s *authService) PendingTicket(ctx context.Context, userID uint) (string, error) {
	return s.tickets.CreateTicket(ctx, userID, s.ticketTTL)
}

func (s *authService) establishSession(ctx context.Context, user *model.User, redirectTo string) (*AuthResult, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	tokenID, refreshToken, err := s.jwt.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.StoreRefreshToken(ctx, tokenID, user.ID, user.Role, auth.RefreshTokenExpiry); err != nil {
		return nil, err
	}
	return &AuthResult{
		State:        StateAuthenticated,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RedirectTo:   redirectTo,
		User:         user,
	}, nil
}

// deliverCode sends the code and absorbs delivery failure: the plaintext is
// logged so support can recover it manually, and the caller only surfaces a
// soft "may be delayed" signal.
func (s *authService) deliverCode(ctx context.Context, user *model.User, code string, firstIssue bool) (delayed bool) {
	var err error
	if firstIssue {
		err = s.mail.SendVerificationCode(ctx, user.Email, user.DisplayName(), code)
	} else {
		err = s.mail.SendNewCode(ctx, user.Email, user.DisplayName(), code)
	}
	if err != nil {
		log.Printf("verification email to %s (user %d) failed, code %s: %v", user.Email, user.ID, code, err)
		return true
	}
	return false
}
