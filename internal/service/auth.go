package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rentledger/rentledger/internal/domain"
	"github.com/rentledger/rentledger/internal/store"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrCountryRequired    = errors.New("country is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrLegalNotAccepted   = errors.New("terms and privacy policy must be accepted")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired session token")
)

// ErrPartialSignup reports a signup that left rows behind after a failed step
// whose compensation also failed. It is distinct from total failure so the
// operator can find and repair the orphaned account.
type ErrPartialSignup struct {
	AccountID uuid.UUID
	Step      string
	Cause     error
}

func (e *ErrPartialSignup) Error() string {
	return fmt.Sprintf("signup partially completed at step %q for account %s: %v", e.Step, e.AccountID, e.Cause)
}

func (e *ErrPartialSignup) Unwrap() error { return e.Cause }

// SignUpInput carries the signup form fields.
type SignUpInput struct {
	Email           string
	Password        string
	Country         string
	TermsAccepted   bool
	PrivacyAccepted bool
}

// AuthService is the session gateway: signup, signin, signout and
// current-user lookup.
type AuthService struct {
	accounts  domain.AccountStore
	users     domain.UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger

	now func() time.Time
}

func NewAuthService(as domain.AccountStore, us domain.UserStore, jwtSecret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		accounts:  as,
		users:     us,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// SignUp creates the account, the profile row, and the legal-acceptance row.
// The original ran these as three independent inserts with no rollback; here
// the sequence is an explicit saga: a failure at a later step runs the named
// compensating deletes for the earlier ones. A compensation failure is logged
// and surfaced as ErrPartialSignup rather than silently leaving orphans.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	switch {
	case in.Email == "":
		return nil, ErrEmailRequired
	case in.Password == "":
		return nil, ErrPasswordRequired
	case in.Country == "":
		return nil, ErrCountryRequired
	case len(in.Password) < 6:
		return nil, ErrPasswordTooShort
	case !in.TermsAccepted || !in.PrivacyAccepted:
		return nil, ErrLegalNotAccepted
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Step 1: auth account
	account := &domain.Account{Email: in.Email, PasswordHash: string(hash)}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// Step 2: profile row; compensation: delete account
	profile := domain.NewProfile(account.ID, in.Email, in.Country)
	if err := s.users.Create(ctx, profile); err != nil {
		return nil, s.compensate(ctx, account.ID, "profile", err)
	}

	// Step 3: legal acceptance; compensation: delete profile, then account
	la := &domain.LegalAcceptance{
		UserID:          account.ID,
		TermsAccepted:   true,
		PrivacyAccepted: true,
		AcceptedAt:      s.now(),
	}
	if err := s.users.CreateLegalAcceptance(ctx, la); err != nil {
		if derr := s.users.Delete(ctx, account.ID); derr != nil {
			s.logger.Error("signup compensation failed: profile row left behind",
				zap.String("account_id", account.ID.String()), zap.Error(derr))
			return nil, &ErrPartialSignup{AccountID: account.ID, Step: "legal_acceptance", Cause: err}
		}
		return nil, s.compensate(ctx, account.ID, "legal_acceptance", err)
	}

	s.logger.Info("account created",
		zap.String("user_id", account.ID.String()),
		zap.String("country", in.Country))
	return profile, nil
}

func (s *AuthService) compensate(ctx context.Context, accountID uuid.UUID, step string, cause error) error {
	if derr := s.accounts.Delete(ctx, accountID); derr != nil {
		s.logger.Error("signup compensation failed: account row left behind",
			zap.String("account_id", accountID.String()), zap.Error(derr))
		return &ErrPartialSignup{AccountID: accountID, Step: step, Cause: cause}
	}
	return cause
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// SignIn verifies the credentials and mints a session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, account.ID)
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// VerifyToken parses a session token and returns the profile it belongs to.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// CurrentUser returns the profile for an authenticated user ID.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}
