package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Session is the result of a successful authentication: the account plus
// a signed token.
type Session struct {
	User  *User
	Token string
}

// Config holds the identity service's tunables.
type Config struct {
	// OTPTTL is how long a verification code stays valid.
	OTPTTL time.Duration
	// SweepInterval is how often expired pending signups are evicted.
	SweepInterval time.Duration
}

// Service implements signup, OTP verification, login, and Google sign-in.
// Pending signups live in a time-bounded in-memory cache until the emailed
// code is confirmed; only then is the account persisted.
type Service struct {
	users   Repository
	mail    Sender
	tokens  *TokenIssuer
	pending *otpCache
	otpTTL  time.Duration
}

// NewService creates an identity Service and starts the pending-signup
// eviction sweep, which runs until ctx is cancelled.
func NewService(ctx context.Context, users Repository, mail Sender, tokens *TokenIssuer, cfg Config) *Service {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}

	pending := newOTPCache()
	pending.startCleanup(ctx, cfg.SweepInterval)

	return &Service{
		users:   users,
		mail:    mail,
		tokens:  tokens,
		pending: pending,
		otpTTL:  cfg.OTPTTL,
	}
}

// Signup validates the registration input, emails a verification code, and
// parks the signup in the pending cache. No account exists until VerifyOTP
// succeeds. Signing up again before verification re-issues the code.
func (s *Service) Signup(ctx context.Context, name, email, password, confirmPassword string) error {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	switch {
	case name == "" || email == "" || password == "":
		return &InvalidInputError{Reason: "name, email and password are required"}
	case password != confirmPassword:
		return &InvalidInputError{Reason: "passwords do not match"}
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return errors.Wrap(err, "check existing user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	code, err := generateCode()
	if err != nil {
		return errors.Wrap(err, "generate verification code")
	}

	s.pending.put(pendingSignup{
		name:         name,
		email:        email,
		passwordHash: string(hash),
		code:         code,
		expiresAt:    time.Now().Add(s.otpTTL),
	})

	body := fmt.Sprintf("Your Tastoria verification code is %s. It expires in %d minutes.",
		code, int(s.otpTTL.Minutes()))
	if err := s.mail.Send(ctx, email, "Verify your Tastoria account", body); err != nil {
		return errors.Wrap(err, "send verification email")
	}

	return nil
}

// VerifyOTP confirms the emailed code, creates the verified account, and
// returns a session. Codes are single use and expire after the configured
// TTL.
func (s *Service) VerifyOTP(ctx context.Context, email, code string) (*Session, error) {
	email = normalizeEmail(email)

	p, ok := s.pending.take(email, code, time.Now())
	if !ok {
		return nil, ErrInvalidOTP
	}

	u := &User{
		ID:           uuid.New().String(),
		Name:         p.name,
		Email:        p.email,
		PasswordHash: p.passwordHash,
		Role:         RoleCustomer,
		Verified:     true,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, "create user")
	}

	return s.session(u)
}

// Login authenticates with email and password.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.session(u)
}

// GoogleSignIn signs in (or first registers) a user authenticated by
// Google. Accounts created this way are verified and have no password.
func (s *Service) GoogleSignIn(ctx context.Context, name, email, firebaseUID string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || firebaseUID == "" {
		return nil, &InvalidInputError{Reason: "name, email and firebase uid are required"}
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		// Existing account; attach the firebase uid if it was missing.
		if u.FirebaseUID == "" {
			u.FirebaseUID = firebaseUID
			if err := s.users.Update(ctx, u); err != nil {
				return nil, errors.Wrap(err, "update user")
			}
		}
	case errors.Is(err, ErrUserNotFound):
		u = &User{
			ID:          uuid.New().String(),
			Name:        name,
			Email:       email,
			FirebaseUID: firebaseUID,
			Role:        RoleCustomer,
			Verified:    true,
			CreatedAt:   time.Now(),
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, errors.Wrap(err, "create user")
		}
	default:
		return nil, errors.Wrap(err, "get user")
	}

	return s.session(u)
}

// Me returns the account for an authenticated user id.
func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return u, nil
}

// ProfileUpdate carries the editable account fields. Zero-valued fields
// are left unchanged.
type ProfileUpdate struct {
	Name         string
	Email        string
	Password     string
	ProfileImage string
}

// UpdateProfile applies a partial edit to an account. Changing the email
// to one held by another account returns ErrEmailTaken.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (*User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}

	if name := strings.TrimSpace(upd.Name); name != "" {
		u.Name = name
	}
	if email := normalizeEmail(upd.Email); email != "" && email != u.Email {
		if _, err := s.users.GetByEmail(ctx, email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, ErrUserNotFound) {
			return nil, errors.Wrap(err, "check existing user")
		}
		u.Email = email
	}
	if upd.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(upd.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.Wrap(err, "hash password")
		}
		u.PasswordHash = string(hash)
	}
	if upd.ProfileImage != "" {
		u.ProfileImage = upd.ProfileImage
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, errors.Wrap(err, "update user")
	}
	return u, nil
}

// ParseToken validates a bearer token and returns its claims.
func (s *Service) ParseToken(raw string) (*Claims, error) {
	return s.tokens.Parse(raw)
}

func (s *Service) session(u *User) (*Session, error) {
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}
	return &Session{User: u, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
