package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/productr/catalog-system/internal/core/domain"
	"github.com/productr/catalog-system/internal/core/ports"
)

// AuthConfig holds the optional collaborators and policies of AuthService.
type AuthConfig struct {
	OTPTTL time.Duration
	// Attempts caps failed verifications per identity. Nil disables the cap.
	Attempts ports.AttemptGuard
}

// AuthService implements signup, OTP login and token authentication.
//
// OTP state per identity: no pending code → pending → consumed | expired.
// Issuing a new code always overwrites the pending one.
type AuthService struct {
	repo     ports.AuthRepository
	notifier ports.NotificationDispatcher
	welcome  ports.WelcomeQueue
	tokens   *TokenManager
	attempts ports.AttemptGuard
	otpTTL   time.Duration
	log      zerolog.Logger

	now      func() time.Time
	generate func() string
}

func NewAuthService(
	repo ports.AuthRepository,
	notifier ports.NotificationDispatcher,
	welcome ports.WelcomeQueue,
	tokens *TokenManager,
	cfg AuthConfig,
	log zerolog.Logger,
) *AuthService {
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = domain.DefaultOTPTTL
	}
	return &AuthService{
		repo:     repo,
		notifier: notifier,
		welcome:  welcome,
		tokens:   tokens,
		attempts: cfg.Attempts,
		otpTTL:   cfg.OTPTTL,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
		generate: domain.GenerateOTP,
	}
}

// Signup creates a password-based account and returns a session token.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	phone := strings.TrimSpace(in.Phone)

	if email == "" && phone == "" {
		return nil, domain.ErrMissingIdentifier
	}
	if in.Password == "" {
		return nil, domain.ErrMissingPassword
	}
	if email != "" && !domain.IsEmailAddress(email) {
		return nil, domain.ErrInvalidEmail
	}
	if phone != "" && !domain.IsPhoneNumber(phone) {
		return nil, domain.ErrInvalidPhone
	}

	user := &domain.User{IsVerified: true}
	if email != "" {
		user.Email = strings.ToLower(email)
		if err := s.ensureFree(ctx, domain.Identifier{Kind: domain.KindEmail, Value: user.Email}); err != nil {
			return nil, err
		}
	}
	if phone != "" {
		user.Phone = domain.NormalizePhone(phone)
		if err := s.ensureFree(ctx, domain.Identifier{Kind: domain.KindPhone, Value: user.Phone}); err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	if created.Email != "" && s.welcome != nil {
		s.welcome.EnqueueWelcome(created.Email)
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, fmt.Errorf("signup: issue token: %w", err)
	}

	s.log.Info().Str("user_id", created.ID).Msg("account created")
	return &ports.AuthResult{User: created, Token: token}, nil
}

func (s *AuthService) ensureFree(ctx context.Context, id domain.Identifier) error {
	_, err := s.repo.FindByIdentifier(ctx, id)
	switch {
	case err == nil:
		return domain.ErrDuplicateIdentifier
	case errors.Is(err, domain.ErrAccountNotFound):
		return nil
	default:
		return fmt.Errorf("signup: lookup %s: %w", id.Kind, err)
	}
}

// RequestLoginOTP issues a fresh code for an existing identity and dispatches it.
func (s *AuthService) RequestLoginOTP(ctx context.Context, identifier string) (*ports.OTPDispatch, error) {
	return s.issueOTP(ctx, identifier)
}

// ResendOTP has the same contract as RequestLoginOTP. Client cooldowns are not
// enforced here.
func (s *AuthService) ResendOTP(ctx context.Context, identifier string) (*ports.OTPDispatch, error) {
	return s.issueOTP(ctx, identifier)
}

func (s *AuthService) issueOTP(ctx context.Context, raw string) (*ports.OTPDispatch, error) {
	id, err := classify(raw)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByIdentifier(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	code := s.generate()
	if err := s.repo.SetOTP(ctx, user.ID, code, domain.OTPExpiry(now, s.otpTTL), now); err != nil {
		return nil, fmt.Errorf("issue otp: %w", err)
	}
	s.resetAttempts(ctx, user.ID)

	res := s.notifier.SendOTP(ctx, id, code)
	dispatch := &ports.OTPDispatch{Channel: id.Kind}
	switch {
	case res.Sent:
		s.log.Info().Str("user_id", user.ID).Str("channel", id.Kind.String()).Msg("otp sent")
		return dispatch, nil
	case id.IsPhone() && res.DevOTP != "":
		dispatch.DevOTP = res.DevOTP
		dispatch.DeliveryError = res.Error
		return dispatch, nil
	default:
		s.log.Error().Str("user_id", user.ID).Str("channel", id.Kind.String()).Str("error", res.Error).Msg("otp delivery failed")
		return nil, fmt.Errorf("%w via %s: %s", domain.ErrDeliveryFailed, id.Kind, res.Error)
	}
}

// VerifyLoginOTP consumes a pending code and returns a session token.
//
// A wrong code is reported before expiry: a mismatching code yields
// ErrInvalidOTP whether or not the pending one has expired. A matching but
// expired code yields ErrOTPExpired and the stale code is cleared.
func (s *AuthService) VerifyLoginOTP(ctx context.Context, identifier, otp string) (*ports.AuthResult, error) {
	otp = strings.TrimSpace(otp)
	if strings.TrimSpace(identifier) == "" || otp == "" {
		return nil, domain.ErrMissingInput
	}

	id, err := classify(identifier)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByIdentifier(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.attemptsExceeded(ctx, user.ID) {
		return nil, domain.ErrTooManyAttempts
	}

	if !user.HasPendingOTP() || user.OTP != otp {
		s.recordFailure(ctx, user.ID)
		return nil, domain.ErrInvalidOTP
	}

	now := s.now()
	if user.OTPExpired(now) {
		if err := s.repo.ClearOTP(ctx, user.ID, otp, now); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to clear expired otp")
		}
		return nil, domain.ErrOTPExpired
	}

	if err := s.repo.ConsumeOTP(ctx, user.ID, otp, now); err != nil {
		if errors.Is(err, domain.ErrInvalidOTP) {
			s.recordFailure(ctx, user.ID)
		}
		return nil, err
	}
	s.resetAttempts(ctx, user.ID)

	user.OTP = ""
	user.OTPExpiry = nil
	user.UpdatedAt = now

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("verify otp: issue token: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Msg("login successful")
	return &ports.AuthResult{User: user, Token: token}, nil
}

// Authenticate resolves a bearer token to an existing identity's id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", domain.ErrUnauthorized
		}
		return "", fmt.Errorf("authenticate: %w", err)
	}
	return user.ID, nil
}

func classify(raw string) (domain.Identifier, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.Identifier{}, domain.ErrMissingIdentifier
	}
	id := domain.Classify(raw)
	if !id.Valid() {
		return domain.Identifier{}, domain.ErrInvalidIdentifier
	}
	return id, nil
}

// Attempt guard failures never block a login; the guard fails open.

func (s *AuthService) attemptsExceeded(ctx context.Context, userID string) bool {
	if s.attempts == nil {
		return false
	}
	exceeded, err := s.attempts.Exceeded(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("attempt guard check failed")
		return false
	}
	return exceeded
}

func (s *AuthService) recordFailure(ctx context.Context, userID string) {
	if s.attempts == nil {
		return
	}
	if err := s.attempts.RecordFailure(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("attempt guard record failed")
	}
}

func (s *AuthService) resetAttempts(ctx context.Context, userID string) {
	if s.attempts == nil {
		return
	}
	if err := s.attempts.Reset(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("attempt guard reset failed")
	}
}
