package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/staco-app/directory-service/internal/directory/domain"
	"github.com/staco-app/directory-service/internal/directory/validation"
	"github.com/staco-app/directory-service/internal/platform/logger"
)

// Mailer delivers the service's outbound mail.
type Mailer interface {
	SendVerificationEmail(to, token string) error
	SendInterestEmail(to, address, interestedName string) error
}

// TokenStore holds pending email-verification tokens. Consume returns
// the user id the token was issued for and invalidates it.
type TokenStore interface {
	SaveVerification(ctx context.Context, token, userID string, ttl time.Duration) error
	ConsumeVerification(ctx context.Context, token string) (string, error)
}

// ErrTokenNotFound is returned by TokenStore implementations for an
// unknown or expired verification token.
var ErrTokenNotFound = errors.New("verification token not found")

const (
	verificationTTL = 24 * time.Hour
	sessionTTL      = 24 * time.Hour
)

type RegisterInput struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	University  string
	Email       string
	Password    string
}

type ProfileUpdate struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	University  string
}

// SessionClaims is the JWT claim set issued at login and checked by the
// HTTP auth middleware.
type SessionClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type UserUsecase struct {
	repo           domain.UserRepository
	tokens         TokenStore
	mailer         Mailer
	logger         *logger.Logger
	jwtSecret      []byte
	studentDomains []string
}

func NewUserUsecase(repo domain.UserRepository, tokens TokenStore, mailer Mailer, log *logger.Logger, jwtSecret string, studentDomains []string) *UserUsecase {
	if len(studentDomains) == 0 {
		studentDomains = validation.DefaultStudentDomains
	}
	return &UserUsecase{
		repo:           repo,
		tokens:         tokens,
		mailer:         mailer,
		logger:         log,
		jwtSecret:      []byte(jwtSecret),
		studentDomains: studentDomains,
	}
}

// Register creates a pending account and sends the verification email.
// The account stays unusable for login until the email is verified.
func (uc *UserUsecase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	user := &domain.User{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		University:  in.University,
		Email:       in.Email,
	}
	if err := validation.Registration(user, in.Password, uc.studentDomains).Err(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Register: password hash failed", "error", err.Error())
		return nil, err
	}
	user.PasswordHash = string(hash)

	if err := uc.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, validation.Violations{"email": "already registered"}
		}
		uc.logger.Error("Register: persist failed", "email", in.Email, "error", err.Error())
		return nil, err
	}

	uc.sendVerification(ctx, user)
	uc.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// VerifyEmail consumes a verification token and activates the account.
func (uc *UserUsecase) VerifyEmail(ctx context.Context, token string) error {
	userID, err := uc.tokens.ConsumeVerification(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return domain.ErrUnauthenticated
		}
		uc.logger.Error("VerifyEmail: token lookup failed", "error", err.Error())
		return err
	}
	if err := uc.repo.SetEmailVerified(ctx, userID); err != nil {
		uc.logger.Error("VerifyEmail: persist failed", "user_id", userID, "error", err.Error())
		return err
	}
	uc.logger.Info("email verified", "user_id", userID)
	return nil
}

// ResendVerification issues a fresh token for an unverified account.
// Already-verified accounts are a no-op.
func (uc *UserUsecase) ResendVerification(ctx context.Context, email string) error {
	user, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return nil
	}
	uc.sendVerification(ctx, user)
	return nil
}

// Login checks the credentials and verified state, returning a signed
// session token carrying the user id.
func (uc *UserUsecase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.IsEmailVerified {
		return "", nil, domain.ErrEmailNotVerified
	}

	now := time.Now()
	claims := SessionClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			Subject:   user.ID,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.jwtSecret)
	if err != nil {
		uc.logger.Error("Login: token signing failed", "user_id", user.ID, "error", err.Error())
		return "", nil, err
	}
	uc.logger.Info("user logged in", "user_id", user.ID)
	return token, user, nil
}

func (uc *UserUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.repo.FindByID(ctx, userID)
}

// UpdateProfile changes the holder's own profile fields. Email is not
// updatable here; it is the verified identity anchor.
func (uc *UserUsecase) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error) {
	user, err := uc.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.PhoneNumber = in.PhoneNumber
	user.University = in.University

	v := validation.Violations{}
	if user.FirstName == "" {
		v["firstName"] = "first name is required"
	}
	if user.LastName == "" {
		v["lastName"] = "last name is required"
	}
	if user.University == "" {
		v["university"] = "university is required"
	}
	if !validation.ValidPhone(user.PhoneNumber) {
		v["phoneNumber"] = "phone number must contain 10 to 15 digits"
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, user); err != nil {
		uc.logger.Error("UpdateProfile: persist failed", "user_id", userID, "error", err.Error())
		return nil, err
	}
	return user, nil
}

func (uc *UserUsecase) sendVerification(ctx context.Context, user *domain.User) {
	token := uuid.NewString()
	if err := uc.tokens.SaveVerification(ctx, token, user.ID, verificationTTL); err != nil {
		uc.logger.Error("verification token save failed", "user_id", user.ID, "error", err.Error())
		return
	}
	if uc.mailer == nil {
		return
	}
	if err := uc.mailer.SendVerificationEmail(user.Email, token); err != nil {
		uc.logger.Warn("verification email failed", "user_id", user.ID, "error", err.Error())
	}
}
