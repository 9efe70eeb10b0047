package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/umehtaji1981-tech/samaj-setu/internal/dedup"
	"github.com/umehtaji1981-tech/samaj-setu/internal/models"
	"github.com/umehtaji1981-tech/samaj-setu/internal/validation"
)

const tokenIssuer = "samaj-setu"

// AuthService handles the demo login. Users sign in with their mobile
// number and a fixed one-time code; admins with a passcode.
type AuthService struct {
	secret          []byte
	sessionDuration time.Duration
	demoOTP         string
	adminHash       []byte
	now             func() time.Time
}

// AuthOptions configures an AuthService. AdminPasscodeHash takes
// precedence over AdminPasscode.
type AuthOptions struct {
	JWTSecret         string
	SessionDuration   time.Duration
	DemoOTP           string
	AdminPasscode     string
	AdminPasscodeHash string
}

// Claims carried by a session token
type Claims struct {
	Role   models.Role `json:"role"`
	Mobile string      `json:"mobile,omitempty"`
	Name   string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// NewAuthService creates a new auth service
func NewAuthService(opts AuthOptions) (*AuthService, error) {
	if opts.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	hash := []byte(opts.AdminPasscodeHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(opts.AdminPasscode), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin passcode: %w", err)
		}
	}
	if opts.SessionDuration <= 0 {
		opts.SessionDuration = 24 * time.Hour
	}
	return &AuthService{
		secret:          []byte(opts.JWTSecret),
		sessionDuration: opts.SessionDuration,
		demoOTP:         opts.DemoOTP,
		adminHash:       hash,
		now:             time.Now,
	}, nil
}

// Login signs a user in with their mobile number and the demo code
func (s *AuthService) Login(mobile, otp string) (*models.Session, error) {
	if err := validation.ValidateMobile(mobile); err != nil {
		return nil, err
	}
	if subtle.ConstantTimeCompare([]byte(otp), []byte(s.demoOTP)) != 1 {
		return nil, ErrInvalidCredentials
	}
	digits := dedup.NormalizeMobile(mobile)
	return s.issue(models.User{ID: "user-" + digits, Mobile: digits, Role: models.RoleUser})
}

// AdminLogin signs an admin in with the passcode
func (s *AuthService) AdminLogin(passcode string) (*models.Session, error) {
	if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(passcode)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(models.User{ID: "admin-1", Mobile: "admin", Role: models.RoleAdmin, Name: "Samaj Admin"})
}

func (s *AuthService) issue(user models.User) (*models.Session, error) {
	now := s.now()
	expiresAt := now.Add(s.sessionDuration)
	claims := Claims{
		Role:   user.Role,
		Mobile: user.Mobile,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &models.Session{Token: token, User: user, ExpiresAt: expiresAt}, nil
}

// ParseToken validates a session token and returns its user
func (s *AuthService) ParseToken(token string) (*models.User, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Role != models.RoleAdmin && claims.Role != models.RoleUser {
		return nil, ErrInvalidToken
	}
	return &models.User{ID: claims.Subject, Mobile: claims.Mobile, Role: claims.Role, Name: claims.Name}, nil
}
