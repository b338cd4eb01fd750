package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"hilanderia-pos/internal/model"
	"hilanderia-pos/internal/repository"
	"hilanderia-pos/pkg/apperr"
	"hilanderia-pos/pkg/jwt"
	"hilanderia-pos/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LoginRequest struct {
	Name string `json:"name"`
	DNI  string `json:"dni"`
}

// Session is the staff member behind a request.
type Session struct {
	StaffID uuid.UUID     `json:"staff_id"`
	Name    string        `json:"name"`
	DNI     string        `json:"dni"`
	Profile model.Profile `json:"profile"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Staff     Session   `json:"staff"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*Session, error)
}

type authService struct {
	customers func() repository.CustomerRepository
	tokens    *jwt.Manager
	notifier  Notifier
	log       *zap.Logger
}

func NewAuthService(store repository.Store, tokens *jwt.Manager, notifier Notifier, log *zap.Logger) AuthService {
	return &authService{
		customers: store.Customers,
		tokens:    tokens,
		notifier:  notifierOrNop(notifier),
		log:       log.Named("auth"),
	}
}

// Login matches name and DNI exactly against the roster. Only entries with
// a staff profile may log in. There is no password.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	name := strings.TrimSpace(req.Name)
	dni := strings.TrimSpace(req.DNI)
	if name == "" {
		return nil, apperr.Invalid("name is required")
	}
	if !validator.IsDNI(dni) {
		return nil, apperr.Invalid("dni must have exactly 8 digits")
	}

	staff, err := s.customers().FindByNameAndDNI(ctx, name, dni)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Info("login rejected", zap.String("dni", dni))
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, translate(err, dni)
	}
	if !staff.IsStaff() {
		s.log.Info("login rejected, no staff profile", zap.String("customer_id", staff.ID.String()))
		return nil, apperr.ErrProfileNotAllowed
	}

	token, err := s.tokens.GenerateToken(staff.ID, staff.Name, string(staff.Profile))
	if err != nil {
		return nil, apperr.Store(err)
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperr.Store(err)
	}

	session := Session{StaffID: staff.ID, Name: staff.Name, DNI: staff.DNI, Profile: staff.Profile}
	s.log.Info("staff logged in", zap.String("staff_id", staff.ID.String()), zap.String("profile", string(staff.Profile)))
	s.notifier.Publish("staff_status", "login", session, staff.Name+" inició sesión")

	return &LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Staff:     session,
	}, nil
}

// ValidateToken checks the signature and that the roster entry still holds a
// staff profile.
func (s *authService) ValidateToken(ctx context.Context, token string) (*Session, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, apperr.ErrInvalidCredentials.Wrap(err)
	}

	staff, err := s.customers().FindByID(ctx, claims.StaffID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, translate(err, claims.StaffID.String())
	}
	if !staff.IsStaff() {
		return nil, apperr.ErrProfileNotAllowed
	}

	return &Session{StaffID: staff.ID, Name: staff.Name, DNI: staff.DNI, Profile: staff.Profile}, nil
}
