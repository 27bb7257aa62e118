package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"nga.at/communityforum/internal/entity"
	"nga.at/communityforum/internal/modules/user/dto"
	"nga.at/communityforum/internal/modules/user/repository"
	"nga.at/communityforum/pkg/apperror"
	"nga.at/communityforum/pkg/mailer"
	"nga.at/communityforum/pkg/token"
)

const (
	bcryptCost           = 12
	verificationTokenTTL = 24 * time.Hour
	minPasswordLength    = 6
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	SendVerification(ctx context.Context, userID uuid.UUID) error
	VerifyEmail(ctx context.Context, verificationToken string) (*dto.UserResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error
}

type authService struct {
	repo     repository.UserRepository
	mail     mailer.Sender
	secret   string
	tokenTTL time.Duration
}

func NewAuthService(repo repository.UserRepository, mail mailer.Sender, secret string, tokenTTL time.Duration) AuthService {
	return &authService{
		repo:     repo,
		mail:     mail,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	taken, err := s.repo.UsernameOrEmailTaken(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("username or email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	verificationToken, err := generateVerificationToken()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(verificationTokenTTL)

	user := &entity.User{
		Username:                 req.Username,
		Email:                    req.Email,
		PasswordHash:             string(hashed),
		FirstName:                req.FirstName,
		LastName:                 req.LastName,
		IsVerified:               false,
		VerificationToken:        &verificationToken,
		VerificationTokenExpires: &expiresAt,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Mail delivery must not fail the registration; the user can request a
	// new verification mail later.
	go func() {
		if err := s.mail.SendVerificationEmail(user.Email, user.Username, verificationToken); err != nil {
			log.Printf("failed to send verification email to %s: %v", user.Email, err)
		}
	}()

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByUsernameOrEmail(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same message for unknown user and wrong password.
			return nil, apperror.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	return s.buildAuthResponse(user)
}

func (s *authService) SendVerification(ctx context.Context, userID uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	if user.IsVerified {
		return apperror.BadRequest("email address is already verified")
	}

	verificationToken, err := generateVerificationToken()
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(verificationTokenTTL)

	user.VerificationToken = &verificationToken
	user.VerificationTokenExpires = &expiresAt
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	return s.mail.SendVerificationEmail(user.Email, user.Username, verificationToken)
}

func (s *authService) VerifyEmail(ctx context.Context, verificationToken string) (*dto.UserResponse, error) {
	user, err := s.repo.FindByVerificationToken(ctx, verificationToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.BadRequest("invalid verification token")
		}
		return nil, err
	}

	if user.VerificationTokenExpires != nil && time.Now().After(*user.VerificationTokenExpires) {
		return nil, apperror.BadRequest("verification token has expired")
	}

	if user.IsVerified {
		return nil, apperror.BadRequest("email address is already verified")
	}

	now := time.Now()
	user.IsVerified = true
	user.EmailVerifiedAt = &now
	// Single use: clear the token so a replay fails.
	user.VerificationToken = nil
	user.VerificationTokenExpires = nil

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, req dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if req.FirstName == nil && req.LastName == nil && req.Email == nil {
		return nil, apperror.BadRequest("at least one field must be updated")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.repo.EmailTakenByOther(ctx, *req.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.Conflict("email address is already in use")
		}

		verificationToken, err := generateVerificationToken()
		if err != nil {
			return nil, err
		}
		expiresAt := time.Now().Add(verificationTokenTTL)

		// Changing the email invalidates the previous verification.
		user.Email = *req.Email
		user.IsVerified = false
		user.EmailVerifiedAt = nil
		user.VerificationToken = &verificationToken
		user.VerificationTokenExpires = &expiresAt

		go func() {
			if err := s.mail.SendVerificationEmail(user.Email, user.Username, verificationToken); err != nil {
				log.Printf("failed to send verification email to %s: %v", user.Email, err)
			}
		}()
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return apperror.BadRequest("new password must be at least 6 characters")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperror.BadRequest("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashed)
	return s.repo.Update(ctx, user)
}

func (s *authService) buildAuthResponse(user *entity.User) (*dto.AuthResponse, error) {
	signed, expiresAt, err := token.Generate(user.ID, user.Username, user.IsAdmin, s.secret, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        toUserResponse(user),
	}, nil
}

func toUserResponse(user *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		IsVerified:      user.IsVerified,
		EmailVerifiedAt: user.EmailVerifiedAt,
		IsAdmin:         user.IsAdmin,
		CreatedAt:       user.CreatedAt,
	}
}

func generateVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
