package usecase

import (
	"context"
	"time"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/pkg/errors"
	"campusbooks/pkg/logger"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	identity IdentityClient
}

func NewAuthUseCase(userRepo repository.UserRepository, identity IdentityClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		identity: identity,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

type AuthResult struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	uid, err := uc.identity.CreateUser(ctx, input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:          uid,
		Email:       input.Email,
		DisplayName: input.DisplayName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Internal("Failed to create user record", err)
	}

	token, err := uc.identity.GenerateToken(ctx, uid)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, err := uc.identity.SignInWithEmailPassword(email, password)
	if err != nil {
		logger.Warn("Login failed for %s: %v", email, err)
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.identity.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	user, err := uc.Me(ctx, uid)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:  user,
		Token: token,
	}, nil
}

// Me returns the caller's profile. Users who signed up through a federated
// provider may have no document yet; in that case the identity record is
// mirrored into the store on first access.
func (uc *AuthUseCase) Me(ctx context.Context, uid string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	session, err := uc.identity.CurrentSession(ctx, uid)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	now := time.Now()
	user = &entity.User{
		ID:          session.UID,
		Email:       session.Email,
		DisplayName: session.DisplayName,
		PhotoURL:    session.PhotoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		logger.Warn("Failed to mirror identity record for %s: %v", uid, err)
	}

	return user, nil
}

func (uc *AuthUseCase) SignOut(ctx context.Context, uid string) error {
	if err := uc.identity.SignOut(ctx, uid); err != nil {
		return errors.Internal("Failed to sign out", err)
	}
	return nil
}
