package usecase

import (
	"context"

	"campusbooks/internal/infrastructure/firebase"
)

type IdentityClient interface {
	CreateUser(ctx context.Context, email, password, displayName string) (string, error)
	VerifyToken(ctx context.Context, token string) (string, error)
	GenerateToken(ctx context.Context, uid string) (string, error)
	SignInWithEmailPassword(email, password string) (string, error)
	CurrentSession(ctx context.Context, uid string) (*firebase.Session, error)
	SignOut(ctx context.Context, uid string) error
}
