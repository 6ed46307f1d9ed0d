package account

import "context"

type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) (string, error)
	SignInWithPassword(ctx context.Context, email, password string) (SignedInUser, error)
	SignInWithCredential(ctx context.Context, credential Credential) (SignedInUser, error)
}

type ProfileStore interface {
	PutProfile(ctx context.Context, profile Profile) error
}

type ProfileQueryRepository interface {
	GetByID(ctx context.Context, userID string) (*Profile, error)
}

type CredentialVerifier interface {
	Verify(ctx context.Context, token FederatedToken) (Credential, error)
}
