package api

import "context"

// Client is the Auth API collaborator contract the session manager is built
// against. Implementations return [*APIError] for envelope and transport
// failures so the manager can normalize them into its error bookkeeping.
//
//	Docs: docs/api.md
type Client interface {
	Login(ctx context.Context, creds Credentials) (*LoginData, error)
	Register(ctx context.Context, req RegisterRequest) (*LoginData, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context, refreshToken string) (*TokenData, error)

	GetCurrentUser(ctx context.Context) (*User, error)
	GetUserPermissions(ctx context.Context) ([]string, error)
	GetUserRoles(ctx context.Context) ([]string, error)

	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error

	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error

	SetupTwoFactor(ctx context.Context) (*TwoFactorSetup, error)
	VerifyTwoFactor(ctx context.Context, code, tempToken string) (*LoginData, error)
	DisableTwoFactor(ctx context.Context, code string) error
}

// TokenSource supplies the bearer token attached to authenticated requests.
// The session manager satisfies this interface; an empty string means the
// request goes out unauthenticated.
type TokenSource interface {
	AccessToken() string
}
