package users

import "context"

// DirectoryEntry pairs a User with its stored secret hash. The hash never
// leaves the directory except through this type; User itself carries no
// credential material.
type DirectoryEntry struct {
	User       User
	SecretHash string
}

// Directory is the identity-directory collaborator. The portal ships a
// simulated in-memory implementation (demodirectory); a real deployment
// replaces it with a credential service without changing the session store.
type Directory interface {
	// FindByEmail returns the entry whose email matches case-insensitively,
	// or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*DirectoryEntry, error)
	// Create adds a new entry. Returns ErrEmailTaken if the email is already
	// registered (case-insensitive).
	Create(ctx context.Context, entry DirectoryEntry) error
	// List returns all users in the directory.
	List(ctx context.Context) ([]User, error)
}
