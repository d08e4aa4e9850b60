package domain

import "errors"

var (
	// ErrIdentityExists is returned when identity creation is attempted while
	// a valid self identity is already resolvable.
	ErrIdentityExists = errors.New("identity already exists")

	// ErrIdentityNotFound is returned when no self identity is resolvable, a
	// lookup found no match, or persisted identity data no longer binds to
	// the vault's current keypair.
	ErrIdentityNotFound = errors.New("identity does not exist")

	// ErrKeypairInvalid is returned when the vault holds no usable keypair.
	ErrKeypairInvalid = errors.New("keypair is invalid or missing")

	// ErrKeypairUnsupported is returned when the vault keypair is of a kind
	// this build cannot use.
	ErrKeypairUnsupported = errors.New("unsupported keypair type")

	// ErrSecretNotFound is returned by a vault when the requested key has no
	// stored value.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrVaultLocked is returned when secrets are accessed before Unlock.
	ErrVaultLocked = errors.New("vault is locked")

	// ErrBlockNotFound is returned by a block store for an unknown content id.
	ErrBlockNotFound = errors.New("block not found")
)
