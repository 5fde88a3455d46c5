package core

import (
	"context"
	"errors"
	"fmt"
)

// ProfileProvider is the profile surface the HTTP adapter consumes.
type ProfileProvider interface {
	PublicProfile(ctx context.Context, username string) (*PublicProfile, error)
	UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (*Account, error)
}

// Profiles serves the public page lookup and lets an account holder edit
// their own bio and avatar. Secret hashes never pass through here; the
// public view is rebuilt field by field.
type Profiles struct {
	store CredentialStore
}

var _ ProfileProvider = (*Profiles)(nil)

func NewProfiles(store CredentialStore) *Profiles {
	return &Profiles{store: store}
}

// PublicProfile returns the anonymous view of an account's page.
func (p *Profiles) PublicProfile(ctx context.Context, username string) (*PublicProfile, error) {
	account, err := p.store.GetAccountByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	return &PublicProfile{
		Username:  account.Username,
		Bio:       account.Bio,
		AvatarURL: account.AvatarURL,
	}, nil
}

// UpdateProfile mutates the caller's own profile fields.
func (p *Profiles) UpdateProfile(ctx context.Context, accountID string, update ProfileUpdate) (*Account, error) {
	account, err := p.store.UpdateProfile(ctx, accountID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return account, nil
}
