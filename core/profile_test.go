package core

import (
	"context"
	"errors"
	"testing"
)

func TestProfiles_PublicProfile(t *testing.T) {
	store := NewFakeStorage()
	profiles := NewProfiles(store)
	ctx := context.Background()

	bio := "links and things"
	store.CreateAccount(ctx, &Account{
		ID:           "a1",
		Username:     "alice",
		PasswordHash: "$argon2id$x",
		Bio:          &bio,
	})

	got, err := profiles.PublicProfile(ctx, "Alice")
	if err != nil {
		t.Fatalf("PublicProfile() error = %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username = %q, want %q", got.Username, "alice")
	}
	if got.Bio == nil || *got.Bio != bio {
		t.Errorf("Bio = %v, want %q", got.Bio, bio)
	}

	if _, err := profiles.PublicProfile(ctx, "nobody"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("PublicProfile(unknown) error = %v, want ErrAccountNotFound", err)
	}
}

func TestProfiles_UpdateProfile(t *testing.T) {
	store := NewFakeStorage()
	profiles := NewProfiles(store)
	ctx := context.Background()

	store.CreateAccount(ctx, &Account{ID: "a1", Username: "alice", PasswordHash: "$argon2id$x"})

	bio := "new bio"
	avatar := "https://example.com/a.png"
	updated, err := profiles.UpdateProfile(ctx, "a1", ProfileUpdate{Bio: &bio, AvatarURL: &avatar})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Bio == nil || *updated.Bio != bio {
		t.Errorf("Bio = %v, want %q", updated.Bio, bio)
	}
	if updated.AvatarURL == nil || *updated.AvatarURL != avatar {
		t.Errorf("AvatarURL = %v, want %q", updated.AvatarURL, avatar)
	}

	// Partial update leaves the other field alone.
	other := "only bio"
	updated, err = profiles.UpdateProfile(ctx, "a1", ProfileUpdate{Bio: &other})
	if err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.AvatarURL == nil || *updated.AvatarURL != avatar {
		t.Error("AvatarURL must be untouched by a bio-only update")
	}
}
