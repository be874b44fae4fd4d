package userrepofake

import (
	"context"
	"sync"
	"time"

	"github.com/guilddash/guilddash/users"
)

var _ users.Repo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	byID        map[string]*users.User
	byDiscordID map[string]string // discord id to internal id
	lock        sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		byID:        make(map[string]*users.User),
		byDiscordID: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Upsert(_ context.Context, user *users.User) (*users.User, error) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	now := time.Now()
	if existingID, ok := ur.byDiscordID[user.DiscordID]; ok {
		existing := ur.byID[existingID]
		updated := *existing
		updated.Email = user.Email
		updated.Username = user.Username
		updated.AvatarURL = user.AvatarURL
		updated.UpdatedAt = now
		ur.byID[existingID] = &updated
		return &updated, nil
	}

	stored := *user
	stored.CreatedAt = now
	stored.UpdatedAt = now
	ur.byID[stored.ID] = &stored
	ur.byDiscordID[stored.DiscordID] = stored.ID
	return &stored, nil
}

func (ur *FakeUserRepo) Get(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

// Len reports the number of stored users, for assertions in tests.
func (ur *FakeUserRepo) Len() int {
	ur.lock.RLock()
	defer ur.lock.RUnlock()
	return len(ur.byID)
}
