package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ProfileStore scopes a KVStore to one visitor profile, the way a browser
// profile scopes localStorage.
type ProfileStore struct {
	kv KVStore
	id uuid.UUID
}

func NewProfileStore(kv KVStore, profileID uuid.UUID) *ProfileStore {
	return &ProfileStore{
		kv: kv,
		id: profileID,
	}
}

func ProfileKey(profileID uuid.UUID, key string) string {
	return fmt.Sprintf("profile:%s:%s", profileID, key)
}

func (p *ProfileStore) Get(ctx context.Context, key string) (string, error) {
	return p.kv.Get(ctx, ProfileKey(p.id, key))
}

func (p *ProfileStore) Set(ctx context.Context, key, value string) error {
	return p.kv.Set(ctx, ProfileKey(p.id, key), value)
}

func (p *ProfileStore) Remove(ctx context.Context, key string) error {
	return p.kv.Remove(ctx, ProfileKey(p.id, key))
}
