package collections

import (
	"context"

	"github.com/ugogo-app/ugogo-api/internal/domain/entity"
	"github.com/ugogo-app/ugogo-api/internal/domain/repository"
	"github.com/ugogo-app/ugogo-api/internal/infrastructure/blobstore"
)

type UserCollection struct {
	store blobstore.Store
}

func NewUserCollection(store blobstore.Store) *UserCollection {
	return &UserCollection{store: store}
}

func (c *UserCollection) Load(ctx context.Context) ([]entity.User, error) {
	return load[entity.User](ctx, c.store, UsersKey)
}

func (c *UserCollection) Save(ctx context.Context, users []entity.User) error {
	return save(ctx, c.store, UsersKey, users)
}

func (c *UserCollection) Seed(ctx context.Context, users []entity.User) (bool, error) {
	return seed(ctx, c.store, UsersKey, users)
}

var _ repository.UserCollection = (*UserCollection)(nil)
