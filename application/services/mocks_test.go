package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"memeboard-backend/domain"
	"memeboard-backend/pkg/common"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, p common.PaginationParams) ([]domain.User, int, error) {
	args := m.Called(ctx, p)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, bio string) error {
	args := m.Called(ctx, id, bio)
	return args.Error(0)
}

func (m *MockUserRepository) AddFriend(ctx context.Context, a, b primitive.ObjectID) error {
	args := m.Called(ctx, a, b)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveFriend(ctx context.Context, a, b primitive.ObjectID) error {
	args := m.Called(ctx, a, b)
	return args.Error(0)
}

type MockMemeRepository struct {
	mock.Mock
}

func (m *MockMemeRepository) Create(ctx context.Context, meme *domain.Meme) (primitive.ObjectID, error) {
	args := m.Called(ctx, meme)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockMemeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Meme, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Meme), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMemeRepository) ListVisible(ctx context.Context, viewer primitive.ObjectID, p common.PaginationParams) ([]domain.Meme, int, error) {
	args := m.Called(ctx, viewer, p)
	return args.Get(0).([]domain.Meme), args.Int(1), args.Error(2)
}

func (m *MockMemeRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMemeRepository) AddLike(ctx context.Context, memeID, userID primitive.ObjectID) error {
	args := m.Called(ctx, memeID, userID)
	return args.Error(0)
}

func (m *MockMemeRepository) RemoveLike(ctx context.Context, memeID, userID primitive.ObjectID) error {
	args := m.Called(ctx, memeID, userID)
	return args.Error(0)
}

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Store(ctx context.Context, token *domain.AuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) Lookup(ctx context.Context, tokenID string) (*domain.AuthToken, error) {
	args := m.Called(ctx, tokenID)
	if v := args.Get(0); v != nil {
		return v.(*domain.AuthToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenRepository) Revoke(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenRepository) RevokeAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockShortLinkRepository struct {
	mock.Mock
}

func (m *MockShortLinkRepository) Create(ctx context.Context, link *domain.ShortLink) (primitive.ObjectID, error) {
	args := m.Called(ctx, link)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockShortLinkRepository) Resolve(ctx context.Context, slug string) (*domain.ShortLink, error) {
	args := m.Called(ctx, slug)
	if v := args.Get(0); v != nil {
		return v.(*domain.ShortLink), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockShortLinkRepository) GetBySlug(ctx context.Context, slug string) (*domain.ShortLink, error) {
	args := m.Called(ctx, slug)
	if v := args.Get(0); v != nil {
		return v.(*domain.ShortLink), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockShortLinkRepository) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]domain.ShortLink, error) {
	args := m.Called(ctx, owner)
	return args.Get(0).([]domain.ShortLink), args.Error(1)
}

func (m *MockShortLinkRepository) Delete(ctx context.Context, slug string, owner primitive.ObjectID) error {
	args := m.Called(ctx, slug, owner)
	return args.Error(0)
}
