package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"memeboard-backend/domain"
	"memeboard-backend/pkg/common"
	"memeboard-backend/pkg/errors"
)

// In-memory repositories so the handlers can be tested through a real
// service stack without a database.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return primitive.NilObjectID, errors.NewConflictError("user already exists")
		}
	}
	id := primitive.NewObjectID()
	cp := *user
	cp.ID = id
	r.users[id] = &cp
	return id, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, errors.NewNotFoundError("user")
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("user")
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("user")
}

func (r *fakeUserRepo) List(_ context.Context, p common.PaginationParams) ([]domain.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })
	total := len(all)
	start := p.CalculateOffset()
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, bio string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return errors.NewNotFoundError("user")
	}
	u.Bio = bio
	u.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) AddFriend(_ context.Context, a, b primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ua, ok := r.users[a]
	if !ok {
		return errors.NewNotFoundError("user")
	}
	ub, ok := r.users[b]
	if !ok {
		return errors.NewNotFoundError("user")
	}
	ua.Friends = append(ua.Friends, b)
	ub.Friends = append(ub.Friends, a)
	return nil
}

func (r *fakeUserRepo) RemoveFriend(_ context.Context, a, b primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	remove := func(list []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
		out := list[:0]
		for _, v := range list {
			if v != id {
				out = append(out, v)
			}
		}
		return out
	}
	if ua, ok := r.users[a]; ok {
		ua.Friends = remove(ua.Friends, b)
	}
	if ub, ok := r.users[b]; ok {
		ub.Friends = remove(ub.Friends, a)
	}
	return nil
}

type fakeMemeRepo struct {
	mu    sync.Mutex
	memes map[primitive.ObjectID]*domain.Meme
}

func newFakeMemeRepo() *fakeMemeRepo {
	return &fakeMemeRepo{memes: make(map[primitive.ObjectID]*domain.Meme)}
}

func (r *fakeMemeRepo) Create(_ context.Context, meme *domain.Meme) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	cp := *meme
	cp.ID = id
	r.memes[id] = &cp
	return id, nil
}

func (r *fakeMemeRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Meme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.memes[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, errors.NewNotFoundError("meme")
}

func (r *fakeMemeRepo) ListVisible(_ context.Context, viewer primitive.ObjectID, p common.PaginationParams) ([]domain.Meme, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	visible := make([]domain.Meme, 0, len(r.memes))
	for _, m := range r.memes {
		if m.VisibleTo(viewer) {
			visible = append(visible, *m)
		}
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].CreatedAt.After(visible[j].CreatedAt) })
	total := len(visible)
	start := p.CalculateOffset()
	if start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return visible[start:end], total, nil
}

func (r *fakeMemeRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.memes[id]; !ok {
		return errors.NewNotFoundError("meme")
	}
	delete(r.memes, id)
	return nil
}

func (r *fakeMemeRepo) AddLike(_ context.Context, memeID, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memes[memeID]
	if !ok {
		return errors.NewNotFoundError("meme")
	}
	if !m.LikedBy(userID) {
		m.Likes = append(m.Likes, userID)
	}
	return nil
}

func (r *fakeMemeRepo) RemoveLike(_ context.Context, memeID, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.memes[memeID]
	if !ok {
		return errors.NewNotFoundError("meme")
	}
	out := m.Likes[:0]
	for _, v := range m.Likes {
		if v != userID {
			out = append(out, v)
		}
	}
	m.Likes = out
	return nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.AuthToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*domain.AuthToken)}
}

func (r *fakeTokenRepo) Store(_ context.Context, token *domain.AuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *token
	r.tokens[token.TokenID] = &cp
	return nil
}

func (r *fakeTokenRepo) Lookup(_ context.Context, tokenID string) (*domain.AuthToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tok, ok := r.tokens[tokenID]; ok {
		tok.LastSeenAt = time.Now()
		cp := *tok
		return &cp, nil
	}
	return nil, errors.NewNotFoundError("token")
}

func (r *fakeTokenRepo) Revoke(_ context.Context, tokenID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[tokenID]; !ok {
		return errors.NewNotFoundError("token")
	}
	delete(r.tokens, tokenID)
	return nil
}

func (r *fakeTokenRepo) RevokeAllForUser(_ context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, tok := range r.tokens {
		if tok.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

type fakeShortLinkRepo struct {
	mu    sync.Mutex
	links map[string]*domain.ShortLink
}

func newFakeShortLinkRepo() *fakeShortLinkRepo {
	return &fakeShortLinkRepo{links: make(map[string]*domain.ShortLink)}
}

func (r *fakeShortLinkRepo) Create(_ context.Context, link *domain.ShortLink) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.links[link.Slug]; ok {
		return primitive.NilObjectID, errors.NewConflictError("slug already exists")
	}
	id := primitive.NewObjectID()
	cp := *link
	cp.ID = id
	r.links[link.Slug] = &cp
	return id, nil
}

func (r *fakeShortLinkRepo) Resolve(_ context.Context, slug string) (*domain.ShortLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[slug]
	if !ok {
		return nil, errors.NewNotFoundError("short link")
	}
	link.Hits++
	cp := *link
	return &cp, nil
}

func (r *fakeShortLinkRepo) GetBySlug(_ context.Context, slug string) (*domain.ShortLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if link, ok := r.links[slug]; ok {
		cp := *link
		return &cp, nil
	}
	return nil, errors.NewNotFoundError("short link")
}

func (r *fakeShortLinkRepo) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]domain.ShortLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.ShortLink{}
	for _, link := range r.links {
		if link.CreatedBy == owner {
			out = append(out, *link)
		}
	}
	return out, nil
}

func (r *fakeShortLinkRepo) Delete(_ context.Context, slug string, owner primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[slug]
	if !ok || link.CreatedBy != owner {
		return errors.NewNotFoundError("short link")
	}
	delete(r.links, slug)
	return nil
}
