package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mkravets/filehub/internal/common"
	"github.com/mkravets/filehub/internal/models"
)

// --- in-memory fakes shared by the service tests ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == user.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.CreatedAt = time.Now()
	f.byID[user.ID] = user
	return user, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

type fakeFilesRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[string]*models.File
}

func newFakeFilesRepo() *fakeFilesRepo {
	return &fakeFilesRepo{byID: make(map[string]*models.File)}
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	file.ID = fmt.Sprintf("file-%d", f.nextID)
	file.CreatedAt = time.Unix(int64(f.nextID), 0)
	clone := *file
	f.byID[file.ID] = &clone
	return file, nil
}

func (f *fakeFilesRepo) GetByID(ctx context.Context, id string) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if file, ok := f.byID[id]; ok {
		clone := *file
		return &clone, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeFilesRepo) ListByParent(ctx context.Context, userID, parentID string, page, pageSize int) ([]*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []*models.File
	for _, file := range f.byID {
		if file.UserID == userID && file.ParentID == parentID {
			clone := *file
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	start := page * pageSize
	if start >= len(matched) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (f *fakeFilesRepo) SetVisibility(ctx context.Context, id string, public bool) (*models.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	file.IsPublic = public
	clone := *file
	return &clone, nil
}

func (f *fakeFilesRepo) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.byID)), nil
}

type cacheEntry struct {
	value   string
	expires time.Time
}

// fakeCache is an expiring map with an injectable clock.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(ttl)}
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok || c.now().After(entry.expires) {
		return "", common.ErrNotFound
	}
	return entry.value, nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) Ping(ctx context.Context) error { return nil }

type fakeBlobStore struct {
	mu       sync.Mutex
	blobs    map[string][]byte
	writeErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (b *fakeBlobStore) Write(ctx context.Context, key string, data []byte) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blobs[key] = append([]byte(nil), data...)
	return nil
}

func (b *fakeBlobStore) Read(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if data, ok := b.blobs[key]; ok {
		return append([]byte(nil), data...), nil
	}
	return nil, common.ErrNotFound
}

func (b *fakeBlobStore) Exists(ctx context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.blobs[key]
	return ok, nil
}

type fakeQueue struct {
	mu         sync.Mutex
	jobs       []*models.ThumbnailJob
	enqueueErr error
}

func (q *fakeQueue) Enqueue(ctx context.Context, job *models.ThumbnailJob) error {
	if q.enqueueErr != nil {
		return q.enqueueErr
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}
