package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/users"
	"github.com/dmitrijs2005/filesmanager/internal/server/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("boom")

func init() {
	hashPassword = func(password string) ([]byte, error) {
		return bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	}
}

type memUsers struct {
	mu      sync.Mutex
	byID    map[string]*models.User
	lookErr error
	makeErr error
}

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.makeErr != nil {
		return nil, r.makeErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return nil, common.ErrAlreadyExists
		}
	}
	c := *u
	r.byID[u.ID] = &c
	return &c, nil
}

func (r *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lookErr != nil {
		return nil, r.lookErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (r *memUsers) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

type memFiles struct {
	mu        sync.Mutex
	nodes     []*models.File
	createErr error
	countErr  error
}

func (r *memFiles) Create(ctx context.Context, f *models.File) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	c := *f
	r.nodes = append(r.nodes, &c)
	out := c
	return &out, nil
}

func (r *memFiles) find(id string) *models.File {
	for _, n := range r.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (r *memFiles) GetByID(ctx context.Context, id string) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.find(id)
	if n == nil {
		return nil, common.ErrorNotFound
	}
	c := *n
	return &c, nil
}

func (r *memFiles) GetByOwner(ctx context.Context, userID, id string) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.find(id)
	if n == nil || n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := *n
	return &c, nil
}

func (r *memFiles) ListByParent(ctx context.Context, userID, parentID string, skip, limit int) ([]*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.File{}
	seen := 0
	for _, n := range r.nodes {
		if n.UserID != userID || n.ParentID != parentID {
			continue
		}
		seen++
		if seen <= skip || len(out) >= limit {
			continue
		}
		c := *n
		out = append(out, &c)
	}
	return out, nil
}

func (r *memFiles) SetPublic(ctx context.Context, userID, id string, value bool) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.find(id)
	if n == nil || n.UserID != userID {
		return nil, common.ErrorNotFound
	}
	n.IsPublic = value
	c := *n
	return &c, nil
}

func (r *memFiles) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.nodes)), nil
}

type fakeRepoManager struct {
	users   *memUsers
	files   *memFiles
	pingErr error
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users: &memUsers{byID: map[string]*models.User{}},
		files: &memFiles{},
	}
}

func (m *fakeRepoManager) Users() users.Repository             { return m.users }
func (m *fakeRepoManager) Files() files.Repository             { return m.files }
func (m *fakeRepoManager) RunMigrations(context.Context) error { return nil }
func (m *fakeRepoManager) Ping(context.Context) error          { return m.pingErr }
func (m *fakeRepoManager) Close(context.Context) error         { return nil }

type recordingQueue struct {
	mu   sync.Mutex
	jobs []models.ThumbnailJob
	err  error
}

func (q *recordingQueue) Enqueue(ctx context.Context, job models.ThumbnailJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func newSessionStore(t *testing.T) (*sessions.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return sessions.NewRedisStore(client), mr
}

func newBlobStore(t *testing.T) *blobstore.LocalStore {
	t.Helper()
	s, err := blobstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return s
}
