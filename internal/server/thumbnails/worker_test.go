package thumbnails

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/logging"
	"github.com/dmitrijs2005/filesmanager/internal/server/blobstore"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
	"github.com/dmitrijs2005/filesmanager/internal/server/queue"
	"github.com/dmitrijs2005/filesmanager/internal/server/repositories/files"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFilesRepo struct {
	files.Repository

	mu   sync.Mutex
	byID map[string]*models.File
	err  error
}

func newFakeFilesRepo(nodes ...*models.File) *fakeFilesRepo {
	r := &fakeFilesRepo{byID: map[string]*models.File{}}
	for _, n := range nodes {
		r.byID[n.ID] = n
	}
	return r
}

func (r *fakeFilesRepo) GetByOwner(ctx context.Context, userID, id string) (*models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	f, ok := r.byID[id]
	if !ok || f.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return f, nil
}

func newLocal(t *testing.T) *blobstore.LocalStore {
	t.Helper()
	s, err := blobstore.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func imageNode(id, user, blob string) *models.File {
	return &models.File{ID: id, UserID: user, Name: "img.png", Type: models.FileTypeImage, ParentID: common.RootParentID, BlobRef: blob}
}

func TestProcess_WritesAllRenditions(t *testing.T) {
	ctx := context.Background()
	blobs := newLocal(t)
	require.NoError(t, blobs.Write(ctx, "blob1", encodePNG(t, 800, 600)))

	w := NewWorker(newFakeFilesRepo(imageNode("f1", "u1", "blob1")), blobs, nil, 1, logging.Nop{})

	state, err := w.Process(ctx, models.ThumbnailJob{FileID: "f1", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, state)

	for _, width := range []int{500, 250, 100} {
		data, err := blobs.Read(ctx, Key("blob1", width))
		require.NoError(t, err)
		cfg, _ := decodeConfig(t, data)
		assert.Equal(t, width, cfg.Width)
	}

	// reprocessing overwrites
	state, err = w.Process(ctx, models.ThumbnailJob{FileID: "f1", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, models.JobCompleted, state)
}

func TestProcess_TerminalFailures(t *testing.T) {
	ctx := context.Background()
	blobs := newLocal(t)
	require.NoError(t, blobs.Write(ctx, "corrupt", []byte("not an image")))

	repo := newFakeFilesRepo(
		imageNode("f1", "u1", "blob-missing"),
		imageNode("f2", "u1", "corrupt"),
		&models.File{ID: "d1", UserID: "u1", Name: "docs", Type: models.FileTypeFolder, ParentID: common.RootParentID},
	)
	w := NewWorker(repo, blobs, nil, 1, logging.Nop{})

	tests := []struct {
		name string
		job  models.ThumbnailJob
		want error
	}{
		{name: "missing file id", job: models.ThumbnailJob{UserID: "u1"}, want: common.ErrMissingFileID},
		{name: "missing user id", job: models.ThumbnailJob{FileID: "f1"}, want: common.ErrMissingUserID},
		{name: "unknown file", job: models.ThumbnailJob{FileID: "nope", UserID: "u1"}, want: common.ErrFileRecordNotFound},
		{name: "foreign owner", job: models.ThumbnailJob{FileID: "f1", UserID: "u2"}, want: common.ErrFileRecordNotFound},
		{name: "missing blob", job: models.ThumbnailJob{FileID: "f1", UserID: "u1"}, want: common.ErrorNotFound},
		{name: "folder", job: models.ThumbnailJob{FileID: "d1", UserID: "u1"}, want: common.ErrFolderHasNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := w.Process(ctx, tt.job)
			assert.Equal(t, models.JobFailed, state)
			assert.True(t, state.Terminal())
			assert.ErrorIs(t, err, tt.want)
		})
	}

	state, err := w.Process(ctx, models.ThumbnailJob{FileID: "f2", UserID: "u1"})
	assert.Equal(t, models.JobFailed, state)
	assert.ErrorContains(t, err, "width 500")
	ok, err := blobs.Exists(ctx, Key("corrupt", 500))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProcess_RepositoryErrorFailsJob(t *testing.T) {
	repo := newFakeFilesRepo()
	repo.err = errors.New("db down")
	w := NewWorker(repo, newLocal(t), nil, 1, logging.Nop{})

	state, err := w.Process(context.Background(), models.ThumbnailJob{FileID: "f1", UserID: "u1"})
	assert.Equal(t, models.JobFailed, state)
	assert.ErrorContains(t, err, "db down")
	assert.NotErrorIs(t, err, common.ErrFileRecordNotFound)
}

func TestProcess_PartialRenditionsAreKept(t *testing.T) {
	ctx := context.Background()
	blobs := newLocal(t)
	require.NoError(t, blobs.Write(ctx, "blob1", encodePNG(t, 800, 600)))

	w := NewWorker(newFakeFilesRepo(imageNode("f1", "u1", "blob1")), blobs, nil, 1, logging.Nop{})
	w.resize = func(src []byte, width int) ([]byte, error) {
		if width == 100 {
			return nil, errors.New("boom")
		}
		return Resize(src, width)
	}

	state, err := w.Process(ctx, models.ThumbnailJob{FileID: "f1", UserID: "u1"})
	assert.Equal(t, models.JobFailed, state)
	assert.ErrorContains(t, err, "width 100")

	for width, want := range map[int]bool{500: true, 250: true, 100: false} {
		ok, err := blobs.Exists(ctx, Key("blob1", width))
		require.NoError(t, err)
		assert.Equal(t, want, ok, "width %d", width)
	}
}

func TestRun_ConsumesAndAcksEveryJob(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	q := queue.NewRedisQueue(client, "fileQueue")

	ctx := context.Background()
	blobs := newLocal(t)
	repo := newFakeFilesRepo()
	for _, id := range []string{"f1", "f2", "f3"} {
		blob := "blob-" + id
		require.NoError(t, blobs.Write(ctx, blob, encodePNG(t, 640, 480)))
		repo.byID[id] = imageNode(id, "u1", blob)
		require.NoError(t, q.Enqueue(ctx, models.ThumbnailJob{FileID: id, UserID: "u1"}))
	}
	require.NoError(t, q.Enqueue(ctx, models.ThumbnailJob{FileID: "gone", UserID: "u1"}))
	_, err := mr.Lpush("fileQueue", "{broken")
	require.NoError(t, err)

	w := NewWorker(repo, blobs, q, 2, logging.Nop{})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- w.Run(runCtx) }()

	require.Eventually(t, func() bool {
		for _, id := range []string{"f1", "f2", "f3"} {
			ok, err := blobs.Exists(ctx, Key("blob-"+id, 100))
			if err != nil || !ok {
				return false
			}
		}
		n, err := q.Len(ctx)
		inFlight, err2 := q.InFlight(ctx)
		return err == nil && err2 == nil && n == 0 && inFlight == 0
	}, 10*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("worker did not stop")
	}
}
