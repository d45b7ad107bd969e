package session

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/cartsync/internal/client/client"
	"github.com/dmitrijs2005/cartsync/internal/client/models"
	"github.com/dmitrijs2005/cartsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cartsync/internal/common"
	"github.com/dmitrijs2005/cartsync/internal/logging"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteRepo(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

func redisRepo(t *testing.T) metadata.Repository {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return metadata.NewRedisRepository(rdb)
}

var backends = map[string]func(*testing.T) metadata.Repository{
	"sqlite": sqliteRepo,
	"redis":  redisRepo,
}

func TestPersistRestore_RoundTrip(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewStore(mk(t), logging.NewNop())
			u := models.User{ID: 1, Username: "a", Email: "a@x.io", Role: "USER"}

			require.NoError(t, s.Persist(ctx, u))

			got, err := s.Restore(ctx)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, u, *got)
		})
	}
}

func TestRestore_EmptyStoreIsAnonymous(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			got, err := NewStore(mk(t), logging.NewNop()).Restore(context.Background())
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestRestore_MalformedRecordIsDiscarded(t *testing.T) {
	cases := map[string][]byte{
		"not json":   []byte("{oops"),
		"zero id":    []byte(`{"id":0,"username":"ghost"}`),
		"wrong type": []byte(`[1,2,3]`),
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := sqliteRepo(t)
			_, err := repo.Swap(ctx, common.SessionUserKey, payload)
			require.NoError(t, err)

			var buf bytes.Buffer
			s := NewStore(repo, logging.New(slog.LevelDebug, &buf))

			got, err := s.Restore(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)
			assert.Contains(t, buf.String(), common.ErrMalformedPersistedState.Error())

			raw, err := repo.Get(ctx, common.SessionUserKey)
			require.NoError(t, err)
			assert.Nil(t, raw, "bad record must be removed")
		})
	}
}

func TestPersist_OverwritesAndLogsIdentityChange(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	s := NewStore(sqliteRepo(t), logging.New(slog.LevelInfo, &buf))

	require.NoError(t, s.Persist(ctx, models.User{ID: 1, Username: "a"}))
	require.NoError(t, s.Persist(ctx, models.User{ID: 2, Username: "b"}))

	got, err := s.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
	assert.Contains(t, buf.String(), "replacing persisted session")
}

func TestClear_IsIdempotent(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := NewStore(mk(t), logging.NewNop())
			require.NoError(t, s.Persist(ctx, models.User{ID: 1}))

			require.NoError(t, s.Clear(ctx))
			require.NoError(t, s.Clear(ctx))

			got, err := s.Restore(ctx)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

type brokenRepo struct {
	metadata.Repository
	err error
}

func (b brokenRepo) Get(context.Context, string) ([]byte, error) { return nil, b.err }
func (b brokenRepo) Swap(context.Context, string, []byte) ([]byte, error) {
	return nil, b.err
}
func (b brokenRepo) Delete(context.Context, string) error            { return b.err }
func (b brokenRepo) List(context.Context) (map[string][]byte, error) { return nil, b.err }

func TestStore_RepositoryErrorsAreWrapped(t *testing.T) {
	boom := errors.New("disk gone")
	s := NewStore(brokenRepo{err: boom}, logging.NewNop())
	ctx := context.Background()

	_, err := s.Restore(ctx)
	require.ErrorIs(t, err, boom)

	err = s.Persist(ctx, models.User{ID: 1})
	require.ErrorIs(t, err, boom)

	err = s.Clear(ctx)
	require.ErrorIs(t, err, boom)

	_, err = s.Reset(ctx)
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "reset local state")
}

func TestReset_WipesEveryRecord(t *testing.T) {
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := mk(t)
			s := NewStore(repo, logging.NewNop())
			require.NoError(t, s.Persist(ctx, models.User{ID: 1}))
			_, err := repo.Swap(ctx, "stale", []byte("x"))
			require.NoError(t, err)

			n, err := s.Reset(ctx)
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			all, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)

			n, err = s.Reset(ctx)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}
