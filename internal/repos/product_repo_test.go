package repos_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productcatalog/internal/domain"
	"productcatalog/internal/repos"
)

type store interface {
	Save(ctx context.Context, p domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id int64) (domain.Product, bool, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

func sqliteStore(t *testing.T) store {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repos.NewProductRepo(db)
}

func eachStore(t *testing.T, fn func(t *testing.T, s store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, sqliteStore(t)) })
	t.Run("memory", func(t *testing.T) { fn(t, repos.NewMemoryStore()) })
}

func TestStore_SaveAssignsID(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		created := time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)

		a, err := s.Save(ctx, domain.Product{Name: "Widget", Price: decimal.RequireFromString("9.99"), CreatedAt: created})
		require.NoError(t, err)
		b, err := s.Save(ctx, domain.Product{Name: "Gadget", Price: decimal.NewFromInt(24), CreatedAt: created})
		require.NoError(t, err)

		assert.NotZero(t, a.ID)
		assert.Greater(t, b.ID, a.ID)

		got, ok, err := s.FindByID(ctx, a.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Widget", got.Name)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("9.99")))
		assert.True(t, got.CreatedAt.Equal(created), "created_at %v", got.CreatedAt)
		assert.Nil(t, got.UpdatedAt)
	})
}

func TestStore_SaveUpserts(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		created := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
		p, err := s.Save(ctx, domain.Product{Name: "Widget", Price: decimal.NewFromInt(1), CreatedAt: created})
		require.NoError(t, err)

		updated := created.Add(time.Hour)
		p.Name = "Widget v2"
		p.Price = decimal.RequireFromString("12.50")
		p.UpdatedAt = &updated
		_, err = s.Save(ctx, p)
		require.NoError(t, err)

		got, ok, err := s.FindByID(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "Widget v2", got.Name)
		assert.Equal(t, "12.5", got.Price.String())
		require.NotNil(t, got.UpdatedAt)
		assert.True(t, got.UpdatedAt.Equal(updated))

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestStore_FindMissing(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		_, ok, err := s.FindByID(ctx, 99)
		require.NoError(t, err)
		assert.False(t, ok)

		exists, err := s.ExistsByID(ctx, 99)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestStore_FindAllEmptyAndOrdered(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		for _, name := range []string{"c", "a", "b"} {
			_, err := s.Save(ctx, domain.Product{Name: name, CreatedAt: time.Now()})
			require.NoError(t, err)
		}
		all, err = s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"c", "a", "b"}, []string{all[0].Name, all[1].Name, all[2].Name})
	})
}

func TestStore_Delete(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		p, err := s.Save(ctx, domain.Product{Name: "gone", CreatedAt: time.Now()})
		require.NoError(t, err)

		exists, err := s.ExistsByID(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, s.DeleteByID(ctx, p.ID))
		exists, err = s.ExistsByID(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		// ids are not handed out twice
		next, err := s.Save(ctx, domain.Product{Name: "next", CreatedAt: time.Now()})
		require.NoError(t, err)
		assert.Greater(t, next.ID, p.ID)

		require.NoError(t, s.Ping(ctx))
	})
}

func TestSeedDemo_Idempotent(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, repos.SeedDemo(db))
	require.NoError(t, repos.SeedDemo(db))

	all, err := repos.NewProductRepo(db).FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "Widget", all[0].Name)
	assert.Equal(t, "9.99", all[0].Price.String())
}

func TestSeedDemo_ClosedDBReturnsError(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.NotPanics(t, func() { assert.Error(t, repos.SeedDemo(db)) })
}
