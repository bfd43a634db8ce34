package library_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/errgroup"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/npcforge/internal/game/npc"
	"github.com/cory-johannsen/npcforge/internal/library"
	"github.com/cory-johannsen/npcforge/internal/library/librarytest"
)

func TestMemoryStore_Conformance(t *testing.T) {
	librarytest.Run(t, func(*testing.T) library.Store { return library.NewMemoryStore() })
}

func TestService_CapacityRejectsNewButAllowsUpdate(t *testing.T) {
	ctx := context.Background()
	svc := library.NewService(library.NewMemoryStore(), 2, zaptest.NewLogger(t))

	require.NoError(t, svc.Save(ctx, librarytest.Record("a")))
	require.NoError(t, svc.Save(ctx, librarytest.Record("b")))
	full, err := svc.IsFull(ctx)
	require.NoError(t, err)
	assert.True(t, full)

	err = svc.Save(ctx, librarytest.Record("c"))
	assert.ErrorIs(t, err, library.ErrFull)

	update := librarytest.Record("a")
	update.Name = "Renamed"
	require.NoError(t, svc.Save(ctx, update))
	got, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
}

func TestService_Defaults(t *testing.T) {
	svc := library.NewService(library.NewMemoryStore(), 0, nil)
	assert.Equal(t, library.DefaultCapacity, svc.Capacity())
	assert.Error(t, svc.Save(context.Background(), &npc.NPC{}))
}

func TestService_ExistsDeleteNotes(t *testing.T) {
	ctx := context.Background()
	svc := library.NewService(library.NewMemoryStore(), 10, nil)
	require.NoError(t, svc.Save(ctx, librarytest.Record("a")))

	ok, err := svc.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	rec, err := svc.UpdateNotes(ctx, "a", "suspicious of the party")
	require.NoError(t, err)
	assert.Equal(t, "suspicious of the party", rec.Notes)
	got, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "suspicious of the party", got.Notes)

	require.NoError(t, svc.Delete(ctx, "a"))
	ok, err = svc.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.UpdateNotes(ctx, "a", "x")
	assert.ErrorIs(t, err, library.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "a"), library.ErrNotFound)
}

func TestService_Clear(t *testing.T) {
	ctx := context.Background()
	svc := library.NewService(library.NewMemoryStore(), 10, nil)
	require.NoError(t, svc.Save(ctx, librarytest.Record("a")))
	require.NoError(t, svc.Clear(ctx))
	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

type failingStore struct{ library.Store }

func (failingStore) Get(context.Context, string) (*npc.NPC, error) {
	return nil, errors.New("disk on fire")
}

func TestService_PropagatesStoreErrors(t *testing.T) {
	svc := library.NewService(failingStore{library.NewMemoryStore()}, 10, nil)
	err := svc.Save(context.Background(), librarytest.Record("a"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, library.ErrNotFound)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestService_NeverExceedsCapacity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		capacity := rapid.IntRange(1, 8).Draw(rt, "capacity")
		svc := library.NewService(library.NewMemoryStore(), capacity, nil)
		ops := rapid.SliceOfN(rapid.IntRange(0, 12), 1, 40).Draw(rt, "ids")
		for _, id := range ops {
			err := svc.Save(ctx, librarytest.Record(fmt.Sprint(id)))
			if err != nil {
				assert.ErrorIs(rt, err, library.ErrFull)
			}
			n, err := svc.Count(ctx)
			require.NoError(rt, err)
			assert.LessOrEqual(rt, n, capacity)
		}
		recs, err := svc.List(ctx)
		require.NoError(rt, err)
		seen := map[string]bool{}
		for _, r := range recs {
			assert.False(rt, seen[r.ID])
			seen[r.ID] = true
		}
	})
}

func TestService_ConcurrentSavesRespectCapacity(t *testing.T) {
	ctx := context.Background()
	svc := library.NewService(library.NewMemoryStore(), 5, zaptest.NewLogger(t))

	var g errgroup.Group
	for i := range 40 {
		g.Go(func() error {
			err := svc.Save(ctx, librarytest.Record(fmt.Sprintf("npc-%d", i)))
			if errors.Is(err, library.ErrFull) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, g.Wait())

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
