package ranking_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

// failingStore wraps a store and fails rank writes.
type failingStore struct {
	*repository.MemoryStore
}

func (f *failingStore) UpdateRank(ctx context.Context, id string, rank int) error {
	return repository.ErrUnavailable
}

func TestEngine_Recompute(t *testing.T) {
	Convey("Given participants with distinct point totals", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		engine := ranking.NewEngine(store)

		a, _ := store.Insert(ctx, "Alice")
		b, _ := store.Insert(ctx, "Bob")
		c, _ := store.Insert(ctx, "Cara")
		So(store.UpdatePoints(ctx, a.ID, 30), ShouldBeNil)
		So(store.UpdatePoints(ctx, b.ID, 90), ShouldBeNil)
		So(store.UpdatePoints(ctx, c.ID, 60), ShouldBeNil)

		Convey("When recomputing", func() {
			snapshot, err := engine.Recompute(ctx)

			Convey("Then ranks should follow points descending", func() {
				So(err, ShouldBeNil)
				So(len(snapshot), ShouldEqual, 3)
				So(snapshot[0].Name, ShouldEqual, "Bob")
				So(snapshot[1].Name, ShouldEqual, "Cara")
				So(snapshot[2].Name, ShouldEqual, "Alice")
			})

			Convey("Then ranks should be a dense 1..N permutation", func() {
				So(err, ShouldBeNil)
				seen := make(map[int]bool)
				for _, entry := range snapshot {
					seen[entry.Rank] = true
				}
				for rank := 1; rank <= len(snapshot); rank++ {
					So(seen[rank], ShouldBeTrue)
				}
			})

			Convey("Then ranks should be persisted to the store", func() {
				So(err, ShouldBeNil)
				got, err := store.Get(ctx, b.ID)
				So(err, ShouldBeNil)
				So(got.Rank, ShouldEqual, 1)
			})
		})
	})

	Convey("Given two participants tied on points", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		engine := ranking.NewEngine(store)

		alice, _ := store.Insert(ctx, "Alice") // registered first
		bob, _ := store.Insert(ctx, "Bob")
		So(store.UpdatePoints(ctx, alice.ID, 50), ShouldBeNil)
		So(store.UpdatePoints(ctx, bob.ID, 50), ShouldBeNil)

		Convey("When recomputing repeatedly", func() {
			Convey("Then the earlier registration wins the tie every time", func() {
				for i := 0; i < 5; i++ {
					snapshot, err := engine.Recompute(ctx)
					So(err, ShouldBeNil)
					So(snapshot[0].Name, ShouldEqual, "Alice")
					So(snapshot[0].Rank, ShouldEqual, 1)
					So(snapshot[1].Name, ShouldEqual, "Bob")
					So(snapshot[1].Rank, ShouldEqual, 2)
				}
			})
		})

		Convey("When Bob overtakes Alice", func() {
			So(store.UpdatePoints(ctx, bob.ID, 60), ShouldBeNil)
			snapshot, err := engine.Recompute(ctx)

			Convey("Then the ordering should flip", func() {
				So(err, ShouldBeNil)
				So(snapshot[0].Name, ShouldEqual, "Bob")
				So(snapshot[0].Points, ShouldEqual, 60)
				So(snapshot[1].Name, ShouldEqual, "Alice")
				So(snapshot[1].Rank, ShouldEqual, 2)
			})
		})
	})

	Convey("Given an empty store", t, func() {
		ctx := context.Background()
		engine := ranking.NewEngine(repository.NewMemoryStore())

		Convey("When recomputing", func() {
			snapshot, err := engine.Recompute(ctx)

			Convey("Then the snapshot should be empty without error", func() {
				So(err, ShouldBeNil)
				So(len(snapshot), ShouldEqual, 0)
			})
		})
	})

	Convey("Given a store whose rank writes fail", t, func() {
		ctx := context.Background()
		mem := repository.NewMemoryStore()
		_, _ = mem.Insert(ctx, "Alice")
		engine := ranking.NewEngine(&failingStore{MemoryStore: mem})

		Convey("When recomputing", func() {
			snapshot, err := engine.Recompute(ctx)

			Convey("Then the store error should bubble unchanged", func() {
				So(snapshot, ShouldBeNil)
				So(errors.Is(err, repository.ErrUnavailable), ShouldBeTrue)
			})
		})
	})
}

// Keeps the deterministic tie-break honest across many equal totals.
func TestEngine_Recompute_ManyTies(t *testing.T) {
	Convey("Given ten participants all tied at zero", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore()
		engine := ranking.NewEngine(store)

		var ids []string
		for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
			p, err := store.Insert(ctx, name)
			So(err, ShouldBeNil)
			ids = append(ids, p.ID)
		}

		Convey("When recomputing", func() {
			snapshot, err := engine.Recompute(ctx)

			Convey("Then ranks should follow registration order exactly", func() {
				So(err, ShouldBeNil)
				So(len(snapshot), ShouldEqual, len(ids))
				for i, entry := range snapshot {
					So(entry.ID, ShouldEqual, ids[i])
					So(entry.Rank, ShouldEqual, i+1)
				}
			})
		})
	})
}

var _ ranking.Store = (*repository.MemoryStore)(nil)
