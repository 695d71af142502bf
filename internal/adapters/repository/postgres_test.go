package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/podium/internal/adapters/repository"
	. "github.com/smartystreets/goconvey/convey"
)

// Requires a reachable database; set PODIUM_TEST_POSTGRES_DSN to enable.
func TestPostgresStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("PODIUM_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PODIUM_TEST_POSTGRES_DSN not set")
	}

	Convey("Given a postgres store", t, func() {
		ctx := context.Background()
		store, err := repository.NewPostgresStore(ctx, dsn)
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("When inserting and reading back a participant", func() {
			p, err := store.Insert(ctx, "pg-roundtrip")
			So(err, ShouldBeNil)

			got, err := store.Get(ctx, p.ID)
			So(err, ShouldBeNil)
			So(got.Name, ShouldEqual, "pg-roundtrip")

			Convey("Then duplicate names are rejected", func() {
				_, err := store.Insert(ctx, "pg-roundtrip")
				So(err, ShouldEqual, repository.ErrDuplicateName)
			})

			Convey("And point updates persist", func() {
				So(store.UpdatePoints(ctx, p.ID, 25), ShouldBeNil)
				got, err := store.Get(ctx, p.ID)
				So(err, ShouldBeNil)
				So(got.Points, ShouldEqual, 25)
			})
		})
	})
}
