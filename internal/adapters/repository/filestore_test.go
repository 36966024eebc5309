package repository_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sekka-transit/sekka/internal/adapters/repository"
	"github.com/sekka-transit/sekka/internal/domain/types"
)

func sampleArtifact() (repository.Artifact, types.Metadata) {
	art := repository.Artifact{
		Engine: "ridge",
		Model:  json.RawMessage(`{"fitted":true}`),
	}
	meta := types.Metadata{
		RouteID:    "7",
		LastDS:     time.Date(2024, time.March, 1, 23, 0, 0, 0, time.UTC),
		Regressors: types.RegressorNames(),
	}
	return art, meta
}

func TestFileStore(t *testing.T) {
	Convey("Given a file store in a fresh directory", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		store := repository.NewFileStore(dir)

		Convey("Loading an untrained route signals not found", func() {
			_, _, err := store.Load(ctx, "7")
			So(err, ShouldWrap, repository.ErrNotFound)
		})

		Convey("When an artifact pair is saved", func() {
			art, meta := sampleArtifact()
			So(store.Save(ctx, "7", art, meta), ShouldBeNil)

			Convey("The deterministic file names exist", func() {
				_, err := os.Stat(filepath.Join(dir, "model_route_7"))
				So(err, ShouldBeNil)
				_, err = os.Stat(filepath.Join(dir, "metadata_route_7"))
				So(err, ShouldBeNil)
			})

			Convey("Load round-trips both artifacts", func() {
				gotArt, gotMeta, err := store.Load(ctx, "7")
				So(err, ShouldBeNil)
				So(gotArt.Engine, ShouldEqual, "ridge")
				So(string(gotArt.Model), ShouldEqual, `{"fitted":true}`)
				So(gotMeta.RouteID, ShouldEqual, "7")
				So(gotMeta.LastDS.Equal(meta.LastDS), ShouldBeTrue)
				So(gotMeta.Regressors, ShouldResemble, types.RegressorNames())
			})

			Convey("A missing metadata file also signals not found", func() {
				So(os.Remove(filepath.Join(dir, "metadata_route_7")), ShouldBeNil)
				_, _, err := store.Load(ctx, "7")
				So(err, ShouldWrap, repository.ErrNotFound)
			})

			Convey("ListRoutes scans the model files without an index", func() {
				So(store.Save(ctx, "12", art, meta), ShouldBeNil)
				ids, err := store.ListRoutes(ctx)
				So(err, ShouldBeNil)
				So(ids, ShouldResemble, []string{"12", "7"})
			})

			Convey("Retraining overwrites the pair", func() {
				art2 := repository.Artifact{Engine: "baseline", Model: json.RawMessage(`{}`)}
				So(store.Save(ctx, "7", art2, meta), ShouldBeNil)
				gotArt, _, err := store.Load(ctx, "7")
				So(err, ShouldBeNil)
				So(gotArt.Engine, ShouldEqual, "baseline")
			})
		})

		Convey("Route ids with path separators are rejected", func() {
			art, meta := sampleArtifact()
			So(store.Save(ctx, "../evil", art, meta), ShouldWrap, repository.ErrInvalidRouteID)
			_, _, err := store.Load(ctx, "a/b")
			So(err, ShouldWrap, repository.ErrInvalidRouteID)
		})

		Convey("Listing a directory that does not exist yet yields no routes", func() {
			empty := repository.NewFileStore(filepath.Join(dir, "missing"))
			ids, err := empty.ListRoutes(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldBeEmpty)
		})
	})
}

func TestCachedStore(t *testing.T) {
	Convey("Given a cached store over a file store", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		inner := repository.NewFileStore(dir)
		cached := repository.NewCachedStore(inner, repository.WithCacheSize(2))

		art, meta := sampleArtifact()
		So(cached.Save(ctx, "7", art, meta), ShouldBeNil)

		Convey("A load after save reads through and then serves from cache", func() {
			_, _, err := cached.Load(ctx, "7")
			So(err, ShouldBeNil)

			// Remove the files; a cached entry still serves.
			So(os.Remove(filepath.Join(dir, "model_route_7")), ShouldBeNil)
			So(os.Remove(filepath.Join(dir, "metadata_route_7")), ShouldBeNil)
			_, gotMeta, err := cached.Load(ctx, "7")
			So(err, ShouldBeNil)
			So(gotMeta.RouteID, ShouldEqual, "7")
		})

		Convey("Save invalidates the cached route", func() {
			_, _, err := cached.Load(ctx, "7")
			So(err, ShouldBeNil)

			art2 := repository.Artifact{Engine: "baseline", Model: json.RawMessage(`{}`)}
			So(cached.Save(ctx, "7", art2, meta), ShouldBeNil)

			gotArt, _, err := cached.Load(ctx, "7")
			So(err, ShouldBeNil)
			So(gotArt.Engine, ShouldEqual, "baseline")
		})

		Convey("Misses on unknown routes pass the not-found through", func() {
			_, _, err := cached.Load(ctx, "99")
			So(err, ShouldWrap, repository.ErrNotFound)
		})
	})
}
