package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizkit/internal/archive"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
		_ = os.Remove(path)
		_ = os.Remove(path + "-journal")
	})
	return store
}

func savedAt(url string, ts time.Time, content string) archive.SavedQuiz {
	return archive.SavedQuiz{
		Content: content,
		Metadata: archive.Metadata{
			Difficulty: "medium",
			Count:      3,
			Timestamp:  ts,
			PageURL:    url,
			PageTitle:  "Title of " + url,
		},
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ts := time.Unix(1700000000, 123).UTC()
	want := savedAt("https://blog.test/a", ts, `{{< quiz id="q1" >}}{{< /quiz >}}`)
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, "https://blog.test/a")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Content != want.Content {
		t.Fatalf("content = %q, want %q", got.Content, want.Content)
	}
	if got.Metadata.Difficulty != "medium" || got.Metadata.Count != 3 || got.Metadata.PageTitle != want.Metadata.PageTitle {
		t.Fatalf("unexpected metadata: %+v", got.Metadata)
	}
	if !got.Metadata.Timestamp.Equal(ts) {
		t.Fatalf("timestamp = %v, want %v", got.Metadata.Timestamp, ts)
	}
}

func TestStoreSaveReplacesPage(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ts := time.Unix(1700000000, 0).UTC()
	if err := store.Save(ctx, savedAt("https://blog.test/a", ts, "first")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(ctx, savedAt("https://blog.test/a", ts.Add(time.Minute), "second")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx, "https://blog.test/a")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Content != "second" {
		t.Fatalf("content = %q, want second", got.Content)
	}

	pages, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load(context.Background(), "https://blog.test/none")
	if !errors.Is(err, archive.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestStoreSaveRequiresPageURL(t *testing.T) {
	store := newTestStore(t)
	err := store.Save(context.Background(), archive.SavedQuiz{Content: "x"})
	if !errors.Is(err, archive.ErrInvalidPageURL) {
		t.Fatalf("err = %v, want ErrInvalidPageURL", err)
	}
}

func TestStoreListRecentOrdersNewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Unix(1700000000, 0).UTC()
	urls := []string{"https://blog.test/old", "https://blog.test/mid", "https://blog.test/new"}
	for idx, url := range urls {
		if err := store.Save(ctx, savedAt(url, base.Add(time.Duration(idx)*time.Hour), "c")); err != nil {
			t.Fatalf("Save %s failed: %v", url, err)
		}
	}

	pages, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	if pages[0].PageURL != "https://blog.test/new" || pages[1].PageURL != "https://blog.test/mid" {
		t.Fatalf("unexpected order: %+v", pages)
	}
	if !pages[0].SavedAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("saved at = %v", pages[0].SavedAt)
	}
	if pages[0].PageTitle != "Title of https://blog.test/new" {
		t.Fatalf("title = %q", pages[0].PageTitle)
	}
}

func TestStorePing(t *testing.T) {
	store := newTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestStorePingAfterClose(t *testing.T) {
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	_ = store.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Fatalf("expected Ping to fail on a closed store")
	}
}

func TestStoreReopenKeepsDataAndVersion(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reopen.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	want := savedAt("https://blog.test/kept", time.Unix(1700000000, 0).UTC(), "kept")
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	_ = store.Close()

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	version, err := reopened.schemaVersion(ctx)
	if err != nil || version != currentSchemaVersion {
		t.Fatalf("schema version = (%d, %v), want %d", version, err, currentSchemaVersion)
	}
	got, err := reopened.Load(ctx, "https://blog.test/kept")
	if err != nil || got.Content != "kept" {
		t.Fatalf("Load = (%+v, %v)", got, err)
	}
}

func TestStoreRejectsNewerSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "future.db")

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.db.ExecContext(ctx, `PRAGMA user_version = 99;`); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	if err := store.Ping(ctx); err == nil {
		t.Fatalf("expected Ping to report the schema mismatch")
	}
	_ = store.Close()

	if _, err := Open(ctx, path); err == nil {
		t.Fatalf("expected Open to reject a newer schema")
	}
}
