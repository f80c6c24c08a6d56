package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/inkstream/recokit/core"
)

func TestFileStore(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	t.Run("set get round trip", func(t *testing.T) {
		if err := fs.Set(ctx, "recokit:snapshot:meta", []byte(`{"a":1}`)); err != nil {
			t.Fatal(err)
		}
		got, err := fs.Get(ctx, "recokit:snapshot:meta")
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, []byte(`{"a":1}`)) {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("overwrite replaces atomically", func(t *testing.T) {
		if err := fs.Set(ctx, "k", []byte("v1")); err != nil {
			t.Fatal(err)
		}
		if err := fs.Set(ctx, "k", []byte("v2")); err != nil {
			t.Fatal(err)
		}
		got, err := fs.Get(ctx, "k")
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "v2" {
			t.Fatalf("got %q, want v2", got)
		}
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := fs.Get(ctx, "absent")
		if !core.IsStoreNotFound(err) {
			t.Fatalf("err = %v, want store not found", err)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		if err := fs.Set(ctx, "gone", []byte("x")); err != nil {
			t.Fatal(err)
		}
		if err := fs.Delete(ctx, "gone"); err != nil {
			t.Fatal(err)
		}
		if err := fs.Delete(ctx, "gone"); err != nil {
			t.Fatal(err)
		}
		if _, err := fs.Get(ctx, "gone"); !core.IsStoreNotFound(err) {
			t.Fatalf("err = %v, want store not found", err)
		}
	})
}

func TestMemoryStoreZSet(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	m.ZAdd(ctx, "hot", 3, "a")
	m.ZAdd(ctx, "hot", 5, "b")
	m.ZAdd(ctx, "hot", 3, "c")

	members, err := m.ZRange(ctx, "hot", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	// 分数降序，同分按成员字典序
	want := []string{"b", "a", "c"}
	for i := range want {
		if members[i] != want[i] {
			t.Fatalf("members = %v, want %v", members, want)
		}
	}

	score, err := m.ZScore(ctx, "hot", "b")
	if err != nil || score != 5 {
		t.Fatalf("ZScore = %v, %v", score, err)
	}
	if _, err := m.ZScore(ctx, "hot", "zz"); !core.IsStoreNotFound(err) {
		t.Fatalf("err = %v, want store not found", err)
	}
}
