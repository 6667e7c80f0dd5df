package blob

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/mkravets/filehub/internal/common"
)

func TestLocalStore_WriteReadExists(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore error: %v", err)
	}
	ctx := context.Background()

	data := []byte("payload")
	if err := store.Write(ctx, "key1", data); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	got, err := store.Read(ctx, "key1")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("unexpected content: %q", got)
	}

	ok, err := store.Exists(ctx, "key1")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true", ok, err)
	}

	ok, err = store.Exists(ctx, "absent")
	if err != nil || ok {
		t.Fatalf("Exists = %v, %v; want false", ok, err)
	}
}

func TestLocalStore_ReadAbsent(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore error: %v", err)
	}

	_, err = store.Read(context.Background(), "absent")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestLocalStore_OverwriteIsSafe(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore error: %v", err)
	}
	ctx := context.Background()

	if err := store.Write(ctx, "key", []byte("one")); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if err := store.Write(ctx, "key", []byte("two")); err != nil {
		t.Fatalf("second Write error: %v", err)
	}

	got, err := store.Read(ctx, "key")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if string(got) != "two" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestLocalStore_RejectsPathSeparators(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore error: %v", err)
	}

	if err := store.Write(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatalf("expected error for key with path separator")
	}
}
