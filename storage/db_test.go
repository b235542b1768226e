package storage

import (
	"errors"
	"testing"
)

func TestMemDBRoundTrip(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	if _, err := db.Get([]byte("missing")); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	value, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(value) != "v" {
		t.Fatalf("unexpected value: %q", value)
	}
	if err := db.Delete([]byte("k")); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := db.Get([]byte("k")); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound after delete, got %v", err)
	}
}

func TestMemDBCopiesValues(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	original := []byte("value")
	if err := db.Put([]byte("k"), original); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	original[0] = 'x'
	stored, err := db.Get([]byte("k"))
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if string(stored) != "value" {
		t.Fatalf("stored value aliased caller buffer: %q", stored)
	}
}
