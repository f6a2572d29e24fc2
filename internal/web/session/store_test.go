package session

import (
	"testing"
	"time"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	sess, err := store.Create("user-1", "Alice", "developer")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("session id should be set")
	}

	got, ok := store.Get(sess.ID)
	if !ok {
		t.Fatal("session should be found")
	}
	if got.UserID != "user-1" || got.Name != "Alice" || got.Role != "developer" {
		t.Errorf("session = %+v, want identity preserved", got)
	}
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	sess, err := store.Create("user-1", "Alice", "developer")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	store.Delete(sess.ID)

	if _, ok := store.Get(sess.ID); ok {
		t.Error("deleted session should not be found")
	}
}

func TestStore_Expiry(t *testing.T) {
	store := NewStore(-time.Second)
	defer store.Close()

	sess, err := store.Create("user-1", "Alice", "developer")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if _, ok := store.Get(sess.ID); ok {
		t.Error("expired session should not be found")
	}
}

func TestStore_UnknownID(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	if _, ok := store.Get("nope"); ok {
		t.Error("unknown session id should not be found")
	}
}

func TestStore_UniqueIDs(t *testing.T) {
	store := NewStore(time.Hour)
	defer store.Close()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		sess, err := store.Create("user-1", "Alice", "developer")
		if err != nil {
			t.Fatalf("create session: %v", err)
		}
		if seen[sess.ID] {
			t.Fatalf("duplicate session id %s", sess.ID)
		}
		seen[sess.ID] = true
	}
}
