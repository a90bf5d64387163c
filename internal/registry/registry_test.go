package registry

import (
	"fmt"
	"testing"

	"github.com/ledgerbook/ledgerbook/pkg/types"
)

func TestListEmptyRegistry(t *testing.T) {
	r := New(t.TempDir())
	entries, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty registry, got %d entries", len(entries))
	}
}

func TestRegisterOrdersMostRecentFirst(t *testing.T) {
	r := New(t.TempDir())

	if err := r.Register("Personal", "personal.db"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("Biz", "biz.db"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	entries, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].FileID != "biz.db" || entries[1].FileID != "personal.db" {
		t.Errorf("order = %q, %q; want biz.db, personal.db", entries[0].FileID, entries[1].FileID)
	}
}

func TestRegisterReplacesAndMovesToFront(t *testing.T) {
	r := New(t.TempDir())

	r.Register("Personal", "personal.db")
	r.Register("Biz", "biz.db")
	if err := r.Register("Personal (renamed)", "personal.db"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	entries, _ := r.List()
	if len(entries) != 2 {
		t.Fatalf("re-registering must not duplicate, got %d entries", len(entries))
	}
	if entries[0].FileID != "personal.db" || entries[0].Name != "Personal (renamed)" {
		t.Errorf("front entry = %+v", entries[0])
	}
}

func TestRegistryCap(t *testing.T) {
	r := New(t.TempDir())

	for i := 0; i < types.RegistryLimit+3; i++ {
		if err := r.Register(fmt.Sprintf("DB %d", i), fmt.Sprintf("db%d.db", i)); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	entries, _ := r.List()
	if len(entries) != types.RegistryLimit {
		t.Fatalf("got %d entries, want cap %d", len(entries), types.RegistryLimit)
	}
	// The oldest entries fall off the tail.
	if entries[0].FileID != fmt.Sprintf("db%d.db", types.RegistryLimit+2) {
		t.Errorf("front = %q", entries[0].FileID)
	}
}

func TestTouchRegistersUnknownFile(t *testing.T) {
	r := New(t.TempDir())

	if err := r.Touch("personal.db"); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	entries, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].FileID != "personal.db" || entries[0].Name != "personal" {
		t.Errorf("entry = %+v; want personal.db named personal", entries[0])
	}
}

func TestTouchKeepsDisplayName(t *testing.T) {
	r := New(t.TempDir())

	r.Register("My Money", "personal.db")
	r.Register("Biz", "biz.db")
	if err := r.Touch("personal.db"); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	entries, _ := r.List()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].FileID != "personal.db" || entries[0].Name != "My Money" {
		t.Errorf("front entry = %+v; touch must keep the name and move to front", entries[0])
	}
}

func TestTouchIgnoresDefaultDatabase(t *testing.T) {
	r := New(t.TempDir())

	if err := r.Touch(types.DefaultDatabaseFile); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	entries, _ := r.List()
	if len(entries) != 0 {
		t.Errorf("default database must stay implicit, got %+v", entries)
	}
}

func TestRemove(t *testing.T) {
	r := New(t.TempDir())

	r.Register("Personal", "personal.db")
	r.Register("Biz", "biz.db")

	if err := r.Remove("personal.db"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	entries, _ := r.List()
	if len(entries) != 1 || entries[0].FileID != "biz.db" {
		t.Errorf("entries after remove = %+v", entries)
	}

	// Removing an absent entry succeeds.
	if err := r.Remove("ghost.db"); err != nil {
		t.Errorf("Remove absent = %v, want nil", err)
	}
}
