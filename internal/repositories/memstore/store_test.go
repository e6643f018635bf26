package memstore

import (
	"testing"

	"hyperlocal_backend/internal/repositories"
	"hyperlocal_backend/internal/repositories/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) repositories.Store {
		return New()
	})
}

// Счетчики id принадлежат экземпляру, а не пакету.
func TestStoreIDsAreIndependent(t *testing.T) {
	a, b := New(), New()
	for _, s := range []*Store{a, b} {
		s.db.ids.users++
	}
	if a.db.ids.users != 1 || b.db.ids.users != 1 {
		t.Fatalf("expected independent id arenas, got %d and %d", a.db.ids.users, b.db.ids.users)
	}
}
