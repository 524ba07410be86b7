//go:build integration
// +build integration

package test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/permbit/permbit/permission"
	"github.com/permbit/permbit/store"
)

func TestStoreConsistencyDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	grants, _, cleanup := newIntegrationStore(t)
	defer cleanup()

	if err := grants.Save(ctx, "0", "sub-delete", makeRecord(1, 1)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := grants.Delete(ctx, "0", "sub-delete"); err != nil {
		t.Fatalf("first Delete failed: %v", err)
	}
	if err := grants.Delete(ctx, "0", "sub-delete"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	if _, err := grants.Load(ctx, "0", "sub-delete"); !errors.Is(err, store.ErrSubjectNotFound) {
		t.Fatalf("expected ErrSubjectNotFound after delete, got %v", err)
	}
}

func TestStoreConsistencyConcurrentGrantsAllLand(t *testing.T) {
	ctx := context.Background()
	grants, _, cleanup := newIntegrationStore(t)
	defer cleanup()

	const workers = 8

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(bit uint) {
			defer wg.Done()
			p := permission.Permission(1) << bit
			for {
				_, err := grants.Update(ctx, "0", "sub-race", func(set permission.Set) permission.Set {
					return set.Grant(p)
				})
				if !errors.Is(err, store.ErrConflict) {
					return
				}
			}
		}(uint(i))
	}
	wg.Wait()

	record, err := grants.Load(ctx, "0", "sub-race")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for i := uint(0); i < workers; i++ {
		if !record.Set.Has(permission.Permission(1) << i) {
			t.Fatalf("bit %d lost under concurrent updates", i)
		}
	}
	if record.Version < workers {
		t.Fatalf("expected version >= %d, got %d", workers, record.Version)
	}
}
