//go:build integration
// +build integration

package test

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/permbit/permbit/permission"
	"github.com/permbit/permbit/store"
	"github.com/redis/go-redis/v9"
)

func newIntegrationStore(t *testing.T) (*store.Store, *redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	grants := store.NewStore(rdb, "pb", 0, false, 0)

	return grants, rdb, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func makeRecord(bits uint64, version uint32) *store.Record {
	return &store.Record{
		Version: version,
		Set:     permission.FromBits(bits),
	}
}
