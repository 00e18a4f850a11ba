package noop

import (
	"context"
	"testing"

	"go-abi-cache/internal/interfaces"
)

func TestNewNoOpStore(t *testing.T) {
	var store interfaces.Store = NewNoOpStore()

	if store == nil {
		t.Errorf("NewNoOpStore() should return a non-nil store")
	}
}

func TestNoOpStore_Load(t *testing.T) {
	store := NewNoOpStore()

	testCases := []string{
		"test-key",
		"",
		"17241709254077376921.json",
	}

	for _, key := range testCases {
		t.Run("key="+key, func(t *testing.T) {
			data, err := store.Load(context.Background(), key)

			if data != nil {
				t.Errorf("Load(%q) data = %v, want nil", key, data)
			}
			if err != interfaces.ErrCacheMiss {
				t.Errorf("Load(%q) err = %v, want ErrCacheMiss", key, err)
			}
		})
	}
}

func TestNoOpStore_SaveThenLoad(t *testing.T) {
	store := NewNoOpStore()
	ctx := context.Background()

	if err := store.Save(ctx, "key.json", []byte("[]")); err != nil {
		t.Errorf("Save() err = %v, want nil", err)
	}

	if _, err := store.Load(ctx, "key.json"); err != interfaces.ErrCacheMiss {
		t.Errorf("Load() after Save() err = %v, want ErrCacheMiss", err)
	}
}
