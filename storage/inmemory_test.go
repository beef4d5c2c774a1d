package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/tinygit/tinygit/protocol"
	"github.com/tinygit/tinygit/protocol/hash"
	"github.com/tinygit/tinygit/protocol/object"
	"github.com/tinygit/tinygit/storage"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStorage(t *testing.T) {
	t.Run("NewInMemoryStorage", func(t *testing.T) {
		s := storage.NewInMemoryStorage(context.Background())
		require.NotNil(t, s)
		require.Equal(t, 0, s.Len())
	})

	t.Run("Add and Get", func(t *testing.T) {
		s := storage.NewInMemoryStorage(context.Background())
		obj := &protocol.PackfileObject{
			Hash: hash.MustFromHex("0123456789abcdef"),
			Type: object.TypeBlob,
		}

		s.Add(obj)
		got, ok := s.Get(obj.Hash)
		require.True(t, ok)
		require.Equal(t, obj, got)
		require.Equal(t, 1, s.Len())
	})

	t.Run("Get non-existent", func(t *testing.T) {
		s := storage.NewInMemoryStorage(context.Background())
		h := hash.MustFromHex("0123456789abcdef")
		got, ok := s.Get(h)
		require.False(t, ok)
		require.Nil(t, got)
	})

	t.Run("GetAllKeys", func(t *testing.T) {
		s := storage.NewInMemoryStorage(context.Background())
		obj1 := &protocol.PackfileObject{
			Hash: hash.MustFromHex("0123456789abcdef"),
			Type: object.TypeBlob,
		}
		obj2 := &protocol.PackfileObject{
			Hash: hash.MustFromHex("fedcba9876543210"),
			Type: object.TypeTree,
		}

		s.Add(obj1, obj2)
		keys := s.GetAllKeys()
		require.Len(t, keys, 2)
		require.Equal(t, 2, s.Len())
		require.Contains(t, keys, obj1.Hash)
		require.Contains(t, keys, obj2.Hash)
	})

	t.Run("Delete", func(t *testing.T) {
		s := storage.NewInMemoryStorage(context.Background())
		obj := &protocol.PackfileObject{
			Hash: hash.MustFromHex("0123456789abcdef"),
			Type: object.TypeBlob,
		}

		s.Add(obj)
		s.Delete(obj.Hash)
		got, ok := s.Get(obj.Hash)
		require.False(t, ok)
		require.Nil(t, got)
		require.Equal(t, 0, s.Len())
	})

	t.Run("Add multiple objects", func(t *testing.T) {
		s := storage.NewInMemoryStorage(context.Background())
		obj1 := &protocol.PackfileObject{
			Hash: hash.MustFromHex("0123456789abcdef"),
			Type: object.TypeBlob,
		}
		obj2 := &protocol.PackfileObject{
			Hash: hash.MustFromHex("fedcba9876543210"),
			Type: object.TypeTree,
		}

		s.Add(obj1, obj2)
		require.Equal(t, 2, s.Len())

		got1, ok1 := s.Get(obj1.Hash)
		require.True(t, ok1)
		require.Equal(t, obj1, got1)

		got2, ok2 := s.Get(obj2.Hash)
		require.True(t, ok2)
		require.Equal(t, obj2, got2)
	})

	t.Run("TTL", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		s := storage.NewInMemoryStorage(ctx, storage.WithTTL(100*time.Millisecond))

		obj1 := &protocol.PackfileObject{
			Hash: hash.MustFromHex("0123456789abcdef"),
			Type: object.TypeBlob,
		}
		obj2 := &protocol.PackfileObject{
			Hash: hash.MustFromHex("fedcba9876543210"),
			Type: object.TypeTree,
		}

		s.Add(obj1, obj2)
		require.Equal(t, 2, s.Len())

		// Access obj1 partway through its TTL to refresh its expiry.
		time.Sleep(50 * time.Millisecond)
		got1, ok1 := s.Get(obj1.Hash)
		require.True(t, ok1)
		require.Equal(t, obj1, got1)

		// obj2's original TTL has now elapsed; obj1's refreshed one hasn't.
		time.Sleep(70 * time.Millisecond)

		got1, ok1 = s.Get(obj1.Hash)
		require.True(t, ok1)
		require.Equal(t, obj1, got1)

		got2, ok2 := s.Get(obj2.Hash)
		require.False(t, ok2)
		require.Nil(t, got2)

		require.Equal(t, 1, s.Len())
	})
}
