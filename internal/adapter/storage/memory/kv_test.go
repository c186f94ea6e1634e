package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"daycheck/internal/adapter/storage/memory"
)

var ctx = context.Background()

func TestSetAndGet(t *testing.T) {
	kv := memory.NewKVStore()
	defer kv.Close()

	assert.NoError(t, kv.Set(ctx, "daycheck:tasks", []byte(`[]`)))

	value, err := kv.Get(ctx, "daycheck:tasks")

	assert.NoError(t, err)
	assert.Equal(t, []byte(`[]`), value)
}

func TestGet_MissingKey(t *testing.T) {
	kv := memory.NewKVStore()
	defer kv.Close()

	value, err := kv.Get(ctx, "daycheck:nope")

	assert.NoError(t, err)
	assert.Nil(t, value)
}

func TestSet_Overwrites(t *testing.T) {
	kv := memory.NewKVStore()
	defer kv.Close()

	kv.Set(ctx, "k", []byte("old"))
	kv.Set(ctx, "k", []byte("new"))

	value, err := kv.Get(ctx, "k")

	assert.NoError(t, err)
	assert.Equal(t, []byte("new"), value)
}

func TestSet_CopiesValue(t *testing.T) {
	kv := memory.NewKVStore()
	defer kv.Close()

	buf := []byte("original")
	kv.Set(ctx, "k", buf)

	buf[0] = 'X'

	value, _ := kv.Get(ctx, "k")
	assert.Equal(t, []byte("original"), value)
}

func TestDelete(t *testing.T) {
	kv := memory.NewKVStore()
	defer kv.Close()

	kv.Set(ctx, "k", []byte("v"))
	assert.NoError(t, kv.Delete(ctx, "k"))

	value, err := kv.Get(ctx, "k")

	assert.NoError(t, err)
	assert.Nil(t, value)
}

func TestDelete_MissingKeyIsNoOp(t *testing.T) {
	kv := memory.NewKVStore()
	defer kv.Close()

	assert.NoError(t, kv.Delete(ctx, "never-set"))
}
