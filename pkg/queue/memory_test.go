package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryQueue(t *testing.T) {
	q := NewInMemoryQueue[int](3)

	_, ok := q.Dequeue()
	assert.False(t, ok, "empty queue")

	for i := 1; i <= 3; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	assert.Error(t, q.Enqueue(4), "full queue does not block")
	assert.Equal(t, 3, q.Size())

	item, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, 1, item)

	assert.Equal(t, []int{2, 3}, q.ReadAll())
	assert.Equal(t, 0, q.Size())

	require.NoError(t, q.Enqueue(5))
	q.Clear()
	assert.Nil(t, q.ReadAll())
}

func TestNewInMemoryQueue_defaultSize(t *testing.T) {
	q := NewInMemoryQueue[string](0)
	assert.Equal(t, DefaultBufferSize, cap(q.ch))
}
