package internal

import (
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	assert := assert.New(t)

	var q Queue[int]
	assert.True(q.Empty())

	_, ok := q.Pop()
	assert.False(ok)

	q.Push(1)
	q.Push(2)
	q.Push(3)
	assert.Equal(3, q.Len())

	value, ok := q.Peek()
	assert.True(ok)
	assert.Equal(1, value)

	value, ok = q.Pop()
	assert.True(ok)
	assert.Equal(1, value)
	assert.Equal(2, q.Len())
}

func TestQueue_Take(t *testing.T) {
	assert := assert.New(t)

	var q Queue[string]
	q.Push("a")
	q.Push("b")

	items := q.Take()
	assert.Equal([]string{"a", "b"}, items)
	assert.True(q.Empty())

	q.Push("c")
	assert.Equal([]string{"a", "b"}, items)
	assert.Equal(1, q.Len())

	q.Reset()
	assert.True(q.Empty())
}

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := SortedDefines(map[string]int{"B": 2, "A": 1})
	b := SortedDefines(map[string]int{"C": 3})

	var keys []string
	for key := range IterSeq2Concat(a, b) {
		keys = append(keys, key)
	}
	assert.Equal([]string{"A", "B", "C"}, keys)

	all := maps.Collect(IterSeq2Concat(a, b))
	assert.Equal(map[string]int{"A": 1, "B": 2, "C": 3}, all)

	var stopped []string
	for key := range IterSeq2Concat(a, b) {
		stopped = append(stopped, key)
		if key == "B" {
			break
		}
	}
	assert.Equal([]string{"A", "B"}, stopped)
}
