package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectAndClose(t *testing.T) {
	assert := assert.New(t)
	v := New(3)

	assert.Equal(Listing, v.Mode())
	assert.Equal(-1, v.Index())

	assert.True(v.Select(1))
	assert.Equal(Viewing, v.Mode())
	assert.Equal(1, v.Index())

	v.Close()
	assert.Equal(Listing, v.Mode())
	assert.Equal(-1, v.Index())

	assert.False(v.Select(3))
	assert.False(v.Select(-1))
	assert.Equal(Listing, v.Mode())
}

func TestNextPrevBounds(t *testing.T) {
	t.Run("Middle", func(t *testing.T) {
		assert := assert.New(t)
		v := New(3)
		v.Select(1)

		assert.True(v.HasNext())
		assert.True(v.HasPrev())
		assert.True(v.Next())
		assert.Equal(2, v.Index())
	})

	t.Run("Last entry cannot advance", func(t *testing.T) {
		assert := assert.New(t)
		v := New(3)
		v.Select(2)

		assert.False(v.HasNext())
		assert.False(v.Next())
		assert.Equal(2, v.Index())
		assert.Equal(Viewing, v.Mode())
	})

	t.Run("First entry cannot go back", func(t *testing.T) {
		assert := assert.New(t)
		v := New(3)
		v.Select(0)

		assert.False(v.HasPrev())
		assert.False(v.Prev())
		assert.Equal(0, v.Index())
	})

	t.Run("Listing has neither", func(t *testing.T) {
		v := New(3)
		assert.False(t, v.HasNext())
		assert.False(t, v.HasPrev())
		assert.False(t, v.Next())
	})

	t.Run("Index stays in range over any walk", func(t *testing.T) {
		v := New(4)
		v.Select(0)
		moves := []func() bool{v.Next, v.Next, v.Next, v.Next, v.Next, v.Prev, v.Next, v.Next}
		for _, move := range moves {
			move()
			assert.GreaterOrEqual(t, v.Index(), 0)
			assert.Less(t, v.Index(), v.Len())
		}
		assert.Equal(t, 3, v.Index())
	})
}

func TestReset(t *testing.T) {
	assert := assert.New(t)
	v := New(5)
	v.Select(4)

	v.Reset(2)
	assert.Equal(Listing, v.Mode())
	assert.Equal(2, v.Len())
}

func TestReconcile(t *testing.T) {
	t.Run("Keeps index that is still valid", func(t *testing.T) {
		v := New(5)
		v.Select(2)
		v.Reconcile(4)
		assert.Equal(t, 2, v.Index())
	})

	t.Run("Clamps to new end", func(t *testing.T) {
		v := New(5)
		v.Select(4)
		v.Reconcile(3)
		assert.Equal(t, Viewing, v.Mode())
		assert.Equal(t, 2, v.Index())
	})

	t.Run("Empty list closes", func(t *testing.T) {
		v := New(1)
		v.Select(0)
		v.Reconcile(0)
		assert.Equal(t, Listing, v.Mode())
	})

	t.Run("Listing only updates length", func(t *testing.T) {
		v := New(1)
		v.Reconcile(7)
		assert.Equal(t, Listing, v.Mode())
		assert.Equal(t, 7, v.Len())
	})
}
