package v8heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringTable_AddAndGet(t *testing.T) {
	st := NewStringTable(0)
	i0 := st.Add("hello")
	i1 := st.Add("")
	i2 := st.Add("世界🎉")

	require.Equal(t, 0, i0)
	require.Equal(t, 1, i1)
	require.Equal(t, 2, i2)

	assert.Equal(t, "hello", st.Get(i0))
	assert.Equal(t, "", st.Get(i1))
	assert.Equal(t, "世界🎉", st.Get(i2))
	assert.Equal(t, 3, st.Len())
}

func TestStringTable_Equal(t *testing.T) {
	st := NewStringTable(0)
	a := st.Add("duplicate")
	b := st.Add("duplicate")
	c := st.Add("different")

	assert.True(t, st.Equal(a, b))
	assert.False(t, st.Equal(a, c))
}

func TestStringTable_OutOfRange(t *testing.T) {
	st := NewStringTable(0)
	st.Add("x")
	assert.Nil(t, st.Bytes(5))
	assert.Equal(t, "", st.Get(-1))
}
