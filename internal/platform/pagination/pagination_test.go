package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ClampsPerPage(t *testing.T) {
	p := New(1, 500)
	assert.Equal(t, MaxPerPage, p.PerPage)

	p = New(0, 0)
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
}

func TestParse_Defaults(t *testing.T) {
	p := Parse("", "")
	assert.Equal(t, Params{Page: 1, PerPage: 25}, p)

	p = Parse("abc", "-3")
	assert.Equal(t, Params{Page: 1, PerPage: 25}, p)

	p = Parse("3", "500")
	assert.Equal(t, Params{Page: 3, PerPage: 100}, p)
}

func TestNewMeta_TotalPagesIsCeil(t *testing.T) {
	m := NewMeta(New(1, 500), 250)
	assert.Equal(t, 100, m.PerPage)
	assert.Equal(t, 3, m.TotalPages)
	assert.Equal(t, 250, m.TotalCount)
	require.NotNil(t, m.NextPage)
	assert.Equal(t, 2, *m.NextPage)
	assert.Nil(t, m.PrevPage)
}

func TestNewMeta_LastAndEmpty(t *testing.T) {
	m := NewMeta(New(3, 10), 30)
	assert.Nil(t, m.NextPage)
	require.NotNil(t, m.PrevPage)
	assert.Equal(t, 2, *m.PrevPage)

	m = NewMeta(New(1, 10), 0)
	assert.Equal(t, 0, m.TotalPages)
	assert.Nil(t, m.NextPage)
	assert.Nil(t, m.PrevPage)
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{3, 4}, Slice(items, New(2, 2)))
	assert.Equal(t, []int{5}, Slice(items, New(3, 2)))
	assert.Empty(t, Slice(items, New(4, 2)))
}

func TestParse_HugePageDoesNotOverflow(t *testing.T) {
	p := Parse("9223372036854775807", "100")

	assert.Equal(t, MaxPage, p.Page)
	assert.GreaterOrEqual(t, p.Offset(), 0)

	require.NotPanics(t, func() {
		assert.Empty(t, Slice([]int{1, 2, 3}, p))
	})

	m := NewMeta(p, 3)
	assert.Nil(t, m.NextPage)
	require.NotNil(t, m.PrevPage)
}
