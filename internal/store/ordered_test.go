package store

import (
	"math/rand"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id    string
	name  string
	value int
}

func (i item) Key() string         { return i.id }
func (i item) DisplayName() string { return i.name }

func ids(items []item) []string {
	result := make([]string, len(items))
	for i, it := range items {
		result[i] = it.id
	}
	return result
}

func TestOrderedInsertIsIdempotentOnKey(t *testing.T) {
	s := NewOrdered[item]()
	s.Insert(item{id: "b", value: 1})
	s.Insert(item{id: "a", value: 2})
	s.Insert(item{id: "b", value: 3})

	require.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, ids(s.Items()))

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, got.value, "insert should replace the existing item")
}

func TestOrderedClear(t *testing.T) {
	s := NewOrdered(item{id: "a"}, item{id: "b"})
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Items())

	s.Insert(item{id: "c"})
	assert.Equal(t, []string{"c"}, ids(s.Items()))
}

func TestOrderByNumericVersusLexical(t *testing.T) {
	s := NewOrdered(
		item{id: "1"}, item{id: "9"}, item{id: "99"}, item{id: "10"},
	)

	asInt := func(i item) int {
		n, _ := strconv.Atoi(i.id)
		return n
	}

	assert.Equal(t, []string{"1", "9", "10", "99"}, ids(OrderBy(s, asInt)))
	assert.Equal(t, []string{"99", "10", "9", "1"}, ids(OrderByDesc(s, asInt)))
	assert.Equal(t, []string{"1", "10", "9", "99"}, ids(s.Items()))
	assert.Equal(t, []string{"99", "9", "10", "1"}, ids(OrderByDesc(s, func(i item) string { return i.id })))
}

func TestOrderByTieBreaksOnPrimaryKey(t *testing.T) {
	s := NewOrdered(
		item{id: "c", value: 1},
		item{id: "a", value: 1},
		item{id: "b", value: 0},
	)

	value := func(i item) int { return i.value }
	assert.Equal(t, []string{"b", "a", "c"}, ids(OrderBy(s, value)))
	assert.Equal(t, []string{"c", "a", "b"}, ids(OrderByDesc(s, value)))
}

func TestOrderByIsSortedPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		s := NewOrdered[item]()
		n := rng.Intn(40)
		for i := 0; i < n; i++ {
			s.Insert(item{id: strconv.Itoa(rng.Intn(30)), value: rng.Intn(5)})
		}

		ordered := OrderBy(s, func(i item) int { return i.value })
		for i := 1; i < len(ordered); i++ {
			prev, cur := ordered[i-1], ordered[i]
			require.True(t, prev.value < cur.value || (prev.value == cur.value && prev.id < cur.id),
				"round %d: %v before %v", round, prev, cur)
		}

		got := ids(ordered)
		sort.Strings(got)
		assert.Equal(t, ids(s.Items()), got)
	}
}
