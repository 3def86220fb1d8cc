package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestList_EmptyAfterInit(t *testing.T) {
	var head entry
	listInit(&head)
	require.True(t, listEmpty(&head))
}

func TestList_AppendOrder(t *testing.T) {
	var head entry
	listInit(&head)

	a := &entry{key: []byte("a")}
	b := &entry{key: []byte("b")}
	c := &entry{key: []byte("c")}

	listAppend(&head, a)
	listAppend(&head, b)
	listAppend(&head, c)

	// head.next walks oldest -> newest: a, b, c.
	require.Equal(t, a, head.next)
	require.Equal(t, b, head.next.next)
	require.Equal(t, c, head.next.next.next)
	require.Equal(t, &head, head.next.next.next.next)

	// head.prev is the newest entry.
	require.Equal(t, c, head.prev)
}

func TestList_RemoveMiddle(t *testing.T) {
	var head entry
	listInit(&head)

	a := &entry{key: []byte("a")}
	b := &entry{key: []byte("b")}
	c := &entry{key: []byte("c")}
	listAppend(&head, a)
	listAppend(&head, b)
	listAppend(&head, c)

	listRemove(b)
	require.Nil(t, b.prev)
	require.Nil(t, b.next)

	require.Equal(t, a, head.next)
	require.Equal(t, c, head.next.next)
	require.Equal(t, &head, head.next.next.next)
}

func TestList_RemoveLastElementEmpties(t *testing.T) {
	var head entry
	listInit(&head)
	a := &entry{key: []byte("a")}
	listAppend(&head, a)
	require.False(t, listEmpty(&head))
	listRemove(a)
	require.True(t, listEmpty(&head))
}
