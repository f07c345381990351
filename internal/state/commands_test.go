package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTable_RegisterIsIdempotent(t *testing.T) {
	table := NewCommandTable()

	first, err := table.RegisterColor("red")
	require.NoError(t, err)
	second, err := table.RegisterColor("red")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, table.Len())
}

func TestCommandTable_SharedSequence(t *testing.T) {
	table := NewCommandTable()

	black, _ := table.RegisterColor("black")
	thin, _ := table.RegisterWidth(2)
	red, _ := table.RegisterColor("red")
	again, _ := table.RegisterWidth(2.0)

	assert.Equal(t, 0, black)
	assert.Equal(t, 1, thin)
	assert.Equal(t, 2, red)
	assert.Equal(t, thin, again)
	assert.Equal(t, []Command{
		{Kind: KindStrokeColor, Value: "black"},
		{Kind: KindStrokeWidth, Value: "2"},
		{Kind: KindStrokeColor, Value: "red"},
	}, table.Commands())
}

func TestCommandTable_Deterministic(t *testing.T) {
	calls := []struct {
		kind  Kind
		value string
	}{
		{KindStrokeColor, "black"},
		{KindStrokeWidth, "3"},
		{KindStrokeColor, "#ff0000"},
		{KindStrokeColor, "black"},
		{KindStrokeWidth, "0.5"},
		{KindStrokeWidth, "3"},
	}

	a, b := NewCommandTable(), NewCommandTable()
	for _, call := range calls {
		ia, err := a.Register(call.kind, call.value)
		require.NoError(t, err)
		ib, err := b.Register(call.kind, call.value)
		require.NoError(t, err)
		assert.Equal(t, ia, ib, "%s %s", call.kind, call.value)
	}
	assert.Equal(t, a.Commands(), b.Commands())
}

func TestCommandTable_WidthIsCanonicalised(t *testing.T) {
	table := NewCommandTable()

	i, err := table.Register(KindStrokeWidth, "2.50")
	require.NoError(t, err)
	j, err := table.RegisterWidth(2.5)
	require.NoError(t, err)

	assert.Equal(t, i, j)
	cmd, err := table.Get(i)
	require.NoError(t, err)
	assert.Equal(t, "2.5", cmd.Value)
	assert.Equal(t, 2.5, cmd.Width())
}

func TestCommandTable_RejectsBadValues(t *testing.T) {
	table := NewCommandTable()

	_, err := table.RegisterColor("")
	assert.ErrorIs(t, err, ErrUsage)
	_, err = table.RegisterColor("red;blue")
	assert.ErrorIs(t, err, ErrUsage)
	_, err = table.RegisterWidth(0)
	assert.ErrorIs(t, err, ErrUsage)
	_, err = table.RegisterWidth(-1)
	assert.ErrorIs(t, err, ErrUsage)
	_, err = table.Register(KindStrokeWidth, "wide")
	assert.ErrorIs(t, err, ErrUsage)
	_, err = table.Register(Kind("fill"), "red")
	assert.ErrorIs(t, err, ErrUsage)

	assert.Equal(t, 0, table.Len())
}

func TestCommandTable_GetOutOfRange(t *testing.T) {
	table := NewCommandTable()
	_, _ = table.RegisterColor("black")

	_, err := table.Get(1)
	assert.ErrorIs(t, err, ErrLookup)
	_, err = table.Get(-1)
	assert.ErrorIs(t, err, ErrLookup)
}

func TestCommandTable_Lookup(t *testing.T) {
	table := NewCommandTable()
	idx, _ := table.RegisterWidth(4)

	got, ok := table.Lookup(KindStrokeWidth, "4.0")
	assert.True(t, ok)
	assert.Equal(t, idx, got)

	_, ok = table.Lookup(KindStrokeColor, "4")
	assert.False(t, ok)
}
