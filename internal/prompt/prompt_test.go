package prompt

import (
	"bytes"
	"strings"
	"testing"

	"bytebank/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsk(t *testing.T) {
	out := new(bytes.Buffer)
	p := New(strings.NewReader("hello\r\nworld\n"), out)

	ans, err := p.Ask("First: ")
	require.NoError(t, err)
	assert.Equal(t, "hello", ans)

	ans, err = p.Ask("Second: ")
	require.NoError(t, err)
	assert.Equal(t, "world", ans)

	_, err = p.Ask("Third: ")
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Contains(t, out.String(), "First: Second: Third: ")
}

func TestUntil_RepromptsOnInvalid(t *testing.T) {
	out := new(bytes.Buffer)
	p := New(strings.NewReader("-5\nzero\n0\n7.25\n"), out)

	amount, err := Until(p, "Amount: ", validate.Amount)
	require.NoError(t, err)
	assert.Equal(t, 7.25, amount)
	assert.Equal(t, 3, strings.Count(out.String(), "Invalid:"), "one complaint per rejected answer")
	assert.Contains(t, out.String(), "positive")
}

func TestUntil_CancelledIsDistinctFromInvalid(t *testing.T) {
	p := New(strings.NewReader("Snacks\n"), new(bytes.Buffer))

	_, err := Until(p, "Category: ", validate.Category)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestConfirm(t *testing.T) {
	p := New(strings.NewReader("y\nno\nYES\n"), new(bytes.Buffer))

	for _, want := range []bool{true, false, true} {
		ok, err := p.Confirm("Delete?")
		require.NoError(t, err)
		assert.Equal(t, want, ok)
	}

	_, err := p.Confirm("Delete?")
	assert.ErrorIs(t, err, ErrCancelled)
}
