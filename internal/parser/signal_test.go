package parser

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalParser(t *testing.T) {
	t.Run("SingleLine", func(t *testing.T) {
		res, err := NewSignalParser(Options{}).ParseLines(context.Background(), []string{"[2023-01-02 09:00] Alice: hi"})
		require.NoError(t, err)

		want := NewCollection(Record{time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC), "Alice", "hi"})
		assert.True(t, want.Equal(res.Records))
		assert.Nil(t, res.Format)
	})

	t.Run("Export", func(t *testing.T) {
		export := `[2023-01-02 09:00] Alice: hi
[2023-01-02, 09:05] Bob: see you at 10:00
at the station
[2023-01-02 09:06] Alice joined the group
`
		res, err := NewSignalParser(Options{}).Parse(context.Background(), strings.NewReader(export))
		require.NoError(t, err)

		want := NewCollection(
			Record{time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC), "Alice", "hi"},
			Record{time.Date(2023, 1, 2, 9, 5, 0, 0, time.UTC), "Bob", "see you at 10:00 at the station"},
			Record{time.Date(2023, 1, 2, 9, 6, 0, 0, time.UTC), SystemAuthor, "Alice joined the group"},
		)
		assert.True(t, want.Equal(res.Records), "got %+v", res.Records.Records())
		assert.Empty(t, res.Diagnostics)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := NewSignalParser(Options{}).Parse(context.Background(), strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
}
