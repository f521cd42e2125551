package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2023, 1, 2, hour, minute, 0, 0, time.UTC)
}

func TestCollection(t *testing.T) {
	c := NewCollection()
	assert.Equal(t, 0, c.Len())

	c.Append(Record{at(9, 0), "Alice", "hi"})
	c.Append(Record{at(9, 5), "Bob", "hello"})
	assert.Equal(t, 2, c.Len())

	records := c.Records()
	records[0].Message = "changed"
	assert.Equal(t, "hi", c.Records()[0].Message)
}

func TestCollection_Equal(t *testing.T) {
	a := NewCollection(Record{at(9, 0), "Alice", "hi"})
	b := NewCollection(Record{at(9, 0).In(time.FixedZone("X", 0)), "Alice", "hi"})
	c := NewCollection(Record{at(9, 0), "Alice", "hi!"})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(NewCollection()))
	assert.False(t, a.Equal(nil))

	var nilCollection *Collection
	assert.True(t, nilCollection.Equal(nil))
}

func TestCollection_Rows(t *testing.T) {
	c := NewCollection(Record{at(9, 0), "Alice", "héllo  wörld"})
	rows := c.Rows()
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "Monday", row.Weekday)
	assert.Equal(t, 9, row.Hour)
	assert.Equal(t, 2, row.Words)
	assert.Equal(t, 12, row.Letters)
	assert.Equal(t, "Alice", row.Author)
}

func TestCollection_Conversations(t *testing.T) {
	c := NewCollection(
		Record{at(9, 0), "Alice", "hi"},
		Record{at(9, 5), "Bob", "hello"},
		Record{at(11, 0), "Alice", "lunch?"},
		Record{at(11, 1), "Alice", "anyone"},
		Record{at(15, 0), "Bob", "sorry, missed it"},
	)

	convs := c.Conversations(30*time.Minute, 2)
	require.Len(t, convs, 2)

	assert.Equal(t, at(9, 0), convs[0].StartAt)
	assert.Equal(t, at(9, 5), convs[0].EndAt)
	assert.Equal(t, []string{"Alice", "Bob"}, convs[0].Authors())
	assert.Equal(t, "Alice: hi\nBob: hello\n", convs[0].Format())

	assert.Equal(t, at(11, 0), convs[1].StartAt)
	assert.Equal(t, at(11, 1), convs[1].EndAt)
	assert.Equal(t, []string{"Alice"}, convs[1].Authors())

	assert.Len(t, c.Conversations(30*time.Minute, 1), 3)
	assert.Nil(t, NewCollection().Conversations(time.Minute, 1))
}

func TestCollection_ConversationsNewestFirst(t *testing.T) {
	c := NewCollection(
		Record{at(15, 0), "Bob", "sorry, missed it"},
		Record{at(11, 1), "Alice", "anyone"},
		Record{at(11, 0), "Alice", "lunch?"},
		Record{at(9, 5), "Bob", "hello"},
		Record{at(9, 0), "Alice", "hi"},
	)

	convs := c.Conversations(30*time.Minute, 1)
	require.Len(t, convs, 3)
	for _, conv := range convs {
		assert.False(t, conv.StartAt.After(conv.EndAt), "start %s after end %s", conv.StartAt, conv.EndAt)
	}
	assert.Equal(t, "Alice: hi\nBob: hello\n", convs[0].Format())
	assert.Equal(t, at(15, 0), convs[2].StartAt)

	// 集合本身保持原顺序
	assert.Equal(t, "sorry, missed it", c.Records()[0].Message)
}
