package index

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liao/chat-miner/internal/parser"
)

// keywordEmbed 按关键词映射到单位向量，结果可预测
func keywordEmbed(_ context.Context, text string) ([]float32, error) {
	switch {
	case strings.Contains(text, "pizza"):
		return []float32{1, 0, 0}, nil
	case strings.Contains(text, "cat"):
		return []float32{0, 1, 0}, nil
	}
	return []float32{0, 0, 1}, nil
}

func at(hour, minute int) time.Time {
	return time.Date(2023, 1, 2, hour, minute, 0, 0, time.UTC)
}

func conversations() []parser.Conversation {
	c := parser.NewCollection(
		parser.Record{Timestamp: at(9, 0), Author: "Alice", Message: "pizza tonight?"},
		parser.Record{Timestamp: at(9, 1), Author: "Bob", Message: "yes please"},
		parser.Record{Timestamp: at(14, 0), Author: "Carol", Message: "my cat is sick"},
		parser.Record{Timestamp: at(14, 3), Author: "Alice", Message: "oh no"},
		parser.Record{Timestamp: at(14, 4), Author: "Carol", Message: "vet tomorrow"},
	)
	return c.Conversations(30*time.Minute, 2)
}

func TestDocuments(t *testing.T) {
	docs := Documents("chat", conversations())
	require.Len(t, docs, 2)

	assert.Equal(t, "chat/conv_00000", docs[0].ID)
	assert.Equal(t, "Alice: pizza tonight?\nBob: yes please\n", docs[0].Content)
	assert.Equal(t, map[string]string{
		"source":    "chat",
		"msg_count": "2",
		"start":     "2023-01-02 09:00:00",
		"end":       "2023-01-02 09:01:00",
		"authors":   "Alice,Bob",
	}, docs[0].Metadata)

	assert.Equal(t, "chat/conv_00001", docs[1].ID)
	assert.Equal(t, "3", docs[1].Metadata["msg_count"])
	assert.Equal(t, "Carol,Alice", docs[1].Metadata["authors"])
}

func TestDocuments_SkipsShortAndTruncates(t *testing.T) {
	long := strings.Repeat("聊", 1000)
	convs := []parser.Conversation{
		{Records: []parser.Record{{Author: "A", Message: "x"}}},
		{Records: []parser.Record{{Author: "Alice", Message: long}}},
	}

	docs := Documents("", convs)
	require.Len(t, docs, 1)
	assert.Equal(t, "conv_00001", docs[0].ID)
	assert.LessOrEqual(t, len(docs[0].Content), maxDocumentLen)
	assert.True(t, strings.HasPrefix(docs[0].Content, "Alice: 聊"))
	assert.True(t, strings.HasSuffix(docs[0].Content, "聊"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "ab", truncate("abé", 3))
	assert.Equal(t, "abé", truncate("abéd", 4))
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore("", "", keywordEmbed)
	require.NoError(t, err)

	results, err := store.Query(ctx, "pizza", QueryOptions{TopK: 5})
	require.NoError(t, err)
	assert.Empty(t, results)

	n, err := store.AddConversations(ctx, "chat", conversations())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, store.Count())

	t.Run("TopResult", func(t *testing.T) {
		results, err := store.Query(ctx, "pizza", QueryOptions{TopK: 5, MinSimilarity: -1})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "chat/conv_00000", results[0].ID)
		assert.Equal(t, "chat", results[0].Source)
		assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
		assert.Equal(t, "Alice,Bob", results[0].Metadata["authors"])
	})

	t.Run("MinSimilarity", func(t *testing.T) {
		results, err := store.Query(ctx, "my cat", QueryOptions{TopK: 5, MinSimilarity: 0.5})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "chat/conv_00001", results[0].ID)
	})

	t.Run("Contains", func(t *testing.T) {
		results, err := store.Query(ctx, "pizza", QueryOptions{TopK: 5, MinSimilarity: -1, Contains: "vet"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "chat/conv_00001", results[0].ID)
	})

	t.Run("ZeroTopK", func(t *testing.T) {
		results, err := store.Query(ctx, "pizza", QueryOptions{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Reimport", func(t *testing.T) {
		_, err := store.AddConversations(ctx, "chat", conversations())
		require.NoError(t, err)
		assert.Equal(t, 2, store.Count())
	})
}

func TestStore_Sources(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore("", "test", keywordEmbed)
	require.NoError(t, err)

	_, err = store.AddConversations(ctx, "family", conversations())
	require.NoError(t, err)
	_, err = store.AddConversations(ctx, "work", conversations())
	require.NoError(t, err)
	require.Equal(t, 4, store.Count())

	results, err := store.Query(ctx, "pizza", QueryOptions{TopK: 4, MinSimilarity: 0.5, Source: "work"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "work/conv_00000", results[0].ID)

	// 新导出只剩一段对话，旧的第二段应被删除
	n, err := store.ReplaceConversations(ctx, "family", conversations()[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 3, store.Count())

	assert.Error(t, store.DeleteSource(ctx, ""))
}

func TestNewStore_Persistent(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, "test", keywordEmbed)
	require.NoError(t, err)
	_, err = store.AddConversations(context.Background(), "chat", conversations())
	require.NoError(t, err)

	reopened, err := NewStore(dir, "test", keywordEmbed)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Count())
}
