package index

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/philippgille/chromem-go"

	"github.com/liao/chat-miner/internal/parser"
)

const (
	maxDocumentLen = 2000
	batchSize      = 20

	metaSource = "source"
)

// Documents 将对话片段转换为向量文档，过短的片段跳过
// 同一来源重复导入时，相同序号的对话得到相同的 ID
func Documents(source string, conversations []parser.Conversation) []chromem.Document {
	docs := make([]chromem.Document, 0, len(conversations))
	for i, conv := range conversations {
		text := conv.Format()
		if len(text) < 10 {
			continue
		}
		if len(text) > maxDocumentLen {
			text = truncate(text, maxDocumentLen)
		}

		docs = append(docs, chromem.Document{
			ID:      documentID(source, i),
			Content: text,
			Metadata: map[string]string{
				metaSource:  source,
				"msg_count": strconv.Itoa(len(conv.Records)),
				"start":     conv.StartAt.Format(time.DateTime),
				"end":       conv.EndAt.Format(time.DateTime),
				"authors":   strings.Join(conv.Authors(), ","),
			},
		})
	}
	return docs
}

func documentID(source string, i int) string {
	if source == "" {
		return fmt.Sprintf("conv_%05d", i)
	}
	return fmt.Sprintf("%s/conv_%05d", source, i)
}

// AddConversations 分批写入对话片段，返回写入的文档数
func (s *Store) AddConversations(ctx context.Context, source string, conversations []parser.Conversation) (int, error) {
	docs := Documents(source, conversations)
	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))
		slog.Info("vectorizing", "source", source, "progress", fmt.Sprintf("%d/%d", end, len(docs)))
		if err := s.AddDocuments(ctx, docs[start:end]); err != nil {
			return start, fmt.Errorf("add documents batch at %d: %w", start, err)
		}
	}
	return len(docs), nil
}

// ReplaceConversations 先删除该来源已有的文档再写入，避免旧的多余片段残留
func (s *Store) ReplaceConversations(ctx context.Context, source string, conversations []parser.Conversation) (int, error) {
	if err := s.DeleteSource(ctx, source); err != nil {
		return 0, err
	}
	return s.AddConversations(ctx, source, conversations)
}

// truncate 按字节上限截断，不切断 UTF-8 字符
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
