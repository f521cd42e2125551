package index

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/philippgille/chromem-go"
)

// DefaultCollection 默认集合名
const DefaultCollection = "conversations"

// Store chromem-go 上的对话向量库，文档按来源文件分组
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// Result 一条检索命中
type Result struct {
	ID         string
	Source     string
	Content    string
	Similarity float32
	Metadata   map[string]string
}

// QueryOptions 检索参数；Source 和 Contains 为空时不过滤
type QueryOptions struct {
	TopK          int
	MinSimilarity float32
	Source        string
	Contains      string
}

// NewStore 创建或加载向量存储；vectorsDir 为空时只保存在内存中
func NewStore(vectorsDir, collection string, embedFunc chromem.EmbeddingFunc) (*Store, error) {
	var (
		db  *chromem.DB
		err error
	)
	if vectorsDir == "" {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(vectorsDir, false)
		if err != nil {
			return nil, fmt.Errorf("open vector db: %w", err)
		}
	}

	if collection == "" {
		collection = DefaultCollection
	}
	col, err := db.GetOrCreateCollection(collection, nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("get/create collection: %w", err)
	}

	slog.Debug("vector store loaded", "dir", vectorsDir, "collection", collection, "count", col.Count())
	return &Store{db: db, collection: col}, nil
}

// Query 检索相似对话，低于 MinSimilarity 的结果被过滤
func (s *Store) Query(ctx context.Context, text string, opts QueryOptions) ([]Result, error) {
	count := s.collection.Count()
	if count == 0 || opts.TopK <= 0 {
		return nil, nil
	}

	var where, whereDocument map[string]string
	if opts.Source != "" {
		where = map[string]string{metaSource: opts.Source}
	}
	if opts.Contains != "" {
		whereDocument = map[string]string{"$contains": opts.Contains}
	}

	docs, err := s.collection.Query(ctx, text, min(opts.TopK, count), where, whereDocument)
	if err != nil {
		return nil, fmt.Errorf("query vectors: %w", err)
	}

	var results []Result
	for _, d := range docs {
		if d.Similarity < opts.MinSimilarity {
			continue
		}
		results = append(results, Result{
			ID:         d.ID,
			Source:     d.Metadata[metaSource],
			Content:    d.Content,
			Similarity: d.Similarity,
			Metadata:   d.Metadata,
		})
	}
	return results, nil
}

// AddDocuments 批量写入文档，ID 相同的文档被覆盖
func (s *Store) AddDocuments(ctx context.Context, docs []chromem.Document) error {
	return s.collection.AddDocuments(ctx, docs, runtime.NumCPU())
}

// DeleteSource 删除某个来源文件的全部文档
func (s *Store) DeleteSource(ctx context.Context, source string) error {
	if source == "" {
		return fmt.Errorf("delete source: empty source")
	}
	if err := s.collection.Delete(ctx, map[string]string{metaSource: source}, nil); err != nil {
		return fmt.Errorf("delete source %s: %w", source, err)
	}
	return nil
}

// Count 返回文档数量
func (s *Store) Count() int {
	return s.collection.Count()
}
