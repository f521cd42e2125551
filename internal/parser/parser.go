package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
)

// Parser 将一个导出文件解析为消息集合
type Parser interface {
	Parse(ctx context.Context, r io.Reader) (*Result, error)
}

// Result 单个文件的解析结果
type Result struct {
	Records     *Collection
	Diagnostics []Diagnostic
	// Format 只在需要推断日期格式的平台上非空
	Format *DateFormat
}

// Options 解析选项
type Options struct {
	// Workers 并行解析单条消息的 goroutine 数
	Workers int
	// Location 以 Unix 时间戳导出的平台用它换算墙上时间
	Location *time.Location
	// ChatName Telegram 批量导出中要选取的会话
	ChatName string
	// SkipMarkers 包含这些标记的消息视为阅后即焚，不入库
	SkipMarkers []string
}

// DefaultSkipMarkers 阅后即焚消息的标记
var DefaultSkipMarkers = []string{
	"<View once media omitted>",
	"<View once message omitted>",
	"<View once voice message omitted>",
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.SkipMarkers == nil {
		o.SkipMarkers = DefaultSkipMarkers
	}
	return o
}

// ParseFile 打开文件并解析
func ParseFile(ctx context.Context, p Parser, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return p.Parse(ctx, f)
}

// ParseBytes 解析内存中的导出内容，例如解密后的明文
func ParseBytes(ctx context.Context, p Parser, data []byte) (*Result, error) {
	return p.Parse(ctx, bytes.NewReader(data))
}

// messageFunc 解析第 i 条原始消息；返回 false 表示跳过
type messageFunc[T any] func(i int, raw T) (Record, bool, *Diagnostic)

// parseAll 在日期格式确定后并行解析每条消息，结果按原始顺序收集
func parseAll[T any](ctx context.Context, raw []T, workers int, fn messageFunc[T]) (*Collection, []Diagnostic, error) {
	type slot struct {
		rec  Record
		ok   bool
		diag *Diagnostic
	}
	slots := make([]slot, len(raw))

	chunks := min(workers, len(raw))
	if chunks < 1 {
		chunks = 1
	}
	size := (len(raw) + chunks - 1) / chunks

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(raw); start += size {
		end := min(start+size, len(raw))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if i%256 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				rec, ok, diag := fn(i, raw[i])
				slots[i] = slot{rec: rec, ok: ok, diag: diag}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("parse messages: %w", err)
	}

	records := NewCollection()
	var diags []Diagnostic
	for _, s := range slots {
		if s.diag != nil {
			diags = append(diags, *s.diag)
		}
		if s.ok {
			records.Append(s.rec)
		}
	}
	return records, diags, nil
}
