package parser

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// 匹配时间戳行: "2024-01-15 18:30:00 张三" 或 "2024-01-15 18:30 张三"
var wechatHeaderRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}(?::\d{2})?)\s+(.+?)\s*$`)

type wechatDetector struct{}

// WeChatDetector 返回 WechatExporter 文本导出的边界判定
func WeChatDetector() BoundaryDetector { return wechatDetector{} }

func (wechatDetector) IsBoundary(line string) bool {
	return wechatHeaderRe.MatchString(line)
}

// wechatNameSep 昵称与正文之间的分隔符，昵称本身可能包含 ": "
const wechatNameSep = "\x1f"

// Normalize 把 "时间 昵称" 改写成 "时间 - 昵称\x1f"，正文在后续行里
func (wechatDetector) Normalize(line string) string {
	m := wechatHeaderRe.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	return m[1] + " - " + m[2] + wechatNameSep
}

// splitWeChatAuthor 按 Normalize 写入的分隔符拆分昵称与正文
func splitWeChatAuthor(rest string) (author, body string) {
	author, body, found := strings.Cut(rest, wechatNameSep)
	if !found || strings.TrimSpace(author) == "" {
		return SystemAuthor, strings.TrimSpace(rest)
	}
	return strings.TrimSpace(author), strings.TrimSpace(body)
}

// WeChatParser 解析 WechatExporter 导出的 Text 格式文件
type WeChatParser struct {
	opts Options
}

func NewWeChatParser(opts Options) *WeChatParser {
	return &WeChatParser{opts: opts.withDefaults()}
}

func (p *WeChatParser) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return p.ParseLines(ctx, lines)
}

// ParseLines 解析已读入的物理行
func (p *WeChatParser) ParseLines(ctx context.Context, lines []string) (*Result, error) {
	raw, dropped := Segment(lines, WeChatDetector())

	var diags []Diagnostic
	if len(dropped) > 0 {
		diags = append(diags, droppedDiagnostic(dropped))
	}
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	fp := fieldParser{
		sep:         " - ",
		parseTime:   parseWeChatTime,
		skipMarkers: p.opts.SkipMarkers,
		splitAuthor: splitWeChatAuthor,
	}
	records, msgDiags, err := parseAll(ctx, raw, p.opts.Workers,
		func(i int, raw string) (Record, bool, *Diagnostic) {
			rec, ok, diag := fp.parse(i, raw)
			// 只有时间戳行、没有内容的消息不保留
			if ok && rec.Message == "" {
				return Record{}, false, nil
			}
			return rec, ok, diag
		})
	if err != nil {
		return nil, err
	}

	return &Result{Records: records, Diagnostics: append(diags, msgDiags...)}, nil
}

func parseWeChatTime(s string) (time.Time, error) {
	layouts := []string{
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unknown timestamp format: %s", ErrUnparseableDate, s)
}
