package parser

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// splitAuthor 将分隔符之后的部分拆成作者与正文
// 没有 ": " 的视为系统通知，作者记为 SystemAuthor
func splitAuthor(rest string) (author, body string) {
	if a, b, ok := strings.Cut(rest, ": "); ok {
		author, body = strings.TrimSpace(a), strings.TrimSpace(b)
		if author != "" {
			return author, body
		}
	}
	return SystemAuthor, strings.TrimSpace(rest)
}

func containsAny(s string, markers []string) (string, bool) {
	for _, m := range markers {
		if m != "" && strings.Contains(s, m) {
			return m, true
		}
	}
	return "", false
}

// fieldParser 将一条逻辑消息拆成时间、作者与正文
type fieldParser struct {
	sep         string
	parseTime   func(string) (time.Time, error)
	skipMarkers []string
	// 为空时按第一个 ": " 拆分
	splitAuthor func(rest string) (author, body string)
}

func (p fieldParser) parse(i int, raw string) (Record, bool, *Diagnostic) {
	date, rest, found := strings.Cut(raw, p.sep)
	if !found {
		d := messageDiagnostic(slog.LevelWarn, KindMissingSeparator, i, raw,
			fmt.Sprintf("%v %q", ErrMissingSeparator, p.sep))
		return Record{}, false, &d
	}

	ts, err := p.parseTime(date)
	if err != nil {
		d := messageDiagnostic(slog.LevelWarn, KindUnparseableDate, i, raw, err.Error())
		return Record{}, false, &d
	}

	if marker, ok := containsAny(rest, p.skipMarkers); ok {
		d := messageDiagnostic(slog.LevelInfo, KindSkippedMessage, i, raw,
			fmt.Sprintf("skipped self-destructing message marked %q", marker))
		return Record{}, false, &d
	}

	split := p.splitAuthor
	if split == nil {
		split = splitAuthor
	}
	author, body := split(rest)
	return Record{Timestamp: ts, Author: author, Message: body}, true, nil
}
