package parser

import (
	"context"
	"fmt"
	"log/slog"
)

// Kind 诊断事件类型
type Kind string

const (
	KindInferredFormat      Kind = "inferred_format"
	KindUndecidableDayFirst Kind = "undecidable_day_first"
	KindUnparseableDate     Kind = "unparseable_date"
	KindMissingSeparator    Kind = "missing_separator"
	KindSkippedMessage      Kind = "skipped_message"
	KindUnknownFormat       Kind = "unknown_format"
	KindDroppedLines        Kind = "dropped_lines"
)

// Diagnostic 解析过程中产生的结构化事件，由调用方决定如何记录
type Diagnostic struct {
	Level   slog.Level
	Kind    Kind
	Index   int // 原始消息序号，文件级事件为 -1
	Message string
	Raw     string
}

func (d Diagnostic) String() string {
	if d.Index < 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s at message %d: %s", d.Kind, d.Index, d.Message)
}

// Attrs 转换为 slog 属性
func (d Diagnostic) Attrs() []slog.Attr {
	attrs := []slog.Attr{slog.String("kind", string(d.Kind))}
	if d.Index >= 0 {
		attrs = append(attrs, slog.Int("index", d.Index))
	}
	if d.Raw != "" {
		attrs = append(attrs, slog.String("raw", d.Raw))
	}
	return attrs
}

// LogDiagnostics 将诊断事件写入 logger
func LogDiagnostics(ctx context.Context, logger *slog.Logger, diags []Diagnostic) {
	for _, d := range diags {
		logger.LogAttrs(ctx, d.Level, d.Message, d.Attrs()...)
	}
}

func fileDiagnostic(level slog.Level, kind Kind, msg string) Diagnostic {
	return Diagnostic{Level: level, Kind: kind, Index: -1, Message: msg}
}

func messageDiagnostic(level slog.Level, kind Kind, idx int, raw, msg string) Diagnostic {
	return Diagnostic{Level: level, Kind: kind, Index: idx, Message: msg, Raw: raw}
}
