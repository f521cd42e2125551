package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// WhatsAppParser 解析 WhatsApp 的文本导出，日期格式按文件推断
type WhatsAppParser struct {
	opts Options
}

func NewWhatsAppParser(opts Options) *WhatsAppParser {
	return &WhatsAppParser{opts: opts.withDefaults()}
}

func (p *WhatsAppParser) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return p.ParseLines(ctx, lines)
}

// ParseLines 解析已读入的物理行
func (p *WhatsAppParser) ParseLines(ctx context.Context, lines []string) (*Result, error) {
	raw, dropped := Segment(lines, WhatsAppDetector())

	var diags []Diagnostic
	if len(dropped) > 0 {
		diags = append(diags, droppedDiagnostic(dropped))
	}
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	format, inferDiags, err := InferDateFormat(raw)
	if err != nil {
		return nil, fmt.Errorf("infer date format: %w", err)
	}
	diags = append(diags, inferDiags...)

	fp := fieldParser{
		sep:         format.DateAuthorSeparator,
		parseTime:   format.ParseTimestamp,
		skipMarkers: p.opts.SkipMarkers,
	}
	records, msgDiags, err := parseAll(ctx, raw, p.opts.Workers, fp.parse)
	if err != nil {
		return nil, err
	}

	return &Result{
		Records:     records,
		Diagnostics: append(diags, msgDiags...),
		Format:      &format,
	}, nil
}

func droppedDiagnostic(dropped []string) Diagnostic {
	d := fileDiagnostic(slog.LevelWarn, KindDroppedLines,
		fmt.Sprintf("dropped %d leading line(s) without a preceding message header", len(dropped)))
	d.Raw = strings.Join(dropped, "\n")
	return d
}
