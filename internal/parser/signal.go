package parser

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

const signalLayout = "2006-01-02 15:04"

// SignalParser 解析 Signal 的文本导出，时间格式固定无需推断
type SignalParser struct {
	opts Options
}

func NewSignalParser(opts Options) *SignalParser {
	return &SignalParser{opts: opts.withDefaults()}
}

func (p *SignalParser) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	return p.ParseLines(ctx, lines)
}

// ParseLines 解析已读入的物理行
func (p *SignalParser) ParseLines(ctx context.Context, lines []string) (*Result, error) {
	raw, dropped := Segment(lines, SignalDetector())

	var diags []Diagnostic
	if len(dropped) > 0 {
		diags = append(diags, droppedDiagnostic(dropped))
	}
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	fp := fieldParser{
		sep:         "]",
		parseTime:   parseSignalTime,
		skipMarkers: p.opts.SkipMarkers,
	}
	records, msgDiags, err := parseAll(ctx, raw, p.opts.Workers, fp.parse)
	if err != nil {
		return nil, err
	}

	return &Result{Records: records, Diagnostics: append(diags, msgDiags...)}, nil
}

func parseSignalTime(s string) (time.Time, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "[")
	s = strings.Replace(s, ",", "", 1)
	t, err := time.Parse(signalLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrUnparseableDate, err)
	}
	return t, nil
}
