package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// metaMessage Facebook/Instagram 导出中的一条消息，保留原始字段以判断键是否存在
type metaMessage map[string]json.RawMessage

func (m metaMessage) has(key string) bool {
	_, ok := m[key]
	return ok
}

func (m metaMessage) str(key string) string {
	var s string
	_ = json.Unmarshal(m[key], &s)
	return s
}

type metaExport struct {
	Messages []metaMessage `json:"messages"`
}

// instagramNotices 这些内容是互动通知，不是正文
var instagramNotices = []string{
	" to your message",
	" in the poll.",
	" created a poll: ",
	" liked a message",
	"This poll is no longer available.",
	"'s poll has multiple updates.",
}

// bodyOutcome 正文提取的结果
type bodyOutcome int

const (
	bodyOK bodyOutcome = iota
	bodySkip
	bodyUnknown
)

// metaParser Facebook Messenger 与 Instagram 的导出结构相同，只是正文规则不同
type metaParser struct {
	opts Options
	body func(m metaMessage) (string, bodyOutcome)
}

// NewFacebookParser 解析 Facebook Messenger 的 JSON 导出
func NewFacebookParser(opts Options) Parser {
	return &metaParser{opts: opts.withDefaults(), body: facebookBody}
}

// NewInstagramParser 解析 Instagram 的 JSON 导出
func NewInstagramParser(opts Options) Parser {
	return &metaParser{opts: opts.withDefaults(), body: instagramBody}
}

func (p *metaParser) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	var export metaExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	if export.Messages == nil {
		return nil, fmt.Errorf("%w: export has no messages", ErrEmptyInput)
	}

	records, diags, err := parseAll(ctx, export.Messages, p.opts.Workers, p.parseMessage)
	if err != nil {
		return nil, err
	}
	return &Result{Records: records, Diagnostics: diags}, nil
}

func (p *metaParser) parseMessage(i int, m metaMessage) (Record, bool, *Diagnostic) {
	body, outcome := p.body(m)
	switch outcome {
	case bodySkip:
		return Record{}, false, nil
	case bodyUnknown:
		raw, _ := json.Marshal(m)
		d := messageDiagnostic(slog.LevelWarn, KindUnknownFormat, i, string(raw), "skipped message with unknown format")
		return Record{}, false, &d
	}

	var ms int64
	if err := json.Unmarshal(m["timestamp_ms"], &ms); err != nil {
		d := messageDiagnostic(slog.LevelWarn, KindUnparseableDate, i, string(m["timestamp_ms"]),
			fmt.Sprintf("%v: timestamp_ms", ErrUnparseableDate))
		return Record{}, false, &d
	}

	return Record{
		Timestamp: wallClock(time.UnixMilli(ms), p.opts.Location),
		Author:    fixLatin1(m.str("sender_name")),
		Message:   fixLatin1(body),
	}, true, nil
}

func facebookBody(m metaMessage) (string, bodyOutcome) {
	switch {
	case m.str("type") == "Share" && m.has("share"):
		var share struct {
			Link string `json:"link"`
		}
		_ = json.Unmarshal(m["share"], &share)
		return share.Link, bodyOK
	case m.has("sticker"):
		var sticker struct {
			URI string `json:"uri"`
		}
		_ = json.Unmarshal(m["sticker"], &sticker)
		return sticker.URI, bodyOK
	case m.has("content"):
		return m.str("content"), bodyOK
	}
	return "", bodyUnknown
}

func instagramBody(m metaMessage) (string, bodyOutcome) {
	switch {
	case m.has("share"):
		return "sentshare", bodyOK
	case m.has("photos"):
		return "sentphoto", bodyOK
	case m.has("videos"):
		return "sentvideo", bodyOK
	case m.has("audio_files"):
		return "sentaudio", bodyOK
	case m.has("content"):
		content := m.str("content")
		for _, notice := range instagramNotices {
			if strings.Contains(content, notice) {
				return "", bodySkip
			}
		}
		return content, bodyOK
	}

	// 只剩发送者、时间和表情回应的是阅后即焚消息
	for key := range m {
		if key != "sender_name" && key != "timestamp_ms" && key != "reactions" {
			return "", bodyUnknown
		}
	}
	return "disappearingmessage", bodyOK
}
