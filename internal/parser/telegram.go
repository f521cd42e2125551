package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

type telegramExport struct {
	Messages []telegramMessage `json:"messages"`
	Chats    *struct {
		List []telegramChat `json:"list"`
	} `json:"chats"`
}

type telegramChat struct {
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Messages []telegramMessage `json:"messages"`
}

type telegramMessage struct {
	Type         string          `json:"type"`
	From         *string         `json:"from"`
	Text         json.RawMessage `json:"text"`
	DateUnixtime string          `json:"date_unixtime"`
}

// telegramEntity 富文本片段
type telegramEntity struct {
	Text string `json:"text"`
}

// TelegramJSONParser 解析 Telegram Desktop 的 JSON 导出
// 支持单个会话导出，以及按 ChatName 从完整导出中挑选会话
type TelegramJSONParser struct {
	opts Options
}

func NewTelegramJSONParser(opts Options) *TelegramJSONParser {
	return &TelegramJSONParser{opts: opts.withDefaults()}
}

func (p *TelegramJSONParser) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	var export telegramExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decode telegram export: %w", err)
	}

	messages, err := p.selectMessages(&export)
	if err != nil {
		return nil, err
	}

	records, diags, err := parseAll(ctx, messages, p.opts.Workers, p.parseMessage)
	if err != nil {
		return nil, err
	}
	return &Result{Records: records, Diagnostics: diags}, nil
}

func (p *TelegramJSONParser) selectMessages(export *telegramExport) ([]telegramMessage, error) {
	if export.Messages != nil {
		return export.Messages, nil
	}
	if export.Chats == nil {
		return nil, fmt.Errorf("%w: export has neither messages nor chats", ErrEmptyInput)
	}

	for _, chat := range export.Chats.List {
		if p.opts.ChatName != "" && chat.Name == p.opts.ChatName {
			return chat.Messages, nil
		}
		if p.opts.ChatName == "" && chat.Type == "saved_messages" {
			return chat.Messages, nil
		}
	}

	name := p.opts.ChatName
	if name == "" {
		name = "Saved Messages"
	}
	return nil, fmt.Errorf("%w: %s", ErrChatNotFound, name)
}

func (p *TelegramJSONParser) parseMessage(i int, m telegramMessage) (Record, bool, *Diagnostic) {
	// 服务消息没有 from/text
	if m.From == nil || len(m.Text) == 0 {
		return Record{}, false, nil
	}

	body, err := telegramText(m.Text)
	if err != nil {
		d := messageDiagnostic(slog.LevelWarn, KindUnknownFormat, i, string(m.Text), err.Error())
		return Record{}, false, &d
	}
	// 纯媒体消息 text 为空串
	if strings.TrimSpace(body) == "" {
		return Record{}, false, nil
	}

	sec, err := strconv.ParseInt(m.DateUnixtime, 10, 64)
	if err != nil {
		d := messageDiagnostic(slog.LevelWarn, KindUnparseableDate, i, m.DateUnixtime,
			fmt.Sprintf("%v: date_unixtime %q", ErrUnparseableDate, m.DateUnixtime))
		return Record{}, false, &d
	}

	return Record{
		Timestamp: wallClock(time.Unix(sec, 0), p.opts.Location),
		Author:    *m.From,
		Message:   body,
	}, true, nil
}

// telegramText text 字段可能是字符串，也可能是字符串与 {text: ...} 混合的数组
func telegramText(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", fmt.Errorf("unable to parse text %s", raw)
	}

	texts := make([]string, 0, len(parts))
	for _, part := range parts {
		var str string
		if err := json.Unmarshal(part, &str); err == nil {
			texts = append(texts, str)
			continue
		}
		var entity telegramEntity
		if err := json.Unmarshal(part, &entity); err != nil {
			return "", fmt.Errorf("unable to parse text entity %s", part)
		}
		texts = append(texts, entity.Text)
	}
	return strings.Join(texts, " "), nil
}
