package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// title 形如 "02.01.2023 09:00:00 UTC+01:00"，只取前面的墙上时间
const telegramHTMLLayout = "02.01.2006 15:04:05"

// htmlMessage 从 DOM 中取出的一条消息，作者可能为空（连续消息）
type htmlMessage struct {
	author string
	title  string
	text   string
}

// TelegramHTMLParser 解析 Telegram Desktop 的 HTML 导出
type TelegramHTMLParser struct {
	opts Options
}

func NewTelegramHTMLParser(opts Options) *TelegramHTMLParser {
	return &TelegramHTMLParser{opts: opts.withDefaults()}
}

func (p *TelegramHTMLParser) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var messages []htmlMessage
	author := ""
	doc.Find("div.message.default").Each(func(i int, s *goquery.Selection) {
		body := s.ChildrenFiltered(".body")

		// joined 消息不重复显示昵称，沿用上一条的作者
		if name := strings.TrimSpace(body.ChildrenFiltered(".from_name").First().Text()); name != "" {
			author = name
		}

		title, _ := body.ChildrenFiltered(".date").First().Attr("title")
		messages = append(messages, htmlMessage{
			author: author,
			title:  title,
			text:   strings.TrimSpace(body.ChildrenFiltered(".text").First().Text()),
		})
	})

	records, diags, err := parseAll(ctx, messages, p.opts.Workers, parseHTMLMessage)
	if err != nil {
		return nil, err
	}
	return &Result{Records: records, Diagnostics: diags}, nil
}

func parseHTMLMessage(i int, m htmlMessage) (Record, bool, *Diagnostic) {
	// 纯媒体消息没有文本
	if m.text == "" {
		return Record{}, false, nil
	}
	if m.author == "" {
		d := messageDiagnostic(slog.LevelWarn, KindUnknownFormat, i, m.text, "skipped message without author")
		return Record{}, false, &d
	}

	ts, err := parseTelegramTitle(m.title)
	if err != nil {
		d := messageDiagnostic(slog.LevelWarn, KindUnparseableDate, i, m.title, err.Error())
		return Record{}, false, &d
	}

	return Record{Timestamp: ts, Author: m.author, Message: m.text}, true, nil
}

func parseTelegramTitle(title string) (time.Time, error) {
	title = strings.TrimSpace(title)
	if len(title) > len(telegramHTMLLayout) {
		title = title[:len(telegramHTMLLayout)]
	}
	t, err := time.Parse(telegramHTMLLayout, title)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrUnparseableDate, err)
	}
	return t, nil
}
