package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const leftToRightMark = "\u200e"

// BoundaryDetector 判断一行物理文本是否为新消息的开头
type BoundaryDetector interface {
	IsBoundary(line string) bool
	// Normalize 在边界行进入缓冲区之前调用
	Normalize(line string) string
}

// Signal 导出的时间戳格式固定: "[2023-01-02 09:00]"
var signalBoundaryRe = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2},? \d{2}:\d{2}\]`)

// WhatsApp 的日期分隔符在两处必须一致，RE2 没有反向引用，按分隔符展开
var whatsappBoundaryRe = regexp.MustCompile(`^\x{200e}?\[?` +
	`(?:\d{1,4}\.\d{1,2}\.(?:\d{4}|\d{2})|\d{1,4}/\d{1,2}/(?:\d{4}|\d{2})|\d{1,4}-\d{1,2}-(?:\d{4}|\d{2}))` +
	`[, ]\s*\d{1,2}:\d{2}`)

type signalDetector struct{}

// SignalDetector 返回 Signal 导出的边界判定
func SignalDetector() BoundaryDetector { return signalDetector{} }

func (signalDetector) IsBoundary(line string) bool {
	return signalBoundaryRe.MatchString(line)
}

func (signalDetector) Normalize(line string) string {
	return line
}

type whatsappDetector struct{}

// WhatsAppDetector 返回 WhatsApp 导出的边界判定
func WhatsAppDetector() BoundaryDetector { return whatsappDetector{} }

func (whatsappDetector) IsBoundary(line string) bool {
	return whatsappBoundaryRe.MatchString(line)
}

// Normalize 去掉从左到右标记并做 NFKC 归一化
// 部分导出混用了组合与分解形式的重音字符，不归一化会影响 ": " 的切分
func (whatsappDetector) Normalize(line string) string {
	line = strings.ReplaceAll(line, leftToRightMark, "")
	return norm.NFKC.String(strings.TrimSpace(line))
}
