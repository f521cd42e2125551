package parser

import (
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// wallClock 将绝对时间换算为 loc 下的墙上时间，并去掉时区
func wallClock(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// fixLatin1 还原 Meta 导出中被当作 latin1 转义的 UTF-8 文本
// 无法还原时返回原文
func fixLatin1(s string) string {
	b, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil || !utf8.ValidString(b) {
		return s
	}
	return b
}
