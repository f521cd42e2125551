package parser

import (
	"slices"
	"strings"
)

// Segment 将物理行重组为逻辑消息
//
// 逆序扫描：续行属于它前面的边界行，而该边界行要向回走才能遇到，
// 逆序时只需缓冲到下一个边界行即可。空白行既不是边界也不进入缓冲区。
// 扫描结束时缓冲区里剩下的行（文件开头没有边界行的续行）作为 dropped 返回，
// 不会并入任何消息。
func Segment(lines []string, det BoundaryDetector) (messages []string, dropped []string) {
	var buf []string

	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}

		if !det.IsBoundary(line) {
			buf = append(buf, line)
			continue
		}

		line = det.Normalize(line)
		if len(buf) == 0 {
			messages = append(messages, stripLineBreaks(line))
			continue
		}

		buf = append(buf, line)
		slices.Reverse(buf)
		messages = append(messages, stripLineBreaks(strings.Join(buf, " ")))
		buf = buf[:0]
	}

	if len(buf) > 0 {
		dropped = slices.Clone(buf)
		slices.Reverse(dropped)
	}

	slices.Reverse(messages)
	return messages, dropped
}

func stripLineBreaks(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
			return -1
		}
		return r
	}, s)
}
