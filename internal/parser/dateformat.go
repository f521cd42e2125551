package parser

import (
	"fmt"
	"log/slog"
	"strings"
)

// DateFormat 从一个文件推断出的日期格式，对该文件的每条消息统一使用
type DateFormat struct {
	HasBrackets         bool
	DateSeparator       rune
	YearFirst           bool
	DayFirst            bool
	DateAuthorSeparator string
}

// String 返回可读的格式描述，如 "[day.month.year]"
func (f DateFormat) String() string {
	first, second, third := "month", "day", "year"
	switch {
	case f.YearFirst && f.DayFirst:
		first, second, third = "year", "day", "month"
	case f.YearFirst:
		first, second, third = "year", "month", "day"
	case f.DayFirst:
		first, second = "day", "month"
	}
	sep := string(f.DateSeparator)
	s := first + sep + second + sep + third
	if f.HasBrackets {
		s = "[" + s + "]"
	}
	return s
}

// dateString 截取分隔符之前的日期部分并去掉方括号
func (f DateFormat) dateString(raw string) string {
	date, _, _ := strings.Cut(raw, f.DateAuthorSeparator)
	if f.HasBrackets {
		date = strings.TrimRight(strings.TrimLeft(date, "["), "]")
	}
	return date
}

// InferDateFormat 根据整份文件的逻辑消息推断日期格式
//
// 括号、分隔符与年份位置只看第一条消息；日/月顺序扫描所有消息，
// 直到某一位置出现大于 12 的值。始终无法区分时回退为日在前，并给出警告诊断。
func InferDateFormat(raw []string) (DateFormat, []Diagnostic, error) {
	var f DateFormat
	if len(raw) == 0 {
		return f, nil, ErrEmptyInput
	}

	first := raw[0]
	f.HasBrackets = strings.HasPrefix(first, "[")
	f.DateAuthorSeparator = " - "
	if f.HasBrackets {
		f.DateAuthorSeparator = "]"
	}

	date := f.dateString(first)
	sepIdx := strings.IndexFunc(date, func(r rune) bool { return !isDigit(r) })
	if sepIdx < 0 {
		return f, nil, fmt.Errorf("%w: no non-numeric character in %q", ErrFormatInference, date)
	}
	f.DateSeparator = []rune(date[sepIdx:])[0]

	year, width := leadingNumber(date)
	if width == 0 {
		return f, nil, fmt.Errorf("%w: date %q does not start with a number", ErrFormatInference, date)
	}
	f.YearFirst = year >= 100

	var diags []Diagnostic
	dayFirst, diag, err := f.inferDayFirst(raw)
	if err != nil {
		return f, nil, err
	}
	f.DayFirst = dayFirst
	if diag != nil {
		diags = append(diags, *diag)
	}

	diags = append(diags, fileDiagnostic(slog.LevelInfo, KindInferredFormat, "inferred date format: "+f.String()))
	return f, diags, nil
}

func (f DateFormat) inferDayFirst(raw []string) (bool, *Diagnostic, error) {
	maxFirst, maxSecond := 0, 0
	sep := string(f.DateSeparator)

	for i, mess := range raw {
		date := f.dateString(mess)

		var parts []string
		if f.YearFirst {
			datePart, _, _ := strings.Cut(date, ",")
			parts = strings.Split(datePart, sep)
			if len(parts) < 3 {
				continue
			}
			parts = parts[1:3]
		} else {
			parts = strings.Split(date, sep)
			if len(parts) < 2 {
				continue
			}
			parts = parts[:2]
		}

		a, wa := leadingNumber(parts[0])
		b, wb := leadingNumber(parts[1])
		if wa == 0 || wb == 0 {
			continue
		}
		maxFirst = max(maxFirst, a)
		maxSecond = max(maxSecond, b)

		if maxFirst > 12 && maxSecond > 12 {
			return false, nil, fmt.Errorf("%w: both date components exceed 12 in message %d", ErrFormatInference, i)
		}
		if maxFirst > 12 || maxSecond > 12 {
			break
		}
	}

	if maxFirst > 12 {
		return true, nil, nil
	}
	if maxSecond > 12 {
		return false, nil, nil
	}
	d := fileDiagnostic(slog.LevelWarn, KindUndecidableDayFirst,
		"can't infer date format: no day > 12, falling back on day first")
	return true, &d, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// leadingNumber 读取开头的十进制数字，返回数值与位数
func leadingNumber(s string) (n, width int) {
	for width < len(s) && isDigit(rune(s[width])) {
		n = n*10 + int(s[width]-'0')
		width++
	}
	return n, width
}
