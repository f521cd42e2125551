package parser

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var clockRe = regexp.MustCompile(`(\d{1,2}):(\d{2})(?::(\d{2}))?(?:\s*([AaPp])\.?\s?[Mm]\.?)?`)

// ParseTimestamp 按推断出的格式解析日期部分
//
// 容忍日期前后的杂散字符（方括号、时区或上下午标记的残留）。
// 日期缺少时刻时按零点处理。
func (f DateFormat) ParseTimestamp(s string) (time.Time, error) {
	parts, widths, rest, ok := scanDate(s, f.DateSeparator)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDate, s)
	}

	var year, month, day, yearWidth int
	switch {
	case f.YearFirst && f.DayFirst:
		year, day, month, yearWidth = parts[0], parts[1], parts[2], widths[0]
	case f.YearFirst:
		year, month, day, yearWidth = parts[0], parts[1], parts[2], widths[0]
	case f.DayFirst:
		day, month, year, yearWidth = parts[0], parts[1], parts[2], widths[2]
	default:
		month, day, year, yearWidth = parts[0], parts[1], parts[2], widths[2]
	}

	// 与宽松的日期解析保持一致：月份不合法而日可以作为月份时互换
	if month > 12 && day <= 12 {
		month, day = day, month
	}
	if yearWidth <= 2 {
		year = expandYear(year, time.Now().Year())
	}

	hour, minute, second, err := parseClock(rest)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrUnparseableDate, s, err)
	}

	return makeTime(year, month, day, hour, minute, second)
}

// scanDate 从第一个数字开始读取 "n<sep>n<sep>n"
func scanDate(s string, sep rune) (parts, widths [3]int, rest string, ok bool) {
	i := strings.IndexFunc(s, isDigit)
	if i < 0 {
		return parts, widths, "", false
	}
	s = s[i:]

	for k := 0; k < 3; k++ {
		n, w := leadingNumber(s)
		if w == 0 || w > 4 {
			return parts, widths, "", false
		}
		parts[k], widths[k] = n, w
		s = s[w:]
		if k < 2 {
			r, size := utf8.DecodeRuneInString(s)
			if r != sep {
				return parts, widths, "", false
			}
			s = s[size:]
		}
	}
	return parts, widths, s, true
}

func parseClock(s string) (hour, minute, second int, err error) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, 0, nil
	}

	hour, _ = leadingNumber(m[1])
	minute, _ = leadingNumber(m[2])
	if m[3] != "" {
		second, _ = leadingNumber(m[3])
	}

	switch strings.ToLower(m[4]) {
	case "a":
		if hour > 12 {
			return 0, 0, 0, fmt.Errorf("hour %d with AM marker", hour)
		}
		if hour == 12 {
			hour = 0
		}
	case "p":
		if hour > 12 {
			return 0, 0, 0, fmt.Errorf("hour %d with PM marker", hour)
		}
		if hour < 12 {
			hour += 12
		}
	}

	if hour > 23 || minute > 59 || second > 59 {
		return 0, 0, 0, fmt.Errorf("clock %s out of range", m[0])
	}
	return hour, minute, second, nil
}

// expandYear 两位年份取距 ref 年 50 年以内的世纪
func expandYear(year, ref int) int {
	year += ref / 100 * 100
	if year >= ref+50 {
		year -= 100
	} else if year < ref-50 {
		year += 100
	}
	return year
}

func makeTime(year, month, day, hour, minute, second int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d out of range", ErrUnparseableDate, month)
	}
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if day < 1 || t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrUnparseableDate, day, year, month)
	}
	return t, nil
}
