package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/liao/chat-miner/internal/parser"
)

var csvHeader = []string{"timestamp", "author", "message", "weekday", "hour", "words", "letters"}

// WriteCSV 写出带派生列的表格
func WriteCSV(w io.Writer, c *parser.Collection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range c.Rows() {
		err := cw.Write([]string{
			row.Timestamp.Format("2006-01-02 15:04:05"),
			row.Author,
			row.Message,
			row.Weekday,
			strconv.Itoa(row.Hour),
			strconv.Itoa(row.Words),
			strconv.Itoa(row.Letters),
		})
		if err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
