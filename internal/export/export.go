package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/liao/chat-miner/internal/parser"
)

// WriteFile 按扩展名选择输出格式：.csv、.json、.jsonl
func WriteFile(path string, c *parser.Collection) error {
	var write func(io.Writer, *parser.Collection) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = WriteCSV
	case ".json":
		write = WriteJSON
	case ".jsonl", ".ndjson":
		write = WriteJSONLines
	default:
		return fmt.Errorf("unsupported output format: %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := write(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile 读取 .json 或 .jsonl 格式的记录
func ReadFile(path string) (*parser.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ReadJSON(f)
	case ".jsonl", ".ndjson":
		return ReadJSONLines(f)
	}
	return nil, fmt.Errorf("unsupported input format: %s", path)
}
