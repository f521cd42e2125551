package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/liao/chat-miner/internal/parser"
)

// TimestampLayout ISO-8601，不带时区；小数秒只在非零时输出
const TimestampLayout = "2006-01-02T15:04:05.999999999"

type jsonRecord struct {
	Timestamp string `json:"timestamp"`
	Author    string `json:"author"`
	Message   string `json:"message"`
}

func toJSON(r parser.Record) jsonRecord {
	return jsonRecord{
		Timestamp: r.Timestamp.Format(TimestampLayout),
		Author:    r.Author,
		Message:   r.Message,
	}
}

func (j jsonRecord) record() (parser.Record, error) {
	ts, err := time.Parse(TimestampLayout, j.Timestamp)
	if err != nil {
		return parser.Record{}, fmt.Errorf("parse timestamp %q: %w", j.Timestamp, err)
	}
	return parser.Record{Timestamp: ts, Author: j.Author, Message: j.Message}, nil
}

// WriteJSON 写出有序的 {timestamp, author, message} 数组
func WriteJSON(w io.Writer, c *parser.Collection) error {
	records := c.Records()
	out := make([]jsonRecord, 0, len(records))
	for _, r := range records {
		out = append(out, toJSON(r))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

// ReadJSON 读取 WriteJSON 的输出
func ReadJSON(r io.Reader) (*parser.Collection, error) {
	var in []jsonRecord
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	c := parser.NewCollection()
	for i, j := range in {
		rec, err := j.record()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		c.Append(rec)
	}
	return c, nil
}

// WriteJSONLines 每行一条记录
func WriteJSONLines(w io.Writer, c *parser.Collection) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for _, r := range c.Records() {
		if err := enc.Encode(toJSON(r)); err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
	}
	return bw.Flush()
}

// ReadJSONLines 读取 WriteJSONLines 的输出，空行跳过
func ReadJSONLines(r io.Reader) (*parser.Collection, error) {
	c := parser.NewCollection()
	dec := json.NewDecoder(r)
	for i := 0; ; i++ {
		var j jsonRecord
		err := dec.Decode(&j)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		rec, err := j.record()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		c.Append(rec)
	}
	return c, nil
}
