package parser

import (
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// SystemAuthor 源文件中没有作者字段时使用的作者名
const SystemAuthor = "System"

// Record 单条解析后的聊天消息
// Timestamp 不携带时区语义，统一以 UTC 标记的墙上时间保存
type Record struct {
	Timestamp time.Time
	Author    string
	Message   string
}

// Equal 结构相等
func (r Record) Equal(o Record) bool {
	return r.Timestamp.Equal(o.Timestamp) && r.Author == o.Author && r.Message == o.Message
}

// Collection 按文件顺序追加的消息集合
type Collection struct {
	records []Record
}

func NewCollection(records ...Record) *Collection {
	c := &Collection{records: make([]Record, 0, len(records))}
	c.records = append(c.records, records...)
	return c
}

// Append 追加一条消息
func (c *Collection) Append(r Record) {
	c.records = append(c.records, r)
}

func (c *Collection) Len() int {
	return len(c.records)
}

// Records 返回消息副本
func (c *Collection) Records() []Record {
	return slices.Clone(c.records)
}

// Equal 逐条比较，顺序敏感
func (c *Collection) Equal(o *Collection) bool {
	if c == nil || o == nil {
		return c == o
	}
	return slices.EqualFunc(c.records, o.records, Record.Equal)
}

// Row 表格投影的一行，附带派生列
type Row struct {
	Record
	Weekday string
	Hour    int
	Words   int
	Letters int
}

// Rows 生成表格投影
func (c *Collection) Rows() []Row {
	rows := make([]Row, 0, len(c.records))
	for _, r := range c.records {
		rows = append(rows, Row{
			Record:  r,
			Weekday: r.Timestamp.Weekday().String(),
			Hour:    r.Timestamp.Hour(),
			Words:   len(strings.Fields(r.Message)),
			Letters: utf8.RuneCountInString(r.Message),
		})
	}
	return rows
}

// Conversation 一段完整对话（按时间间隔切分）
type Conversation struct {
	Records []Record
	StartAt time.Time
	EndAt   time.Time
}

// Conversations 按时间间隔切分对话片段，少于 minMessages 条的片段被丢弃
// 切分基于按时间排序的副本，集合本身保持文件顺序（Meta 导出是倒序的）
func (c *Collection) Conversations(gap time.Duration, minMessages int) []Conversation {
	if len(c.records) == 0 {
		return nil
	}

	records := slices.Clone(c.records)
	slices.SortStableFunc(records, func(a, b Record) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	var conversations []Conversation
	current := Conversation{StartAt: records[0].Timestamp}

	for i, r := range records {
		if i > 0 && r.Timestamp.Sub(records[i-1].Timestamp) > gap {
			current.EndAt = records[i-1].Timestamp
			if len(current.Records) >= minMessages {
				conversations = append(conversations, current)
			}
			current = Conversation{StartAt: r.Timestamp}
		}
		current.Records = append(current.Records, r)
	}

	// 最后一段
	if len(current.Records) >= minMessages {
		current.EndAt = current.Records[len(current.Records)-1].Timestamp
		conversations = append(conversations, current)
	}

	return conversations
}

// Authors 按首次出现顺序返回参与者
func (c *Conversation) Authors() []string {
	var authors []string
	for _, r := range c.Records {
		if !slices.Contains(authors, r.Author) {
			authors = append(authors, r.Author)
		}
	}
	return authors
}

// Format 将对话格式化为 "作者: 内容" 的多行文本
func (c *Conversation) Format() string {
	var b strings.Builder
	for _, r := range c.Records {
		b.WriteString(r.Author)
		b.WriteString(": ")
		b.WriteString(r.Message)
		b.WriteByte('\n')
	}
	return b.String()
}
