package parser

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacebookParser(t *testing.T) {
	export := `{
  "participants": [{"name": "Alice"}, {"name": "Bob"}],
  "messages": [
    {"sender_name": "Alice", "timestamp_ms": 1672650000000, "content": "CafÃ© later?"},
    {"sender_name": "Bob", "timestamp_ms": 1672650060000, "type": "Share", "share": {"link": "https://example.com/menu"}},
    {"sender_name": "Bob", "timestamp_ms": 1672650120000, "sticker": {"uri": "messages/stickers/369239263222822.png"}},
    {"sender_name": "Alice", "timestamp_ms": 1672650180000, "photos": [{"uri": "a.jpg"}]},
    {"sender_name": "Alice", "timestamp_ms": 1672650240000, "content": "Café is fine too"}
  ]
}`
	res, err := NewFacebookParser(Options{Location: time.UTC}).Parse(context.Background(), strings.NewReader(export))
	require.NoError(t, err)

	want := NewCollection(
		Record{time.Date(2023, 1, 2, 9, 0, 0, 0, time.UTC), "Alice", "Café later?"},
		Record{time.Date(2023, 1, 2, 9, 1, 0, 0, time.UTC), "Bob", "https://example.com/menu"},
		Record{time.Date(2023, 1, 2, 9, 2, 0, 0, time.UTC), "Bob", "messages/stickers/369239263222822.png"},
		Record{time.Date(2023, 1, 2, 9, 4, 0, 0, time.UTC), "Alice", "Café is fine too"},
	)
	assert.True(t, want.Equal(res.Records), "got %+v", res.Records.Records())

	d := findDiagnostic(t, res.Diagnostics, KindUnknownFormat)
	assert.Equal(t, 3, d.Index)
	assert.Contains(t, d.Raw, "photos")
}

func TestFacebookParser_NewestFirstConversations(t *testing.T) {
	export := `{
  "messages": [
    {"sender_name": "Bob", "timestamp_ms": 1672678800000, "content": "evening"},
    {"sender_name": "Alice", "timestamp_ms": 1672664460000, "content": "on my way"},
    {"sender_name": "Bob", "timestamp_ms": 1672664400000, "content": "lunch?"},
    {"sender_name": "Alice", "timestamp_ms": 1672653600000, "content": "morning"},
    {"sender_name": "Bob", "timestamp_ms": 1672653300000, "content": "hi"}
  ]
}`
	res, err := NewFacebookParser(Options{Location: time.UTC}).Parse(context.Background(), strings.NewReader(export))
	require.NoError(t, err)
	require.Equal(t, 5, res.Records.Len())
	assert.Equal(t, "evening", res.Records.Records()[0].Message)

	convs := res.Records.Conversations(30*time.Minute, 1)
	require.Len(t, convs, 3)

	assert.Equal(t, time.Date(2023, 1, 2, 9, 55, 0, 0, time.UTC), convs[0].StartAt)
	assert.Equal(t, time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC), convs[0].EndAt)
	assert.Equal(t, "Bob: hi\nAlice: morning\n", convs[0].Format())

	assert.Equal(t, time.Date(2023, 1, 2, 13, 0, 0, 0, time.UTC), convs[1].StartAt)
	assert.Equal(t, time.Date(2023, 1, 2, 13, 1, 0, 0, time.UTC), convs[1].EndAt)

	assert.Equal(t, time.Date(2023, 1, 2, 17, 0, 0, 0, time.UTC), convs[2].StartAt)
	assert.Equal(t, convs[2].StartAt, convs[2].EndAt)
}

func TestInstagramParser(t *testing.T) {
	export := `{
  "messages": [
    {"sender_name": "Alice", "timestamp_ms": 1672650000000, "content": "hey"},
    {"sender_name": "Bob", "timestamp_ms": 1672650060000, "content": "Bob liked a message"},
    {"sender_name": "Bob", "timestamp_ms": 1672650120000, "share": {"link": "https://instagram.com/p/1"}},
    {"sender_name": "Alice", "timestamp_ms": 1672650180000, "photos": [{"uri": "a.jpg"}]},
    {"sender_name": "Alice", "timestamp_ms": 1672650240000, "videos": [{"uri": "a.mp4"}]},
    {"sender_name": "Bob", "timestamp_ms": 1672650300000, "audio_files": [{"uri": "a.mp4"}]},
    {"sender_name": "Bob", "timestamp_ms": 1672650360000, "reactions": [{"reaction": "x", "actor": "Alice"}]},
    {"sender_name": "Bob", "timestamp_ms": 1672650420000, "call_duration": 12}
  ]
}`
	res, err := NewInstagramParser(Options{Location: time.UTC}).Parse(context.Background(), strings.NewReader(export))
	require.NoError(t, err)

	var got []string
	for _, r := range res.Records.Records() {
		got = append(got, r.Author+": "+r.Message)
	}
	assert.Equal(t, []string{
		"Alice: hey",
		"Bob: sentshare",
		"Alice: sentphoto",
		"Alice: sentvideo",
		"Bob: sentaudio",
		"Bob: disappearingmessage",
	}, got)

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, KindUnknownFormat, res.Diagnostics[0].Kind)
	assert.Equal(t, 7, res.Diagnostics[0].Index)
}

func TestMetaParser_NoMessages(t *testing.T) {
	_, err := NewFacebookParser(Options{}).Parse(context.Background(), strings.NewReader(`{"participants": []}`))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestFixLatin1(t *testing.T) {
	assert.Equal(t, "Café", fixLatin1("CafÃ©"))
	assert.Equal(t, "Café", fixLatin1("Café"))
	assert.Equal(t, "你好", fixLatin1("你好"))
	assert.Equal(t, "plain", fixLatin1("plain"))
}
