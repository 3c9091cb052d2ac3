package export_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/petasbytes/simplemath/internal/export"
	"github.com/petasbytes/simplemath/memory"
)

func sampleConversation() memory.Conversation {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return memory.Conversation{
		ID:        "conv-1",
		CreatedAt: ts,
		UpdatedAt: ts.Add(time.Minute),
		Messages: []memory.Message{
			{ID: "m1", Role: memory.RoleUser, Content: "画一个圆", Timestamp: ts},
			{ID: "p1", Role: memory.RoleSystem, Content: "第1轮：正在进行需求分析...", Timestamp: ts, IsProgress: true, Round: 1},
			{ID: "m2", Role: memory.RoleAssistant, Content: "analysis", Timestamp: ts, Round: 1},
			{ID: "m3", Role: memory.RoleAssistant, Content: "code below", GeneratedCode: "function setup(){}", Timestamp: ts, Round: 3},
		},
	}
}

func TestNewExporter(t *testing.T) {
	for format, ext := range map[string]string{"json": "json", "yaml": "yaml", "yml": "yaml", "md": "md", "markdown": "md"} {
		e, err := export.NewExporter(format)
		require.NoError(t, err, format)
		assert.Equal(t, ext, e.Extension())
	}
	_, err := export.NewExporter("csv")
	assert.Error(t, err)
}

func TestJSONExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&export.JSONExporter{}).Export(sampleConversation(), &buf))

	var got memory.Conversation
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "conv-1", got.ID)
	assert.Len(t, got.Messages, 4)
	assert.Equal(t, "function setup(){}", got.Messages[3].GeneratedCode)
}

func TestYAMLExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&export.YAMLExporter{}).Export(sampleConversation(), &buf))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "conv-1", doc["id"])
	assert.Contains(t, buf.String(), "generated_code: function setup(){}")
}

func TestMarkdownExporter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&export.MarkdownExporter{}).Export(sampleConversation(), &buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "# Conversation conv-1\n"))
	assert.Contains(t, out, "**用户**")
	assert.Contains(t, out, "**助手 (第3轮)**")
	assert.Contains(t, out, "```javascript\nfunction setup(){}\n```")
	assert.NotContains(t, out, "正在进行需求分析", "progress entries are skipped")
}
