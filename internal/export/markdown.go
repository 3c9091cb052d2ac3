package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/petasbytes/simplemath/memory"
)

// MarkdownExporter writes a readable transcript. Progress entries are skipped
// and generated code is rendered as a javascript block.
type MarkdownExporter struct{}

var roleLabels = map[memory.Role]string{
	memory.RoleUser:      "用户",
	memory.RoleAssistant: "助手",
	memory.RoleSystem:    "系统",
}

func (e *MarkdownExporter) Export(c memory.Conversation, w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Conversation %s\n\n", c.ID)
	fmt.Fprintf(&b, "**Created:** %s  \n", c.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Updated:** %s  \n", c.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Messages:** %d\n\n---\n\n", len(c.Messages))

	first := true
	for _, m := range c.Messages {
		if m.IsProgress {
			continue
		}
		if !first {
			b.WriteString("---\n\n")
		}
		first = false

		label := roleLabels[m.Role]
		if label == "" {
			label = string(m.Role)
		}
		if m.Round > 0 {
			label = fmt.Sprintf("%s (第%d轮)", label, m.Round)
		}
		fmt.Fprintf(&b, "**%s** _%s_\n\n%s\n\n", label, m.Timestamp.Format(time.RFC3339), strings.TrimSpace(m.Content))
		if m.GeneratedCode != "" {
			fmt.Fprintf(&b, "```javascript\n%s\n```\n\n", m.GeneratedCode)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func (e *MarkdownExporter) Extension() string { return "md" }
