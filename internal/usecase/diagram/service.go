// Package diagram renders joined search results as a line-oriented
// flowchart description consumable by mermaid-style renderers.
package diagram

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/topiclens/internal/domain/record"
)

const (
	topicStyle = "fill:#f9f,stroke:#333,stroke-width:2px,color:#fff"
	groupStyle = "fill:#bbf,stroke:#333,stroke-width:2px,color:#000"
)

// Render produces the flowchart text for the given rows: a header line,
// then per row one edge chain owner -> topic -> group -> consumer and one
// style line each for the topic and group nodes.
func Render(rows []record.Joined) string {
	var sb strings.Builder
	sb.WriteString("flowchart LR;\n")

	for _, r := range rows {
		fmt.Fprintf(&sb, "  %s[%s] ---> %s ---> %s ---> %s[%s];\n",
			r.Owner, r.Owner, r.Topic, r.ConsumerGroup, r.ConsumerApp, r.ConsumerApp)
		fmt.Fprintf(&sb, "style %s %s;\n", r.Topic, topicStyle)
		fmt.Fprintf(&sb, "style %s %s;\n", r.ConsumerGroup, groupStyle)
	}
	return sb.String()
}
