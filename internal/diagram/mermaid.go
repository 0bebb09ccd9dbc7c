package diagram

import (
	"fmt"
	"strings"
)

// RenderMermaid renders a Model as a Mermaid flowchart string.
func RenderMermaid(model *Model) string {
	var b strings.Builder

	b.WriteString("graph TD\n")

	// Title as comment.
	if model.Title != "" {
		b.WriteString(fmt.Sprintf("    %%%% %s\n", model.Title))
	}

	for _, node := range model.Nodes {
		writeNode(&b, node, "    ")
	}

	for _, edge := range model.Edges {
		writeEdge(&b, edge, "    ")
	}

	return b.String()
}

// writeNode renders a node definition plus subgraphs for its zones.
func writeNode(b *strings.Builder, node *Node, indent string) {
	b.WriteString(fmt.Sprintf("%s%s\n", indent, mermaidNodeDef(node)))

	for _, sg := range node.Children {
		b.WriteString(fmt.Sprintf("%ssubgraph %s[\"%s\"]\n",
			indent, mermaidSafeID(node.ID+"_"+sg.Label), sg.Label))
		for _, subNode := range sg.Nodes {
			writeNode(b, subNode, indent+"    ")
		}
		for _, edge := range sg.Edges {
			writeEdge(b, edge, indent+"    ")
		}
		b.WriteString(indent + "end\n")
	}
}

func writeEdge(b *strings.Builder, edge Edge, indent string) {
	label := ""
	if edge.Label != "" {
		label = fmt.Sprintf("|%s|", edge.Label)
	}
	b.WriteString(fmt.Sprintf("%s%s -->%s %s\n",
		indent, mermaidSafeID(edge.From), label, mermaidSafeID(edge.To)))
}

// mermaidNodeDef returns a Mermaid node definition with the appropriate shape.
func mermaidNodeDef(node *Node) string {
	id := mermaidSafeID(node.ID)
	label := firstLine(node.Label)

	switch node.Kind {
	case NodeKindCondition:
		return fmt.Sprintf("%s{%q}", id, label)
	case NodeKindForEach, NodeKindWhile:
		return fmt.Sprintf("%s[[%q]]", id, label)
	case NodeKindTryCatch:
		return fmt.Sprintf("%s([%q])", id, label)
	case NodeKindFunction:
		return fmt.Sprintf("%s{{%q}}", id, label)
	case NodeKindStart, NodeKindEnd:
		return fmt.Sprintf("%s((%q))", id, label)
	default: // command
		return fmt.Sprintf("%s[%q]", id, label)
	}
}

// mermaidSafeID converts a node ID to a Mermaid-safe identifier.
// Replaces dots, dashes, colons, and spaces with underscores.
func mermaidSafeID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", " ", "_", ":", "_")
	return r.Replace(id)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
