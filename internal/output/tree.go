package output

import (
	"slices"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "
)

type pathNode struct {
	name     string
	dir      bool
	children []*pathNode
}

func (n *pathNode) child(name string, dir bool) *pathNode {
	for _, c := range n.children {
		if c.name == name && c.dir == dir {
			return c
		}
	}
	c := &pathNode{name: name, dir: dir}
	n.children = append(n.children, c)
	return c
}

// RenderPathTree renders slash-separated paths as an indented tree, folders
// first and then files, each group sorted by name. Folder names end in "/"
// and are dimmed. Duplicate paths are rendered once.
func RenderPathTree(paths []string) string {
	if len(paths) == 0 {
		return ""
	}

	root := &pathNode{dir: true}
	for _, p := range paths {
		parts := strings.Split(strings.Trim(p, "/"), "/")
		n := root
		for i, part := range parts {
			if part == "" {
				continue
			}
			n = n.child(part, i < len(parts)-1)
		}
	}

	var sb strings.Builder
	writePathNodes(&sb, root.children, "")
	return sb.String()
}

func writePathNodes(sb *strings.Builder, nodes []*pathNode, prefix string) {
	slices.SortFunc(nodes, func(a, b *pathNode) int {
		if a.dir != b.dir {
			if a.dir {
				return -1
			}
			return 1
		}
		return strings.Compare(a.name, b.name)
	})

	for i, n := range nodes {
		connector, indent := treeEdge, treeVert
		if i == len(nodes)-1 {
			connector, indent = treeLast, treeSpace
		}

		sb.WriteString(prefix)
		sb.WriteString(StyleDim.Render(connector))
		if n.dir {
			sb.WriteString(StyleDim.Render(n.name + "/"))
		} else {
			sb.WriteString(StyleNoun.Render(n.name))
		}
		sb.WriteString("\n")

		writePathNodes(sb, n.children, prefix+StyleDim.Render(indent))
	}
}
