package output

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// Tree characters
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// Description alignment column
	descriptionColumn = 36
)

// TreeNode represents a node in the module tree.
type TreeNode struct {
	Name        string
	Description string
	IsModule    bool
	Children    []*TreeNode
}

// RenderModuleTree renders dotted module names as a tree, one segment per
// level, with descriptions aligned in a column. A name can be both a
// module and the parent of others ("pkg" and "pkg.util").
func RenderModuleTree(rootName string, modules map[string]string) string {
	if len(modules) == 0 {
		return ""
	}

	root := &TreeNode{Name: rootName}

	for name, desc := range modules {
		current := root
		for _, part := range strings.Split(name, ".") {
			var child *TreeNode
			for _, c := range current.Children {
				if c.Name == part {
					child = c
					break
				}
			}
			if child == nil {
				child = &TreeNode{Name: part}
				current.Children = append(current.Children, child)
			}
			current = child
		}
		current.IsModule = true
		current.Description = desc
	}

	sortTree(root)

	var sb strings.Builder
	renderNode(&sb, root, "", true, true)
	return sb.String()
}

// sortTree recursively sorts children alphabetically.
func sortTree(node *TreeNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		return node.Children[i].Name < node.Children[j].Name
	})
	for _, child := range node.Children {
		sortTree(child)
	}
}

func renderNode(sb *strings.Builder, node *TreeNode, prefix string, isRoot, isLast bool) {
	if isRoot {
		sb.WriteString(StyleSummary.Render(node.Name))
		sb.WriteString("\n")
	} else {
		connector := treeEdge
		if isLast {
			connector = treeLast
		}

		name := node.Name
		if node.IsModule {
			name = StyleNoun.Render(name)
		} else {
			name = StyleDim.Render(name)
		}
		line := prefix + connector + name
		width := utf8.RuneCountInString(prefix + connector + node.Name)

		if node.Description != "" {
			padding := descriptionColumn - width
			if padding < 2 {
				padding = 2
			}
			line += strings.Repeat(" ", padding)
			line += KindStyle(node.Description).Render(node.Description)
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	for i, child := range node.Children {
		var childPrefix string
		switch {
		case isRoot:
		case isLast:
			childPrefix = prefix + treeSpace
		default:
			childPrefix = prefix + treeVert
		}
		renderNode(sb, child, childPrefix, false, i == len(node.Children)-1)
	}
}
