package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/joe/file-inventory/internal/inventory"
	"github.com/joe/file-inventory/pkg/filesystem"
)

// Node is one directory or file in a folder tree.
type Node struct {
	Name     string
	Children map[string]*Node
}

// IsDir reports whether the node has children.
func (n *Node) IsDir() bool {
	return len(n.Children) > 0
}

// Sorted returns the children ordered by name.
func (n *Node) Sorted() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		out = append(out, child)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func (n *Node) child(name string) *Node {
	if n.Children == nil {
		n.Children = map[string]*Node{}
	}

	c, ok := n.Children[name]
	if !ok {
		c = &Node{Name: name}
		n.Children[name] = c
	}

	return c
}

// BuildTree nests record paths under their volume (drive, share or "/").
func BuildTree(records []inventory.Record) *Node {
	root := &Node{}

	for _, record := range records {
		parsed := filesystem.ParsePath(record.Path)
		node := root

		if parsed.Volume != "" {
			node = node.child(strings.TrimRight(parsed.Volume, `\/`))
		}

		for _, part := range strings.FieldsFunc(parsed.Rest, isSeparator) {
			node = node.child(part)
		}
	}

	return root
}

// RenderTree writes the tree with box-drawing connectors.
func RenderTree(w io.Writer, root *Node) error {
	return renderTree(w, root, "")
}

func renderTree(w io.Writer, node *Node, prefix string) error {
	for _, child := range node.Sorted() {
		if _, err := fmt.Fprintf(w, "%s├── %s\n", prefix, displayName(child)); err != nil {
			return fmt.Errorf("failed to write tree: %w", err)
		}

		if err := renderTree(w, child, prefix+"│   "); err != nil {
			return err
		}
	}

	return nil
}

// RenderMarkdown writes the tree as a nested markdown list.
func RenderMarkdown(w io.Writer, root *Node) error {
	if _, err := io.WriteString(w, "# Folder Structure\n\n"); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}

	return renderMarkdown(w, root, 0)
}

// WriteMarkdownFile writes the tree as Markdown to path, replacing the file.
func WriteMarkdownFile(path string, root *Node) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := RenderMarkdown(file, root); err != nil {
		_ = file.Close()

		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	return nil
}

func renderMarkdown(w io.Writer, node *Node, level int) error {
	for _, child := range node.Sorted() {
		if _, err := fmt.Fprintf(w, "%s- %s\n", strings.Repeat("  ", level), displayName(child)); err != nil {
			return fmt.Errorf("failed to write markdown: %w", err)
		}

		if err := renderMarkdown(w, child, level+1); err != nil {
			return err
		}
	}

	return nil
}

// TreeLines renders the tree into lines for paging.
func TreeLines(root *Node) []string {
	var b strings.Builder

	_ = RenderTree(&b, root)

	return strings.Split(strings.TrimSuffix(b.String(), "\n"), "\n")
}

func displayName(node *Node) string {
	name := node.Name
	if name == "" {
		name = "/"
	}

	if node.IsDir() && !strings.HasSuffix(name, "/") {
		return name + "/"
	}

	return name
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
