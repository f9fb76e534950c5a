package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/odvcencio/gotreesitter"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var edit string
	var haltOnError bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file with the demo arithmetic grammar and dump the resulting tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			lang := demoArithmeticLanguage()
			parser := gotreesitter.NewParser(lang)
			parser.SetLogger(newCommonlogAdapter())
			parser.SetHaltOnError(haltOnError)

			tree := parser.Parse(source)
			if edit == "" {
				printTree(cmd, tree, source)
				return nil
			}

			inputEdit, newSource, err := applyEditSpec(edit, source)
			if err != nil {
				return fmt.Errorf("parse --edit: %w", err)
			}
			tree.Edit(inputEdit)

			oldLeaves := collectLeaves(tree.RootNode())
			newTree := parser.ParseIncremental(newSource, tree)
			newLeaves := collectLeaves(newTree.RootNode())

			printTree(cmd, newTree, newSource)
			printReuse(cmd, oldLeaves, newLeaves)
			return nil
		},
	}

	cmd.Flags().StringVar(&edit, "edit", "", `byte-range edit to apply before an incremental reparse, as "start:oldEnd:newText"`)
	cmd.Flags().BoolVar(&haltOnError, "halt-on-error", false, "stop at the first version that incurs error cost instead of running recovery to completion")

	return cmd
}

// applyEditSpec parses a "start:oldEnd:newText" spec into an InputEdit
// plus the resulting source buffer.
func applyEditSpec(spec string, oldSource []byte) (gotreesitter.InputEdit, []byte, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return gotreesitter.InputEdit{}, nil, fmt.Errorf(`expected "start:oldEnd:newText", got %q`, spec)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return gotreesitter.InputEdit{}, nil, fmt.Errorf("start: %w", err)
	}
	oldEnd, err := strconv.Atoi(parts[1])
	if err != nil {
		return gotreesitter.InputEdit{}, nil, fmt.Errorf("oldEnd: %w", err)
	}
	newText := parts[2]
	if start < 0 || oldEnd < start || oldEnd > len(oldSource) {
		return gotreesitter.InputEdit{}, nil, fmt.Errorf("edit range [%d,%d) out of bounds for %d-byte source", start, oldEnd, len(oldSource))
	}

	newSource := make([]byte, 0, len(oldSource)-(oldEnd-start)+len(newText))
	newSource = append(newSource, oldSource[:start]...)
	newSource = append(newSource, newText...)
	newSource = append(newSource, oldSource[oldEnd:]...)

	newEnd := start + len(newText)
	edit := gotreesitter.InputEdit{
		StartByte:   uint32(start),
		OldEndByte:  uint32(oldEnd),
		NewEndByte:  uint32(newEnd),
		StartPoint:  gotreesitter.PointAtOffset(oldSource, start),
		OldEndPoint: gotreesitter.PointAtOffset(oldSource, oldEnd),
		NewEndPoint: gotreesitter.PointAtOffset(newSource, newEnd),
	}
	return edit, newSource, nil
}

func printTree(cmd *cobra.Command, tree *gotreesitter.Tree, source []byte) {
	root := tree.RootNode()
	if root == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "(empty)")
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), sexpr(root, source))
}

func sexpr(n *gotreesitter.Node, source []byte) string {
	if n.ChildCount() == 0 {
		if n.IsMissing() {
			return fmt.Sprintf("(MISSING %q)", n.Text(source))
		}
		return strconv.Quote(n.Text(source))
	}
	var b strings.Builder
	b.WriteByte('(')
	for i := 0; i < n.ChildCount(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sexpr(n.Child(i), source))
	}
	b.WriteByte(')')
	return b.String()
}

// collectLeaves gathers every leaf in root, keyed by its byte span, so
// printReuse can report which leaves survived an incremental reparse by
// pointer identity rather than mere value equality.
func collectLeaves(root *gotreesitter.Node) map[string]*gotreesitter.Node {
	out := map[string]*gotreesitter.Node{}
	var walk func(n *gotreesitter.Node)
	walk = func(n *gotreesitter.Node) {
		if n == nil {
			return
		}
		if n.ChildCount() == 0 {
			out[fmt.Sprintf("%d:%d", n.StartByte(), n.EndByte())] = n
			return
		}
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

func printReuse(cmd *cobra.Command, oldLeaves, newLeaves map[string]*gotreesitter.Node) {
	out := cmd.OutOrStdout()
	reused := 0
	for span, newLeaf := range newLeaves {
		if oldLeaf, ok := oldLeaves[span]; ok && oldLeaf == newLeaf {
			reused++
		}
	}
	fmt.Fprintf(out, "reused %d/%d leaves by identity\n", reused, len(newLeaves))
}
