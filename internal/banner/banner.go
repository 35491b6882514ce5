// Package banner prints the issue and motd files around a login. Files
// are optional: a path that does not exist is silently skipped. A motd
// written in markdown (a .md path) is rendered to plain terminal text
// with bold headings instead of being copied raw.
package banner

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Show writes the banner file at path to w. A missing file is not an
// error; any other read failure is.
func Show(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	if strings.HasSuffix(path, ".md") {
		src, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		return renderMarkdown(w, src)
	}
	_, err = io.Copy(w, f)
	return err
}

// renderMarkdown walks the parsed document and emits terminal text:
// headings bold, paragraphs as-is, list items with a dash. Markup the
// walk does not recognize falls back to its plain text content.
func renderMarkdown(w io.Writer, src []byte) error {
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))
	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindHeading:
			fmt.Fprintf(w, "\x1B[1m%s\x1B[0m\n\n", nodeText(n, src))
			return ast.WalkSkipChildren, nil
		case ast.KindParagraph:
			if n.Parent() != nil && n.Parent().Kind() == ast.KindListItem {
				return ast.WalkContinue, nil
			}
			fmt.Fprintf(w, "%s\n\n", nodeText(n, src))
			return ast.WalkSkipChildren, nil
		case ast.KindListItem:
			fmt.Fprintf(w, "  - %s\n", nodeText(n, src))
			return ast.WalkSkipChildren, nil
		case ast.KindThematicBreak:
			fmt.Fprintln(w, strings.Repeat("-", 40))
		}
		return ast.WalkContinue, nil
	})
}

// nodeText collects the raw text under a node, joining soft line breaks
// with single spaces.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}
