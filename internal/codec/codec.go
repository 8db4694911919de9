// Package codec reads and writes the Netscape bookmark file format, the
// HTML-based exchange format browsers use for import/export.
package codec

import (
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/hnakamura/bmorg/internal/model"
	xhtml "golang.org/x/net/html"
)

// ErrParse is returned when the document cannot be read as bookmark markup.
var ErrParse = errors.New("malformed bookmark document")

const header = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
`

const footer = "</DL><p>\n"

// untitledFolder is the placeholder for folders whose <H3> has no text.
const untitledFolder = "Untitled"

// Parse streams a Netscape bookmark document and returns the root folder.
//
// Folders come from <H3> elements, bookmarks from <A HREF=...>; each </DL>
// pops one nesting level. The parser is lenient the way browsers are:
// unbalanced closes below the root are ignored, anchors without an HREF are
// skipped, and ADD_DATE/LAST_MODIFIED attributes are kept verbatim.
func Parse(r io.Reader) (*model.Node, error) {
	z := xhtml.NewTokenizer(r)

	root := model.NewFolder("Bookmarks")
	stack := []*model.Node{root}

	var pending *model.Node
	var text strings.Builder
	capturing := false

	for {
		switch z.Next() {
		case xhtml.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("%w: %v", ErrParse, err)
			}
			return root, nil

		case xhtml.StartTagToken:
			tok := z.Token()
			switch strings.ToLower(tok.Data) {
			case "h3":
				pending = model.NewNode(model.NewNodeParams{
					Kind:       model.KindFolder,
					AddedAt:    attr(tok, "add_date"),
					ModifiedAt: attr(tok, "last_modified"),
				})
				text.Reset()
				capturing = true
			case "a":
				href := attr(tok, "href")
				if href == "" {
					pending = nil
					continue
				}
				pending = model.NewNode(model.NewNodeParams{
					Kind:       model.KindBookmark,
					URL:        href,
					AddedAt:    attr(tok, "add_date"),
					ModifiedAt: attr(tok, "last_modified"),
				})
				pending.Icon = attr(tok, "icon")
				text.Reset()
				capturing = true
			}

		case xhtml.TextToken:
			if capturing {
				text.Write(z.Text())
			}

		case xhtml.EndTagToken:
			name, _ := z.TagName()
			switch strings.ToLower(string(name)) {
			case "h3":
				if pending != nil && pending.IsFolder() {
					title := strings.TrimSpace(text.String())
					if title == "" {
						title = untitledFolder
					}
					pending.Title = title
					top := stack[len(stack)-1]
					_ = top.Attach(pending)
					stack = append(stack, pending)
					pending = nil
				}
				capturing = false
			case "a":
				if pending != nil && pending.IsBookmark() {
					pending.Title = strings.TrimSpace(text.String())
					_ = stack[len(stack)-1].Attach(pending)
					pending = nil
				}
				capturing = false
			case "dl":
				// Never pop the synthetic root; excess closes are ignored.
				if len(stack) > 1 {
					stack = stack[:len(stack)-1]
				}
			}
		}
	}
}

// Serialize renders the tree back to Netscape bookmark HTML. Root-level
// children are written without an enclosing folder wrapper, matching the
// format browsers produce.
func Serialize(root *model.Node) string {
	var b strings.Builder
	b.WriteString(header)
	for _, ch := range root.Children() {
		if ch.IsFolder() {
			writeFolder(&b, ch, 1)
		} else {
			writeBookmark(&b, ch, 1)
		}
	}
	b.WriteString(footer)
	return b.String()
}

func writeFolder(b *strings.Builder, n *model.Node, indent int) {
	ind := strings.Repeat("    ", indent)
	fmt.Fprintf(b, "%s<DT><H3 ADD_DATE=\"%s\" LAST_MODIFIED=\"%s\">%s</H3>\n",
		ind, esc(n.AddedAt), esc(n.ModifiedAt), esc(n.Title))
	fmt.Fprintf(b, "%s<DL><p>\n", ind)
	for _, ch := range n.Children() {
		if ch.IsFolder() {
			writeFolder(b, ch, indent+1)
		} else {
			writeBookmark(b, ch, indent+1)
		}
	}
	fmt.Fprintf(b, "%s</DL><p>\n", ind)
}

func writeBookmark(b *strings.Builder, n *model.Node, indent int) {
	ind := strings.Repeat("    ", indent)
	fmt.Fprintf(b, "%s<DT><A HREF=\"%s\" ADD_DATE=\"%s\" LAST_MODIFIED=\"%s\"",
		ind, esc(n.URL), esc(n.AddedAt), esc(n.ModifiedAt))
	if n.Icon != "" {
		fmt.Fprintf(b, " ICON=\"%s\"", esc(n.Icon))
	}
	fmt.Fprintf(b, ">%s</A>\n", esc(n.Title))
}

// esc escapes text and attribute values for the markup's special characters.
func esc(s string) string {
	return html.EscapeString(s)
}

// attr returns the value of a token attribute, case-insensitive.
func attr(tok xhtml.Token, key string) string {
	for _, a := range tok.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
