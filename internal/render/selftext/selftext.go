// Package selftext turns a post's self-text into terminal lines. Reddit ships
// the body twice: as markdown and as entity-escaped HTML; the HTML form is
// preferred because its structure is already resolved.
package selftext

import (
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/yhat/scrape"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/glabrego/reddit-cli/internal/reddit"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#b4befe"))
	quoteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fab387"))
	linkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Faint(true)
)

// Lines renders the post body wrapped to width. It returns nil for posts
// without self-text.
func Lines(post reddit.Post, width int) []string {
	if raw := strings.TrimSpace(post.SelfTextHTML); raw != "" {
		if lines := renderHTML(raw, width); len(lines) > 0 {
			return lines
		}
	}
	text := strings.TrimSpace(html.UnescapeString(post.SelfText))
	if text == "" {
		return nil
	}
	return Wrap(text, width)
}

func parseBody(raw string) *nethtml.Node {
	raw = strings.TrimSpace(html.UnescapeString(raw))
	if raw == "" {
		return nil
	}
	doc, err := nethtml.Parse(strings.NewReader("<html><body>" + raw + "</body></html>"))
	if err != nil {
		return nil
	}
	body, ok := scrape.Find(doc, scrape.ByTag(atom.Body))
	if !ok {
		return nil
	}
	return body
}

type renderer struct {
	width int
	links map[*nethtml.Node]int
}

func renderHTML(raw string, width int) []string {
	body := parseBody(raw)
	if body == nil {
		return nil
	}
	if width < 1 {
		width = 1
	}

	anchors := scrape.FindAll(body, scrape.ByTag(atom.A))
	r := renderer{width: width, links: make(map[*nethtml.Node]int, len(anchors))}
	hrefs := make([]string, 0, len(anchors))
	for _, a := range anchors {
		href := strings.TrimSpace(scrape.Attr(a, "href"))
		if href == "" {
			continue
		}
		hrefs = append(hrefs, href)
		r.links[a] = len(hrefs)
	}

	lines := trimBlankLines(r.renderNodes(body))
	if len(lines) == 0 || len(hrefs) == 0 {
		return lines
	}
	lines = append(lines, "", headingStyle.Render("Links"))
	for i, href := range hrefs {
		prefix := fmt.Sprintf("[%d] ", i+1)
		for j, line := range Wrap(href, max(1, width-len(prefix))) {
			if j == 0 {
				lines = append(lines, prefix+linkStyle.Render(line))
				continue
			}
			lines = append(lines, strings.Repeat(" ", len(prefix))+linkStyle.Render(line))
		}
	}
	return lines
}

func (r renderer) sub(width int) renderer {
	return renderer{width: max(1, width), links: r.links}
}

func (r renderer) renderNodes(parent *nethtml.Node) []string {
	var lines []string
	inline := make([]string, 0, 4)
	flush := func() {
		text := normalizeInline(strings.Join(inline, ""))
		inline = inline[:0]
		if text != "" {
			lines = appendBlock(lines, Wrap(text, r.width))
		}
	}

	for child := parent.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case nethtml.TextNode:
			inline = append(inline, child.Data)
		case nethtml.ElementNode:
			if isBlockElement(child.DataAtom) {
				flush()
				lines = appendBlock(lines, r.renderBlock(child))
				continue
			}
			inline = append(inline, r.renderInline(child))
		}
	}
	flush()
	return lines
}

func (r renderer) renderBlock(node *nethtml.Node) []string {
	switch node.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		text := normalizeInline(r.renderInlineChildren(node))
		return styleLines(Wrap(text, r.width), headingStyle)
	case atom.Ul, atom.Ol:
		return r.renderList(node)
	case atom.Blockquote:
		prefix := quoteStyle.Render("│ ")
		inner := trimBlankLines(r.sub(r.width - 2).renderNodes(node))
		return prefixLines(inner, prefix, prefix)
	case atom.Pre:
		out := make([]string, 0, 4)
		for _, line := range strings.Split(strings.TrimRight(collectText(node), "\n"), "\n") {
			out = append(out, "    "+codeStyle.Render(line))
		}
		return out
	case atom.Hr:
		return []string{strings.Repeat("─", min(r.width, 40))}
	case atom.Table:
		return r.renderTable(node)
	default:
		return trimBlankLines(r.renderNodes(node))
	}
}

func (r renderer) renderList(node *nethtml.Node) []string {
	var lines []string
	n := 0
	for item := node.FirstChild; item != nil; item = item.NextSibling {
		if item.Type != nethtml.ElementNode || item.DataAtom != atom.Li {
			continue
		}
		n++
		marker := "• "
		if node.DataAtom == atom.Ol {
			marker = fmt.Sprintf("%d. ", n)
		}
		pad := strings.Repeat(" ", runewidth.StringWidth(marker))
		inner := trimBlankLines(r.sub(r.width - len(pad)).renderNodes(item))
		lines = append(lines, prefixLines(inner, marker, pad)...)
	}
	return lines
}

func (r renderer) renderTable(node *nethtml.Node) []string {
	var lines []string
	for _, row := range scrape.FindAll(node, scrape.ByTag(atom.Tr)) {
		cells := make([]string, 0, 4)
		for cell := row.FirstChild; cell != nil; cell = cell.NextSibling {
			if cell.Type != nethtml.ElementNode {
				continue
			}
			cells = append(cells, normalizeInline(r.renderInlineChildren(cell)))
		}
		if len(cells) == 0 {
			continue
		}
		lines = append(lines, Wrap(strings.Join(cells, " | "), r.width)...)
	}
	return lines
}

func (r renderer) renderInlineChildren(node *nethtml.Node) string {
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(r.renderInline(child))
	}
	return b.String()
}

func (r renderer) renderInline(node *nethtml.Node) string {
	switch node.Type {
	case nethtml.TextNode:
		return node.Data
	case nethtml.ElementNode:
	default:
		return ""
	}

	switch node.DataAtom {
	case atom.Script, atom.Style, atom.Img:
		return ""
	case atom.Br:
		return "\n"
	case atom.A:
		text := strings.TrimSpace(r.renderInlineChildren(node))
		if n, ok := r.links[node]; ok {
			if text == "" {
				return fmt.Sprintf("[%d]", n)
			}
			return fmt.Sprintf("%s[%d]", text, n)
		}
		return text
	case atom.Code:
		text := strings.TrimSpace(collectText(node))
		if text == "" {
			return ""
		}
		return "`" + text + "`"
	default:
		return r.renderInlineChildren(node)
	}
}

func isBlockElement(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Ul, atom.Ol, atom.Li, atom.Blockquote, atom.Pre, atom.Hr, atom.Table:
		return true
	}
	return false
}

func normalizeInline(text string) string {
	parts := strings.Split(text, "\n")
	for i, part := range parts {
		parts[i] = strings.Join(strings.Fields(part), " ")
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func collectText(node *nethtml.Node) string {
	if node.Type == nethtml.TextNode {
		return node.Data
	}
	var b strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(collectText(child))
	}
	return b.String()
}

func appendBlock(lines, block []string) []string {
	if len(block) == 0 {
		return lines
	}
	if len(lines) > 0 && lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return append(lines, block...)
}

func prefixLines(lines []string, first, rest string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if i == 0 {
			out[i] = first + line
			continue
		}
		if line == "" {
			out[i] = strings.TrimRight(rest, " ")
			continue
		}
		out[i] = rest + line
	}
	return out
}

func styleLines(lines []string, style lipgloss.Style) []string {
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return lines
}

func trimBlankLines(lines []string) []string {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines) - 1
	for end >= start && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	if end < start {
		return nil
	}
	out := make([]string, 0, end-start+1)
	prevBlank := false
	for i := start; i <= end; i++ {
		blank := strings.TrimSpace(lines[i]) == ""
		if blank && prevBlank {
			continue
		}
		out = append(out, lines[i])
		prevBlank = blank
	}
	return out
}
