package selftext

import (
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/mattn/go-runewidth"

	"github.com/glabrego/reddit-cli/internal/reddit"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func plain(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ansiStrip.ReplaceAllString(line, "")
	}
	return out
}

// escaped mirrors how reddit delivers selftext_html after JSON decoding.
func escaped(raw string) string {
	return html.EscapeString("<!-- SC_OFF --><div class=\"md\">" + raw + "</div><!-- SC_ON -->")
}

func TestLines_RendersEscapedHTMLBlocks(t *testing.T) {
	post := reddit.Post{
		SelfText: "ignored when html is present",
		SelfTextHTML: escaped(
			"<h2>Intro</h2><p>First paragraph with <code>x := 1</code>.</p>" +
				"<ul><li>one</li><li>two</li></ul>" +
				"<ol><li>alpha</li><li>beta</li></ol>" +
				"<blockquote><p>quoted words</p></blockquote>" +
				"<pre><code>line one\nline two\n</code></pre><hr/>",
		),
	}

	got := plain(Lines(post, 80))
	want := []string{
		"Intro",
		"",
		"First paragraph with `x := 1`.",
		"",
		"• one",
		"• two",
		"",
		"1. alpha",
		"2. beta",
		"",
		"│ quoted words",
		"",
		"    line one",
		"    line two",
		"",
		strings.Repeat("─", 40),
	}
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Fatalf("unexpected lines:\n%s", strings.Join(diff, "\n"))
	}
}

func TestLines_NumbersLinksAndAppendsFooter(t *testing.T) {
	post := reddit.Post{SelfTextHTML: escaped(
		`<p>See <a href="https://go.dev">the site</a> and <a href="https://pkg.go.dev">docs</a>.</p>`,
	)}

	got := plain(Lines(post, 80))
	want := []string{
		"See the site[1] and docs[2].",
		"",
		"Links",
		"[1] https://go.dev",
		"[2] https://pkg.go.dev",
	}
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Fatalf("unexpected lines:\n%s", strings.Join(diff, "\n"))
	}
}

func TestLines_FallsBackToPlainSelfText(t *testing.T) {
	post := reddit.Post{SelfText: "fish &amp; chips\n\nsecond"}
	got := Lines(post, 80)
	want := []string{"fish & chips", "", "second"}
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Fatalf("unexpected lines:\n%s", strings.Join(diff, "\n"))
	}
}

func TestLines_EmptyPostHasNoLines(t *testing.T) {
	if got := Lines(reddit.Post{SelfText: "   "}, 80); got != nil {
		t.Fatalf("expected nil lines, got %#v", got)
	}
}

func TestLines_WrapsNestedBlocksToWidth(t *testing.T) {
	post := reddit.Post{SelfTextHTML: escaped(
		"<blockquote><p>aaaa bbbb cccc dddd</p></blockquote><ul><li>eeee ffff gggg</li></ul>",
	)}
	for _, line := range plain(Lines(post, 12)) {
		if w := runewidth.StringWidth(line); w > 12 {
			t.Fatalf("line %q is %d cells wide, want <= 12", line, w)
		}
	}
}
