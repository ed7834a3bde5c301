package markdown

import (
	"strings"
	"testing"
)

func TestToHTML_MarksExternalLinks(t *testing.T) {
	html := string(ToHTML("[shop](https://example.com/read)", Options{
		RootURL: "https://market.example",
	}))

	if !strings.Contains(html, `href="https://example.com/read"`) {
		t.Fatalf("expected external href, got %s", html)
	}
	if !strings.Contains(html, `target="_blank"`) {
		t.Fatalf("expected target blank, got %s", html)
	}
	if !strings.Contains(html, `rel="noopener noreferrer nofollow"`) {
		t.Fatalf("expected external rel attrs, got %s", html)
	}
}

func TestToHTML_NormalizesSameDomainAbsoluteLinks(t *testing.T) {
	html := string(ToHTML("[me](https://market.example/profile/0xabc?tab=listings#top)", Options{
		RootURL: "https://market.example/",
	}))

	if !strings.Contains(html, `href="/profile/0xabc?tab=listings#top"`) {
		t.Fatalf("expected normalized same-domain href, got %s", html)
	}
	if strings.Contains(html, `target="_blank"`) {
		t.Fatalf("did not expect target blank for same-domain links, got %s", html)
	}
}

func TestToHTML_DropsUnsafeSchemes(t *testing.T) {
	html := string(ToHTML("[click](javascript:alert(1))", Options{}))

	if strings.Contains(html, "javascript:") {
		t.Fatalf("expected javascript link to be dropped, got %s", html)
	}
	if !strings.Contains(html, `href="#"`) {
		t.Fatalf("expected placeholder href, got %s", html)
	}
}

func TestToHTML_SkipsRawHTML(t *testing.T) {
	html := string(ToHTML("hello <script>alert(1)</script>", Options{}))

	if strings.Contains(html, "<script>") {
		t.Fatalf("expected raw html to be skipped, got %s", html)
	}
}

func TestToHTML_HighlightsCodeBlocks(t *testing.T) {
	source := "```solidity\ncontract Shop {}\n```"
	html := string(ToHTML(source, Options{}))

	if !strings.Contains(html, `class="chroma"`) {
		t.Fatalf("expected chroma class for fenced code block, got %s", html)
	}
	if !strings.Contains(html, "Shop") {
		t.Fatalf("expected code content in rendered block, got %s", html)
	}
}

func TestToHTML_RendersInlineCodeClass(t *testing.T) {
	html := string(ToHTML("Send to `0xABC123` please.", Options{}))

	if !strings.Contains(html, `<code class="inline-code">0xABC123</code>`) {
		t.Fatalf("expected inline code class, got %s", html)
	}
}

func TestToHTML_EmptyInput(t *testing.T) {
	if html := ToHTML("  \n", Options{}); html != "" {
		t.Fatalf("expected empty output, got %q", html)
	}
}

func TestExcerpt_StripsMarkup(t *testing.T) {
	got := Excerpt("## Vintage **lamp**\n\n- brass\n- [details](https://example.com)", 200)

	if got != "Vintage lamp brass details" {
		t.Fatalf("unexpected excerpt %q", got)
	}
}

func TestExcerpt_TruncatesOnWordBoundary(t *testing.T) {
	got := Excerpt("alpha beta gamma delta", 12)
	if got != "alpha beta..." {
		t.Fatalf("expected graceful word truncation, got %q", got)
	}
}
