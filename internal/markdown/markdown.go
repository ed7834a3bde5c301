// Package markdown renders user-written profile bios and listing
// descriptions.
package markdown

import (
	stdhtml "html"
	"html/template"
	"io"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	md "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type Options struct {
	RootURL string
}

const lastGoodBreakRatio = 0.8

var allowedLinkSchemes = map[string]struct{}{
	"":       {},
	"http":   {},
	"https":  {},
	"mailto": {},
}

var (
	markdownCodeBlockPattern  = regexp.MustCompile("(?s)```.*?```")
	markdownImagePattern      = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	markdownEmphasisPattern   = regexp.MustCompile(`(\*{1,3}|_{1,2}|~~)(.*?)(\*{1,3}|_{1,2}|~~)`)
	markdownHeadingPattern    = regexp.MustCompile(`(?m)^#{1,6}\s+(.*?)$`)
	markdownInlineCodePattern = regexp.MustCompile("`(.*?)`")
	markdownLinkPattern       = regexp.MustCompile(`\[(.*?)\]\(.*?\)`)
	markdownListPattern       = regexp.MustCompile(`(?m)^\s*(?:[-*+]|\d+\.)\s+`)
	markdownQuotePattern      = regexp.MustCompile(`(?m)^\s*>\s*(.*?)$`)
	htmlTagPattern            = regexp.MustCompile(`<[^>]*>`)
)

func ToHTML(input string, opts Options) template.HTML {
	if strings.TrimSpace(input) == "" {
		return template.HTML("")
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(input))
	normalizeLinks(doc, strings.TrimRight(strings.TrimSpace(opts.RootURL), "/"))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags | mdhtml.SkipHTML,
		RenderNodeHook: renderNodeHook,
	})

	return template.HTML(md.Render(doc, renderer))
}

func Excerpt(input string, maxChars int) string {
	if maxChars < 1 {
		return ""
	}

	clean := markdownToPlainText(input)
	if clean == "" {
		return ""
	}

	if utf8.RuneCountInString(clean) <= maxChars {
		return clean
	}

	return truncateRunes(clean, maxChars)
}

func markdownToPlainText(markdown string) string {
	text := markdown
	text = markdownCodeBlockPattern.ReplaceAllString(text, " ")
	text = markdownImagePattern.ReplaceAllString(text, " ")
	text = markdownEmphasisPattern.ReplaceAllString(text, "$2")
	text = markdownHeadingPattern.ReplaceAllString(text, "\n$1\n")
	text = markdownInlineCodePattern.ReplaceAllString(text, "$1")
	text = markdownLinkPattern.ReplaceAllString(text, "$1")
	text = markdownQuotePattern.ReplaceAllString(text, "$1")
	text = markdownListPattern.ReplaceAllString(text, "")
	text = htmlTagPattern.ReplaceAllString(text, "")

	return strings.Join(strings.Fields(text), " ")
}

func truncateRunes(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	truncateAt := maxChars
	minBreak := int(float64(maxChars) * lastGoodBreakRatio)
	for idx := maxChars - 1; idx >= minBreak; idx-- {
		if unicode.IsSpace(runes[idx]) {
			truncateAt = idx
			break
		}
	}

	truncated := strings.TrimSpace(string(runes[:truncateAt]))
	if truncated == "" {
		truncated = strings.TrimSpace(string(runes[:maxChars]))
	}

	return truncated + "..."
}

func normalizeLinks(doc ast.Node, rootURL string) {
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		switch typed := node.(type) {
		case *ast.Link:
			href, isCurrentWebsite := normalizeHref(string(typed.Destination), rootURL)
			typed.Destination = []byte(href)
			typed.AdditionalAttributes = applyLinkAttributes(typed.AdditionalAttributes, isCurrentWebsite)
		case *ast.Image:
			href, _ := normalizeHref(string(typed.Destination), rootURL)
			typed.Destination = []byte(href)
		}

		return ast.GoToNext
	})
}

// normalizeHref drops links with schemes outside the allow list and turns
// absolute links to this site into root-relative ones.
func normalizeHref(href string, rootURL string) (string, bool) {
	href = strings.TrimSpace(href)
	parsed, err := url.Parse(href)
	if err != nil {
		return "#", false
	}
	if _, ok := allowedLinkSchemes[strings.ToLower(parsed.Scheme)]; !ok {
		return "#", false
	}
	if parsed.Scheme == "" && parsed.Host == "" {
		return href, true
	}
	if rootURL == "" || !strings.HasPrefix(href, rootURL) {
		return href, false
	}

	normalized := parsed.Path
	if normalized == "" {
		normalized = "/"
	}
	if parsed.RawQuery != "" {
		normalized += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		normalized += "#" + parsed.Fragment
	}

	return normalized, true
}

func applyLinkAttributes(existing []string, isCurrentWebsite bool) []string {
	attrs := make([]string, 0, len(existing)+2)
	for _, attr := range existing {
		normalized := strings.ToLower(strings.TrimSpace(attr))
		if strings.HasPrefix(normalized, "target=") || strings.HasPrefix(normalized, "rel=") {
			continue
		}
		attrs = append(attrs, attr)
	}

	if !isCurrentWebsite {
		attrs = append(attrs, `target="_blank"`, `rel="noopener noreferrer nofollow"`)
	}

	return attrs
}

func renderNodeHook(writer io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	if !entering {
		return ast.GoToNext, false
	}

	switch typedNode := node.(type) {
	case *ast.CodeBlock:
		renderCodeBlock(writer, typedNode)
		return ast.SkipChildren, true
	case *ast.Code:
		renderInlineCode(writer, typedNode)
		return ast.SkipChildren, true
	default:
		return ast.GoToNext, false
	}
}

func renderCodeBlock(writer io.Writer, block *ast.CodeBlock) {
	code := string(block.Literal)
	lexer := pickLexer(codeLanguage(block.Info), code)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		renderPlainCodeBlock(writer, code)
		return
	}

	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.Format(writer, styles.Fallback, iterator); err != nil {
		renderPlainCodeBlock(writer, code)
	}
}

func renderInlineCode(writer io.Writer, code *ast.Code) {
	_, _ = io.WriteString(writer, `<code class="inline-code">`)
	_, _ = io.WriteString(writer, stdhtml.EscapeString(string(code.Literal)))
	_, _ = io.WriteString(writer, `</code>`)
}

func renderPlainCodeBlock(writer io.Writer, code string) {
	_, _ = io.WriteString(writer, `<pre class="chroma"><code>`)
	_, _ = io.WriteString(writer, stdhtml.EscapeString(code))
	_, _ = io.WriteString(writer, `</code></pre>`)
}

func pickLexer(language string, code string) chroma.Lexer {
	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return lexer
		}
	}

	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer
	}

	return lexers.Fallback
}

func codeLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}

	return strings.ToLower(fields[0])
}
