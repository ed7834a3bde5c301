package markdown

import (
	"bytes"
	"html/template"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// Pages always sit on the dark celestial backdrop, so one dark theme is
// enough.
const chromaStyle = "dracula"

var (
	chromaCSSOnce sync.Once
	chromaCSS     template.CSS
)

// ChromaCSS returns the stylesheet for highlighted code blocks. It is built
// once per process.
func ChromaCSS() template.CSS {
	chromaCSSOnce.Do(func() {
		chromaCSS = template.CSS(buildChromaCSS(chromaStyle))
	})

	return chromaCSS
}

func buildChromaCSS(styleName string) string {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	var buffer bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buffer, style); err != nil {
		return ""
	}

	return buffer.String()
}
