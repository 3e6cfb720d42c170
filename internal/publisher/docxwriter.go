package publisher

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	docxFont     = "Calibri"
	docxBodySize = 11
	docxColor    = "000000"
)

var (
	reHeading    = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBullet     = regexp.MustCompile(`^[\-\*]\s+(.+)$`)
	reHorizontal = regexp.MustCompile(`^(-{3,}|\*{3,}|_{3,})$`)
)

// markdownToDocx renders the summary's markdown subset (headings, bullets,
// numbered items, bold runs) into a docx document at outputPath.
func markdownToDocx(title, markdown, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || reHorizontal.MatchString(trimmed) {
			continue
		}

		switch {
		case reHeading.MatchString(trimmed):
			m := reHeading.FindStringSubmatch(trimmed)
			addStyledRun(doc.AddParagraph(""), m[2], true, headingSize(len(m[1])))
		case reBullet.MatchString(trimmed):
			m := reBullet.FindStringSubmatch(trimmed)
			addRichText(doc.AddParagraph(""), "• "+m[1])
		default:
			// numbered items keep their number as written
			addRichText(doc.AddParagraph(""), trimmed)
		}
	}

	return doc.SaveTo(outputPath)
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 14
	case 3:
		return 13
	default:
		return docxBodySize + 1
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(docxFont).Size(size).Color(docxColor)
	if bold {
		run.Bold(true)
	}
}

// addRichText splits text on **bold** spans and emits alternating runs.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(docxFont).Size(docxBodySize).Color(docxColor)
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(docxFont).Size(docxBodySize).Color(docxColor).Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	return strings.NewReplacer("**", "", "__", "", "`", "").Replace(s)
}
