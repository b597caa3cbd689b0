package summarizer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
	"github.com/nguyentantai21042004/segment-flow/internal/segment"
	"github.com/nguyentantai21042004/segment-flow/internal/transcript"
)

const (
	fontName       = "Times New Roman"
	fontSize       = 13
	titleSize      = 16
	headingSize    = 14
	transcriptSize = 11
)

var reBold = regexp.MustCompile(`\*\*(.+?)\*\*`)

// WriteDocx renders groups as a styled report: one heading per group with
// its time range, the summary, and the member segments with their labels.
func WriteDocx(title string, groups []segment.Group, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)

	for _, g := range groups {
		doc.AddParagraph("")
		heading := fmt.Sprintf("Group %d (%s - %s)", g.ID+1,
			transcript.FormatTimestamp(g.Start), transcript.FormatTimestamp(g.End))
		addStyledRun(doc.AddParagraph(""), heading, true, headingSize)

		for _, line := range strings.Split(g.Summary, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				addRichText(doc.AddParagraph(""), trimmed)
			}
		}
		if g.Source == segment.SummaryFallback {
			addStyledRun(doc.AddParagraph(""), "(summary unavailable, showing transcript excerpt)", false, transcriptSize)
		}

		for _, s := range g.Segments {
			line := fmt.Sprintf("[%s] (%s) %s", transcript.FormatTimestamp(s.Start), s.Label, strings.TrimSpace(s.Text))
			addStyledRun(doc.AddParagraph(""), line, false, transcriptSize)
		}
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	text = cleanMarkdownInline(text)
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addRichText keeps **bold** spans from model output as bold runs.
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	s = strings.TrimLeft(s, "# ")
	return s
}
