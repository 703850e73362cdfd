package services

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"alfredoptarigan/resume-analyzer/internal/models"
)

// RenderReport writes a plain-text view of a parsed analysis. When nothing
// structured was recovered it writes the raw answer instead.
func RenderReport(w io.Writer, raw string, result models.AnalysisResult) error {
	if !result.HasStructuredContent() {
		_, err := fmt.Fprintf(w, "Analysis\n\n%s\n", strings.TrimSpace(raw))
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Overall score: %d/100 (%s)\n\n", result.TotalScore, result.Rating())

	if result.CategoryScores.Len() > 0 {
		b.WriteString("Category scores\n")
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		for _, entry := range result.CategoryScores.Entries() {
			fmt.Fprintf(tw, "  %s\t%d%%\t%s\n", entry.Name, entry.Score, models.RatingFor(entry.Score))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("failed to render scores: %w", err)
		}
		b.WriteString("\n")
	}

	writeList(&b, "Strengths", "-", result.Strengths)
	writeList(&b, "Weaknesses", "-", result.Weaknesses)
	writeList(&b, "Improvement tips", "", result.ImprovementTips)

	if ats := strings.TrimSpace(result.ATSConsiderations); ats != "" {
		fmt.Fprintf(&b, "ATS considerations\n%s\n", ats)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeList(b *strings.Builder, title, bullet string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(title)
	b.WriteString("\n")
	for i, item := range items {
		marker := bullet
		if marker == "" {
			marker = fmt.Sprintf("%d.", i+1)
		}
		fmt.Fprintf(b, "  %s %s\n", marker, item)
	}
	b.WriteString("\n")
}
