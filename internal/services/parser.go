package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"alfredoptarigan/resume-analyzer/internal/models"
)

const (
	SectionScores                 = "scores"
	SectionTotalScore             = "total_score"
	SectionStrengthsAndWeaknesses = "strengths_and_weaknesses"
	SectionImprovementTips        = "improvement_tips"
	SectionATSConsiderations      = "ats_considerations"
)

const (
	strengthsLabel  = "Strengths:"
	weaknessesLabel = "Weaknesses:"
)

var (
	scoreLinePattern  = regexp.MustCompile(`(.+?):\s*(\d+)/(\d+)`)
	digitsPattern     = regexp.MustCompile(`\d+`)
	tipNumberPrefix   = regexp.MustCompile(`^\d+\.\s*`)
	sectionExpression = map[string]*regexp.Regexp{}
)

func init() {
	for _, name := range []string{
		SectionScores,
		SectionTotalScore,
		SectionStrengthsAndWeaknesses,
		SectionImprovementTips,
		SectionATSConsiderations,
	} {
		sectionExpression[name] = compileSection(name)
	}
}

func compileSection(name string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?s)<` + quoted + `>(.*?)</` + quoted + `>`)
}

// Parse maps a model answer to an AnalysisResult. Every section is optional and
// a malformed section only empties its own field.
func Parse(raw string) models.AnalysisResult {
	result := models.NewAnalysisResult()

	if section, ok := ExtractSection(raw, SectionScores); ok {
		result.CategoryScores = ParseCategoryScores(section)
	}

	if section, ok := ExtractSection(raw, SectionTotalScore); ok {
		result.TotalScore = ParseTotalScore(section)
	}

	if section, ok := ExtractSection(raw, SectionStrengthsAndWeaknesses); ok {
		result.Strengths, result.Weaknesses = ParseStrengthsAndWeaknesses(section)
	}

	if section, ok := ExtractSection(raw, SectionImprovementTips); ok {
		result.ImprovementTips = ParseImprovementTips(section)
	}

	if section, ok := ExtractSection(raw, SectionATSConsiderations); ok {
		result.ATSConsiderations = section
	}

	return result
}

// ExtractSection returns the text between the first <name> and the next </name>.
func ExtractSection(raw, name string) (string, bool) {
	expr, ok := sectionExpression[name]
	if !ok {
		expr = compileSection(name)
	}

	match := expr.FindStringSubmatch(raw)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// ParseCategoryScores reads "<label>: <num>/<den>" lines into percentages.
func ParseCategoryScores(section string) models.CategoryScores {
	var scores models.CategoryScores

	for _, line := range contentLines(section) {
		match := scoreLinePattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		label := strings.TrimSpace(match[1])
		if label == "" {
			continue
		}

		numerator, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			continue
		}
		denominator, err := strconv.ParseFloat(match[3], 64)
		if err != nil || denominator == 0 {
			continue
		}

		scores.Set(label, clampPercent(math.Round(numerator/denominator*100)))
	}

	return scores
}

// ParseTotalScore takes the first run of digits on the first non-blank line.
func ParseTotalScore(section string) int {
	lines := contentLines(section)
	if len(lines) == 0 {
		return 0
	}

	digits := digitsPattern.FindString(lines[0])
	if digits == "" {
		return 0
	}

	// An out-of-range digit run parses as +Inf and clamps to 100.
	value, err := strconv.ParseFloat(digits, 64)
	if err != nil && !math.IsInf(value, 1) {
		return 0
	}
	return clampPercent(value)
}

func ParseStrengthsAndWeaknesses(section string) (strengths, weaknesses []string) {
	strengths = []string{}
	weaknesses = []string{}

	if start := strings.Index(section, strengthsLabel); start != -1 {
		span := section[start+len(strengthsLabel):]
		if end := strings.Index(span, weaknessesLabel); end != -1 {
			span = span[:end]
		}
		strengths = dashBullets(span)
	}

	if start := strings.Index(section, weaknessesLabel); start != -1 {
		weaknesses = dashBullets(section[start+len(weaknessesLabel):])
	}

	return strengths, weaknesses
}

func ParseImprovementTips(section string) []string {
	tips := []string{}
	for _, line := range contentLines(section) {
		tip := strings.TrimSpace(tipNumberPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if tip == "" {
			continue
		}
		tips = append(tips, tip)
	}
	return tips
}

func dashBullets(span string) []string {
	bullets := []string{}
	for _, line := range contentLines(span) {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") {
			continue
		}
		item := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
		if item == "" {
			continue
		}
		bullets = append(bullets, item)
	}
	return bullets
}

// contentLines splits on newlines and drops whitespace-only lines.
func contentLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func clampPercent(value float64) int {
	switch {
	case math.IsNaN(value) || value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return int(value)
	}
}
