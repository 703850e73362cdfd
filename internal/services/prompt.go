package services

import (
	"fmt"
	"strings"
	"time"
)

// ScoringCategory is one weighted part of the 100-point rubric.
type ScoringCategory struct {
	Name      string
	MaxPoints int
}

var ScoringCategories = []ScoringCategory{
	{Name: "Relevant Experience", MaxPoints: 25},
	{Name: "Education and Qualifications", MaxPoints: 20},
	{Name: "Skills Match", MaxPoints: 25},
	{Name: "Achievements and Accomplishments", MaxPoints: 15},
	{Name: "Overall Presentation and Clarity", MaxPoints: 15},
}

const fallbackNotice = `IMPORTANT NOTE: The attached resume could not be processed for its content. Provide the evaluation based on the job description, with general resume advice and best practices for this type of role. Scores should reflect a general assessment against the job requirements.`

type PromptBuilder struct {
	now func() time.Time
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{now: time.Now}
}

// BuildAnalysisPrompt creates the evaluation prompt. The resume itself travels
// as an attachment next to this text.
func (pb *PromptBuilder) BuildAnalysisPrompt(jobDescription string, fallback bool) string {
	var notice string
	if fallback {
		notice = "\n" + fallbackNotice + "\n"
	}

	return fmt.Sprintf(`You are a resume screener and hiring assistant. Your task is to evaluate a candidate's resume against a specific job description and assess the candidate's suitability for the position.
%s
First, carefully read the resume sent as an attachment.

Then review the job description for which this candidate is applying:

<job_description>
%s
</job_description>

When evaluating experience, consider the difference between today's date (%s) and the earliest reported date of employment. For example, if a candidate started working in January 2020 and today is 20 June 2025, they have 5 years of experience.

Your evaluation should be based on an aggregate score of 100 points. Score the candidate in these categories:

%s

For each category, give the points awarded out of the category maximum. Then give the total score out of 100.

Next, analyze the candidate's strengths and weaknesses as they relate to the job description. Be specific and reference particular aspects of the resume and the job requirements.

If the candidate falls short in any area, give concrete, actionable tips for improving the resume to better fit the job description.

Finally, comment on how well the resume would perform in an ATS (Applicant Tracking System) scan and suggest improvements.

Your final output must use exactly this structure:

<evaluation>
<scores>
%s
</scores>

<total_score>
[total score as a single number on the first line]
</total_score>

<strengths_and_weaknesses>
Strengths:
- [strength]
- [continue listing strengths]

Weaknesses:
- [weakness]
- [continue listing weaknesses]
</strengths_and_weaknesses>

<improvement_tips>
1. [actionable tip]
2. [continue with numbered tips, one per line]
</improvement_tips>

<ats_considerations>
[ATS-friendliness comments and suggestions]
</ats_considerations>
</evaluation>

Your evaluation should be objective, thorough and constructive.`,
		notice,
		jobDescription,
		pb.now().UTC().Format("2 January 2006"),
		formatCategoryRubric(),
		formatScoreTemplate(),
	)
}

func formatCategoryRubric() string {
	lines := make([]string, 0, len(ScoringCategories))
	for i, category := range ScoringCategories {
		lines = append(lines, fmt.Sprintf("%d. %s (0-%d points)", i+1, category.Name, category.MaxPoints))
	}
	return strings.Join(lines, "\n")
}

func formatScoreTemplate() string {
	lines := make([]string, 0, len(ScoringCategories))
	for _, category := range ScoringCategories {
		lines = append(lines, fmt.Sprintf("%s: [points]/%d", category.Name, category.MaxPoints))
	}
	return strings.Join(lines, "\n")
}
