package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type CategoryScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// CategoryScores is an insertion-ordered mapping of category name to score.
// Setting an existing name overwrites its score in place.
type CategoryScores struct {
	entries []CategoryScore
	index   map[string]int
}

func (c *CategoryScores) Set(name string, score int) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[name]; ok {
		c.entries[i].Score = score
		return
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, CategoryScore{Name: name, Score: score})
}

func (c CategoryScores) Get(name string) (int, bool) {
	i, ok := c.index[name]
	if !ok {
		return 0, false
	}
	return c.entries[i].Score, true
}

func (c CategoryScores) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the scores in insertion order.
func (c CategoryScores) Entries() []CategoryScore {
	out := make([]CategoryScore, len(c.entries))
	copy(out, c.entries)
	return out
}

// MarshalJSON writes a JSON object whose keys keep insertion order.
func (c CategoryScores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(entry.Score)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object and keeps the key order of the document.
func (c *CategoryScores) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*c = CategoryScores{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("category scores: expected JSON object, got %v", tok)
	}

	var scores CategoryScores
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var score int
		if err := dec.Decode(&score); err != nil {
			return err
		}
		scores.Set(key, score)
	}
	*c = scores
	return nil
}

type AnalysisResult struct {
	CategoryScores    CategoryScores `json:"categoryScores"`
	TotalScore        int            `json:"totalScore"`
	Strengths         []string       `json:"strengths"`
	Weaknesses        []string       `json:"weaknesses"`
	ImprovementTips   []string       `json:"improvementTips"`
	ATSConsiderations string         `json:"atsConsiderations"`
}

// NewAnalysisResult returns an empty result whose list fields encode as [] rather than null.
func NewAnalysisResult() AnalysisResult {
	return AnalysisResult{
		Strengths:       []string{},
		Weaknesses:      []string{},
		ImprovementTips: []string{},
	}
}

const (
	RatingExcellent        = "Excellent"
	RatingGood             = "Good"
	RatingNeedsImprovement = "Needs Improvement"
)

func RatingFor(score int) string {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 60:
		return RatingGood
	default:
		return RatingNeedsImprovement
	}
}

func (r AnalysisResult) Rating() string {
	return RatingFor(r.TotalScore)
}

// HasStructuredContent reports whether any score was recovered. Without one,
// callers should show the raw model answer instead.
func (r AnalysisResult) HasStructuredContent() bool {
	return r.CategoryScores.Len() > 0 || r.TotalScore != 0
}
