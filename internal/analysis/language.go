package analysis

import (
	"context"
	"strings"

	"opsinsight/internal/config"
	"opsinsight/internal/workset"
)

// LanguageCount is how many employees list a language
type LanguageCount struct {
	Language string `json:"language" yaml:"language"`
	Count    int    `json:"count" yaml:"count"`
}

// LanguageResult is the output of the language analyzer
type LanguageResult struct {
	// Distribution is in order of first appearance
	Distribution []LanguageCount `json:"distribution" yaml:"distribution"`
	// Needs holds one upgrade note per employee missing English or Russian
	Needs []string `json:"needs" yaml:"needs"`
	// EnglishAndGerman lists employees who know both languages
	EnglishAndGerman []string `json:"persons_who_know" yaml:"persons_who_know"`
}

func (r *LanguageResult) AnalyzerName() string { return NameLanguage }

func (r *LanguageResult) Tables() []Table {
	dist := Table{
		Name:    "language_distribution",
		Title:   "Language Distribution:",
		Columns: []string{"language", "count"},
	}
	for _, l := range r.Distribution {
		dist.Rows = append(dist.Rows, []interface{}{l.Language, l.Count})
	}

	needs := Table{Name: "language_needs", Title: "Need Upgrade Skills:", Columns: []string{"note"}}
	for _, n := range r.Needs {
		needs.Rows = append(needs.Rows, []interface{}{n})
	}

	both := Table{Name: "language_english_german", Title: "Persons Who Know English and German:", Columns: []string{"full_name"}}
	for _, p := range r.EnglishAndGerman {
		both.Rows = append(both.Rows, []interface{}{p})
	}

	return []Table{dist, needs, both}
}

// Language analyzes the language skills of department employees
type Language struct {
	base
	ws *workset.WorkingSet
}

// NewLanguage creates a language analyzer over ws
func NewLanguage(ws *workset.WorkingSet, deps Deps) *Language {
	return &Language{base: newBase(NameLanguage, deps), ws: ws}
}

// Execute implements Analyzer
func (a *Language) Execute(ctx context.Context) (Result, error) {
	return a.run(ctx, a.compute, a.report)
}

func (a *Language) compute() (Result, error) {
	res := &LanguageResult{
		Distribution:     []LanguageCount{},
		Needs:            []string{},
		EnglishAndGerman: []string{},
	}
	index := make(map[string]int)

	for _, e := range a.ws.Employees {
		var english, russian, german bool
		for _, lang := range e.LanguageSkills {
			switch lang {
			case config.LanguageEnglish:
				english = true
			case config.LanguageRussian:
				russian = true
			case config.LanguageGerman:
				german = true
			}

			i, ok := index[lang]
			if !ok {
				i = len(res.Distribution)
				index[lang] = i
				res.Distribution = append(res.Distribution, LanguageCount{Language: lang})
			}
			res.Distribution[i].Count++
		}

		if note := upgradeNote(e.FullName, english, russian); note != "" {
			res.Needs = append(res.Needs, note)
		}
		if english && german {
			res.EnglishAndGerman = append(res.EnglishAndGerman, e.FullName)
		}
	}

	return res, nil
}

// upgradeNote names the missing languages, or returns "" when none is missing
func upgradeNote(fullName string, english, russian bool) string {
	if english && russian {
		return ""
	}
	var b strings.Builder
	b.WriteString(fullName)
	b.WriteString(". ")
	if !english {
		b.WriteString("Need upgrade english. ")
	}
	if !russian {
		b.WriteString("Need upgrade russian. ")
	}
	return strings.TrimSpace(b.String())
}

func (a *Language) report(res Result) {
	r := res.(*LanguageResult)
	rep := a.reporter()

	dist := make([]string, len(r.Distribution))
	for i, l := range r.Distribution {
		dist[i] = Sprintf("%s: %d", l.Language, l.Count)
	}

	rep.Section("LANGUAGE ANALYSIS")
	rep.Line("language distribution: {%s}", strings.Join(dist, ", "))
	rep.Line("Need upgrade skills: [%s]", strings.Join(r.Needs, ", "))
	rep.Line("Persons who know english and germany: [%s]", strings.Join(r.EnglishAndGerman, ", "))
}
