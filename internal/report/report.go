// Package report summarizes recorded test results as Markdown.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/spotcheck/pkg/domain"
)

// StepSummary aggregates clicks on one step.
type StepSummary struct {
	StepID      string
	Order       int // 0 when the step is no longer in the catalog
	Instruction string
	Hits        int
	Misses      int
}

// HitRate returns hits over all clicks, or 0 without clicks.
func (s StepSummary) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Feedback is one questionnaire response.
type Feedback struct {
	SessionID       string
	Difficulty      int
	UnclearStep     string
	ExpectedMissing string
}

// Summary is the aggregated view of the result log.
type Summary struct {
	Sessions  int
	Completed int
	Steps     []StepSummary
	Feedback  []Feedback
}

// AverageDifficulty returns the mean questionnaire rating, or 0 without responses.
func (s Summary) AverageDifficulty() float64 {
	if len(s.Feedback) == 0 {
		return 0
	}
	sum := 0
	for _, f := range s.Feedback {
		sum += f.Difficulty
	}
	return float64(sum) / float64(len(s.Feedback))
}

// Summarize folds results into per-step counts. Steps lists the current catalog;
// clicks on steps that were deleted since are kept and sorted after it.
func Summarize(steps []domain.Step, results []domain.Result) Summary {
	byID := make(map[string]*StepSummary, len(steps))
	out := Summary{Steps: make([]StepSummary, 0, len(steps))}
	for _, st := range steps {
		out.Steps = append(out.Steps, StepSummary{StepID: st.ID, Order: st.Order, Instruction: st.Instruction})
	}
	for i := range out.Steps {
		byID[out.Steps[i].StepID] = &out.Steps[i]
	}

	sessions := map[string]bool{}
	var removed []StepSummary
	removedIdx := map[string]int{}

	for _, r := range results {
		sessions[r.SessionID] = true
		if r.IsQuestionnaire() {
			out.Completed++
			out.Feedback = append(out.Feedback, Feedback{
				SessionID:       r.SessionID,
				Difficulty:      r.Difficulty,
				UnclearStep:     r.UnclearStep,
				ExpectedMissing: r.ExpectedMissing,
			})
			continue
		}

		var target *StepSummary
		if s, ok := byID[r.StepID]; ok {
			target = s
		} else {
			i, ok := removedIdx[r.StepID]
			if !ok {
				i = len(removed)
				removedIdx[r.StepID] = i
				removed = append(removed, StepSummary{StepID: r.StepID})
			}
			target = &removed[i]
		}
		if r.Hit {
			target.Hits++
		} else {
			target.Misses++
		}
	}

	sort.Slice(removed, func(i, j int) bool { return removed[i].StepID < removed[j].StepID })
	out.Steps = append(out.Steps, removed...)
	out.Sessions = len(sessions)
	return out
}

// Markdown renders the summary as a Markdown document.
func (s Summary) Markdown() string {
	var b strings.Builder

	b.WriteString("# Spotcheck results\n\n")
	fmt.Fprintf(&b, "- Participants: %d\n", s.Sessions)
	fmt.Fprintf(&b, "- Completed: %d\n", s.Completed)
	if len(s.Feedback) > 0 {
		fmt.Fprintf(&b, "- Average difficulty: %.1f / 10\n", s.AverageDifficulty())
	}

	b.WriteString("\n## Steps\n\n")
	if len(s.Steps) == 0 {
		b.WriteString("_No steps configured._\n")
	} else {
		b.WriteString("| # | Step | Instruction | Hits | Misses | Hit rate |\n")
		b.WriteString("|---|---|---|---:|---:|---:|\n")
		for _, st := range s.Steps {
			order := "-"
			instruction := "_(removed)_"
			if st.Order > 0 {
				order = fmt.Sprint(st.Order)
				instruction = cell(st.Instruction)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %d | %.0f%% |\n",
				order, cell(st.StepID), instruction, st.Hits, st.Misses, st.HitRate()*100)
		}
	}

	b.WriteString("\n## Feedback\n\n")
	if len(s.Feedback) == 0 {
		b.WriteString("_No questionnaire responses yet._\n")
		return b.String()
	}
	b.WriteString("| Session | Difficulty | Unclear step | Expected but missing |\n")
	b.WriteString("|---|---:|---|---|\n")
	for _, f := range s.Feedback {
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n",
			cell(shortID(f.SessionID)), f.Difficulty, cell(f.UnclearStep), cell(f.ExpectedMissing))
	}
	return b.String()
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
