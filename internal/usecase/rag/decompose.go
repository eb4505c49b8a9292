package rag

import (
	"regexp"
	"strings"
)

// Literal header tokens the decomposition prompt instructs the model to emit.
const (
	questionsHeader    = "**Questions:**"
	nonQuestionsHeader = "**Non-Questions:**"
)

// decompositionPrompt frames the raw query for the partitioning call.
func decompositionPrompt(query string) string {
	var sb strings.Builder
	sb.WriteString("Please split the following text into questions and non-questions:\n\n")
	sb.WriteString(query)
	sb.WriteString("\n\nList the questions under a \"Questions\" section and the non-questions " +
		"under a \"Non-Questions\" section. Format each question and non-question as a numbered " +
		"list and headers must use " + questionsHeader + " and " + nonQuestionsHeader + " :")
	return sb.String()
}

var ordinalPrefix = regexp.MustCompile(`^\s*\d+\.\s*`)

// splitQuestions parses the decomposition response. Anything other than
// exactly two parts around the Non-Questions header (header missing or
// duplicated) yields two empty lists: a defined degenerate case, not an
// error.
func splitQuestions(text string) (questions, nonQuestions []string) {
	parts := strings.Split(text, nonQuestionsHeader)
	if len(parts) != 2 {
		return nil, nil
	}

	if _, after, ok := strings.Cut(parts[0], questionsHeader); ok {
		questions = parseNumberedLines(after)
	}
	nonQuestions = parseNumberedLines(parts[1])
	return questions, nonQuestions
}

// parseNumberedLines splits into lines, drops blanks, and strips a leading
// ordinal marker plus surrounding whitespace from each line.
func parseNumberedLines(s string) []string {
	var items []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(ordinalPrefix.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		items = append(items, line)
	}
	return items
}
