package rag

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitQuestions_BothSections(t *testing.T) {
	input := "**Questions:**\n1. What is X?\n**Non-Questions:**\n1. FYI about Y"

	questions, nonQuestions := splitQuestions(input)
	if !reflect.DeepEqual(questions, []string{"What is X?"}) {
		t.Errorf("questions = %v", questions)
	}
	if !reflect.DeepEqual(nonQuestions, []string{"FYI about Y"}) {
		t.Errorf("nonQuestions = %v", nonQuestions)
	}
}

func TestSplitQuestions_MultipleItems(t *testing.T) {
	input := "**Questions:**\n1. Who owns topic A?\n2. Who consumes topic B?\n\n" +
		"**Non-Questions:**\n1. Topic A is deprecated.\n2. Check the runbook."

	questions, nonQuestions := splitQuestions(input)
	wantQ := []string{"Who owns topic A?", "Who consumes topic B?"}
	wantN := []string{"Topic A is deprecated.", "Check the runbook."}
	if !reflect.DeepEqual(questions, wantQ) {
		t.Errorf("questions = %v, want %v", questions, wantQ)
	}
	if !reflect.DeepEqual(nonQuestions, wantN) {
		t.Errorf("nonQuestions = %v, want %v", nonQuestions, wantN)
	}
}

func TestSplitQuestions_MissingNonQuestionsHeader(t *testing.T) {
	questions, nonQuestions := splitQuestions("**Questions:**\n1. What is X?")
	if len(questions) != 0 || len(nonQuestions) != 0 {
		t.Errorf("expected both lists empty, got %v / %v", questions, nonQuestions)
	}
}

func TestSplitQuestions_DuplicatedNonQuestionsHeader(t *testing.T) {
	input := "**Questions:**\n1. Q\n**Non-Questions:**\n1. A\n**Non-Questions:**\n1. B"

	questions, nonQuestions := splitQuestions(input)
	if len(questions) != 0 || len(nonQuestions) != 0 {
		t.Errorf("expected both lists empty, got %v / %v", questions, nonQuestions)
	}
}

func TestSplitQuestions_MissingQuestionsHeader(t *testing.T) {
	input := "preamble without the first header\n**Non-Questions:**\n1. Still parsed"

	questions, nonQuestions := splitQuestions(input)
	if len(questions) != 0 {
		t.Errorf("expected no questions, got %v", questions)
	}
	if !reflect.DeepEqual(nonQuestions, []string{"Still parsed"}) {
		t.Errorf("nonQuestions = %v", nonQuestions)
	}
}

func TestSplitQuestions_BlankLinesAndWhitespace(t *testing.T) {
	input := "**Questions:**\n\n  1.   Spaced out?  \n\n**Non-Questions:**\n\n  2. Note \n"

	questions, nonQuestions := splitQuestions(input)
	if !reflect.DeepEqual(questions, []string{"Spaced out?"}) {
		t.Errorf("questions = %v", questions)
	}
	if !reflect.DeepEqual(nonQuestions, []string{"Note"}) {
		t.Errorf("nonQuestions = %v", nonQuestions)
	}
}

func TestDecompositionPrompt_ContainsHeadersAndQuery(t *testing.T) {
	prompt := decompositionPrompt("who consumes invoice-created?")
	for _, want := range []string{"who consumes invoice-created?", questionsHeader, nonQuestionsHeader} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
