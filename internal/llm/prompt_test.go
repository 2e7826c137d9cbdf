package llm_test

import (
	"strings"
	"testing"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/llm"
)

func TestBuildMatchPrompt(t *testing.T) {
	catalog := []map[string]any{
		{"id": 7, "specialist": "Neurologist", "description": "Headaches and dizziness"},
	}

	prompt := llm.BuildMatchPrompt("I have a bad headache", catalog)

	mustContain := []string{
		"medical triage assistant",
		`"I have a bad headache"`,
		`"id": 7`,
		"Neurologist",
		"matchScore",
		"Return ONLY the JSON array",
	}

	for _, s := range mustContain {
		if !strings.Contains(prompt, s) {
			t.Errorf("prompt should contain %q", s)
		}
	}
}

func TestBuildSummaryPrompt(t *testing.T) {
	prompt := llm.BuildSummaryPrompt("user: my head hurts")

	mustContain := []string{
		"user: my head hurts",
		"**Chief Complaint**",
		"**Patient History**",
		"**Assessment**",
		"**Recommended Plan**",
	}

	for _, s := range mustContain {
		if !strings.Contains(prompt, s) {
			t.Errorf("summary prompt should contain %q", s)
		}
	}
}

func TestRenderTranscript(t *testing.T) {
	got := llm.RenderTranscript([]domain.TranscriptEntry{
		{Role: domain.RoleAssistant, Content: "How can I help?"},
		{Role: domain.RoleUser, Content: "Headache since Monday"},
	})

	want := "assistant: How can I help?\nuser: Headache since Monday"
	if got != want {
		t.Errorf("RenderTranscript() = %q, want %q", got, want)
	}

	if empty := llm.RenderTranscript(nil); empty != "" {
		t.Errorf("expected empty rendering, got %q", empty)
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			"bare array",
			`[{"id":1}]`,
			`[{"id":1}]`,
		},
		{
			"markdown fenced",
			"```json\n[{\"id\":7,\"matchScore\":90}]\n```",
			`[{"id":7,"matchScore":90}]`,
		},
		{
			"surrounding prose",
			"Here you go: [1, 2] thanks",
			"[1, 2]",
		},
		{
			"first of several arrays",
			"[1] and [2]",
			"[1]",
		},
		{
			"bracketed prose after array",
			"[{\"id\":7,\"matchScore\":90,\"reasoning\":\"headache\"}]\nScores are in [0, 100].",
			`[{"id":7,"matchScore":90,"reasoning":"headache"}]`,
		},
		{
			"stray bracket before array",
			"See [note: [{\"id\": 1}] done",
			`[{"id": 1}]`,
		},
		{
			"nested arrays",
			`[[1, 2], [3]] tail]`,
			`[[1, 2], [3]]`,
		},
		{
			"unterminated array",
			`[{"id": 1}`,
			"",
		},
		{
			"multiline",
			"[\n  {\"id\": 3}\n]",
			"[\n  {\"id\": 3}\n]",
		},
		{
			"no array",
			"I cannot help with that.",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := llm.ExtractJSONArray(tt.content)
			if result != tt.expected {
				t.Errorf("ExtractJSONArray() = %q, want %q", result, tt.expected)
			}
		})
	}
}
