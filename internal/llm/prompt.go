package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Rrens/medical-agent/internal/domain"
)

// BuildMatchPrompt creates the triage prompt. catalog is marshaled as-is.
func BuildMatchPrompt(symptoms string, catalog any) string {
	catalogJSON, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		catalogJSON = []byte("[]")
	}

	return fmt.Sprintf(`You are a medical triage assistant. Analyze the following patient symptoms and match them with the most appropriate specialist doctors.

Patient Symptoms: %q

Available Specialists:
%s

Instructions:
1. Analyze the symptoms carefully
2. Match the symptoms to the top 3-5 most relevant specialists
3. Provide a match score (0-100) for each specialist
4. Provide a brief reasoning for each match

Return ONLY a valid JSON array in this exact format:
[
  {
    "id": 1,
    "matchScore": 95,
    "reasoning": "Brief explanation of why this specialist is recommended"
  }
]

Return ONLY the JSON array, no additional text.`, symptoms, catalogJSON)
}

// BuildSummaryPrompt creates the four-section consultation report prompt
func BuildSummaryPrompt(transcriptText string) string {
	return fmt.Sprintf(`You are an expert medical scribe. Summarize the following consultation transcript into a concise medical report.

Transcript:
%s

Structure the summary as follows:
1. **Chief Complaint**: Main reason for visit.
2. **Patient History**: Key details provided by the patient.
3. **Assessment**: Likely condition or doctor's observation.
4. **Recommended Plan**: Advice given by the AI doctor.

Keep it professional and concise.`, transcriptText)
}

// RenderTranscript renders one "role: content" line per message
func RenderTranscript(messages []domain.TranscriptEntry) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, string(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// ExtractJSONArray returns the first well-formed JSON array in content,
// or "" when the response holds none. Text after the array is ignored.
func ExtractJSONArray(content string) string {
	for offset := 0; offset < len(content); offset++ {
		i := strings.IndexByte(content[offset:], '[')
		if i < 0 {
			break
		}
		offset += i

		var raw json.RawMessage
		if err := json.NewDecoder(strings.NewReader(content[offset:])).Decode(&raw); err == nil {
			return string(raw)
		}
	}
	return ""
}
