package domain

// Specialist is a medical persona offered to the patient. Never mutated at runtime.
type Specialist struct {
	ID            int    `json:"id"`
	Name          string `json:"specialist"`
	Description   string `json:"description"`
	Image         string `json:"image"`
	PersonaPrompt string `json:"agent_prompt"`
}

// MatchResult is a scored association between symptoms and a specialist
type MatchResult struct {
	SpecialistID int    `json:"id"`
	Specialist   string `json:"specialist"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	MatchScore   int    `json:"match_score"`
	Reasoning    string `json:"reasoning"`
}

// NewMatchResult enriches a score with the specialist's display fields
func NewMatchResult(s Specialist, score int, reasoning string) MatchResult {
	return MatchResult{
		SpecialistID: s.ID,
		Specialist:   s.Name,
		Description:  s.Description,
		Image:        s.Image,
		MatchScore:   score,
		Reasoning:    reasoning,
	}
}
