package matcher

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/specialist"
)

const (
	keywordHitScore   = 30
	keywordBaseScore  = 50
	keywordScoreCap   = 95
	keywordMaxResults = 3

	defaultSpecialistID    = 1
	defaultFallbackScore   = 70
	defaultFallbackReason  = "Recommended for general health concerns"
	matchedReasoningPrefix = "Matched based on symptoms: "
)

type keywordRule struct {
	specialistID int
	keywords     []string
	patterns     []*regexp.Regexp
}

// rule order is significant: it breaks ties between equal scores
var keywordRules = compileRules([]keywordRule{
	{specialistID: 4, keywords: []string{"heart", "chest pain", "blood pressure", "bp", "cardiac", "palpitation", "cholesterol"}},
	{specialistID: 3, keywords: []string{"skin", "rash", "acne", "itch", "hair fall", "scalp", "pimple", "eczema", "tinea", "ringworm", "fungal", "fungus"}},
	{specialistID: 2, keywords: []string{"child", "baby", "infant", "kid", "toddler", "pediatric"}},
	{specialistID: 7, keywords: []string{"headache", "migraine", "dizzy", "dizziness", "nerve", "seizure", "brain", "vertigo"}},
	{specialistID: 8, keywords: []string{"ear", "nose", "throat", "sinus", "hearing", "tinnitus", "sore throat", "cold", "cough"}},
	{specialistID: 5, keywords: []string{"bone", "joint", "muscle", "back pain", "knee", "shoulder", "fracture", "sprain", "arthritis"}},
	{specialistID: 6, keywords: []string{"period", "menstrual", "pregnancy", "pcos", "ovarian", "uterus", "vaginal", "uti", "urinary tract"}},
	{specialistID: 9, keywords: []string{"stress", "anxiety", "depression", "sleep", "insomnia", "mental", "panic", "mood"}},
	{specialistID: 10, keywords: []string{"diet", "weight", "nutrition", "obesity", "diabetes", "sugar", "food", "eating"}},
})

func compileRules(rules []keywordRule) []keywordRule {
	for i := range rules {
		rules[i].patterns = make([]*regexp.Regexp, len(rules[i].keywords))
		for j, kw := range rules[i].keywords {
			rules[i].patterns[j] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
	return rules
}

// KeywordStrategy is the deterministic offline matcher. It never fails.
type KeywordStrategy struct {
	dir *specialist.Directory
}

func NewKeywordStrategy(dir *specialist.Directory) *KeywordStrategy {
	return &KeywordStrategy{dir: dir}
}

func (s *KeywordStrategy) Name() string {
	return "keyword"
}

func (s *KeywordStrategy) Match(_ context.Context, symptoms string) ([]domain.MatchResult, error) {
	return s.match(symptoms), nil
}

func (s *KeywordStrategy) match(symptoms string) []domain.MatchResult {
	var results []domain.MatchResult

	for _, rule := range keywordRules {
		sp, ok := s.dir.Get(rule.specialistID)
		if !ok {
			continue
		}

		var hits []string
		for i, p := range rule.patterns {
			if p.MatchString(symptoms) {
				hits = append(hits, rule.keywords[i])
			}
		}
		if len(hits) == 0 {
			continue
		}

		score := min(len(hits)*keywordHitScore+keywordBaseScore, keywordScoreCap)
		results = append(results, domain.NewMatchResult(sp, score, matchedReasoningPrefix+strings.Join(hits, ", ")))
	}

	if len(results) == 0 {
		fallback, ok := s.dir.Get(defaultSpecialistID)
		if !ok {
			fallback = s.dir.First()
		}
		return []domain.MatchResult{domain.NewMatchResult(fallback, defaultFallbackScore, defaultFallbackReason)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	if len(results) > keywordMaxResults {
		results = results[:keywordMaxResults]
	}
	return results
}
