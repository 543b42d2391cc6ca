package ingredient

import "github.com/timmy/foodlens/internal/domain"

// IsAdditive reports whether phrase contains at least one keyword as an exact,
// case-sensitive substring.
func IsAdditive(phrase string, keywords KeywordSet) bool {
	_, ok := keywords.Match(phrase)
	return ok
}

// Validate splits phrases into accepted (keyword match) and rejected ones.
// Both outputs keep input order and are never nil. Callers treat any rejected
// phrase as a failure of the whole selection; Validate itself only classifies.
func Validate(phrases []string, keywords KeywordSet) domain.ValidationResult {
	result := domain.ValidationResult{
		Accepted: make([]string, 0, len(phrases)),
		Rejected: make([]string, 0),
	}
	for _, p := range phrases {
		if IsAdditive(p, keywords) {
			result.Accepted = append(result.Accepted, p)
		} else {
			result.Rejected = append(result.Rejected, p)
		}
	}
	return result
}
