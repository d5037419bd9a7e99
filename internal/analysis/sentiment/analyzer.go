// Package sentiment tags free text with a coarse sentiment/category/intensity
// triple using fixed Portuguese keyword lists, and provides the canned replies
// used when the completion provider is unavailable.
package sentiment

import "strings"

// Sentiment labels.
const (
	Positive = "Positivo"
	Negative = "Negativo"
	Neutral  = "Neutro"
)

// Category labels.
const (
	CategoryEmotional = "Emocional"
	CategoryWellBeing = "Bem-estar"
	CategoryAnger     = "Raiva"
	CategoryFear      = "Medo"
	CategorySurprise  = "Surpresa"
	CategoryDisgust   = "Nojo"
	CategoryGeneral   = "Geral"
)

// Intensity labels.
const (
	IntensityHigh   = "Alta"
	IntensityMedium = "Média"
	IntensityLow    = "Baixa"
)

// Result is the outcome of tagging one message.
type Result struct {
	Sentiment string `json:"sentiment"`
	Category  string `json:"category"`
	Intensity string `json:"intensity"`
}

type bucket struct {
	sentiment string
	category  string
	keywords  []string
}

// buckets are scanned in order; the first one with a matching keyword wins.
// Matching is by substring on the lower-cased text.
var buckets = []bucket{
	{Negative, CategoryEmotional, []string{"triste", "cansado", "ansioso", "deprimido", "estressado", "exausto", "preocupado"}},
	{Positive, CategoryWellBeing, []string{"feliz", "bem", "animado", "ótimo", "grato", "leve", "tranquilo"}},
	{Negative, CategoryAnger, []string{"raiva", "irritado", "furioso", "ódio", "bravo"}},
	{Negative, CategoryFear, []string{"medo", "assustado", "apavorado", "pânico", "receio"}},
	{Neutral, CategorySurprise, []string{"surpreso", "chocado", "espantado", "inesperado"}},
	{Negative, CategoryDisgust, []string{"nojo", "nojento", "repugnante", "enojado"}},
}

var (
	highIntensityMarkers   = []string{"muito", "demais"}
	mediumIntensityMarkers = []string{"um pouco"}
)

// Analyze tags text. It is deterministic and has no side effects.
func Analyze(text string) Result {
	lower := strings.ToLower(text)

	result := Result{
		Sentiment: Neutral,
		Category:  CategoryGeneral,
		Intensity: IntensityLow,
	}

	for _, b := range buckets {
		if containsAny(lower, b.keywords) {
			result.Sentiment = b.sentiment
			result.Category = b.category
			break
		}
	}

	switch {
	case containsAny(lower, highIntensityMarkers):
		result.Intensity = IntensityHigh
	case containsAny(lower, mediumIntensityMarkers):
		result.Intensity = IntensityMedium
	}

	return result
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
