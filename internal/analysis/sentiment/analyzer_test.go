package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Result
	}{
		{"positive high", "Estou muito feliz hoje", Result{Positive, CategoryWellBeing, IntensityHigh}},
		{"negative low", "Hoje estou triste", Result{Negative, CategoryEmotional, IntensityLow}},
		{"negative medium", "Estou um pouco cansado", Result{Negative, CategoryEmotional, IntensityMedium}},
		{"negative beats positive", "Estou feliz mas preocupado", Result{Negative, CategoryEmotional, IntensityLow}},
		{"case insensitive", "ESTOU EXAUSTO DEMAIS", Result{Negative, CategoryEmotional, IntensityHigh}},
		{"anger", "Que raiva do meu chefe", Result{Negative, CategoryAnger, IntensityLow}},
		{"fear", "Tenho medo do escuro", Result{Negative, CategoryFear, IntensityLow}},
		{"surprise", "Fiquei surpreso com a notícia", Result{Neutral, CategorySurprise, IntensityLow}},
		{"disgust", "Que nojo", Result{Negative, CategoryDisgust, IntensityLow}},
		{"neutral", "O céu é azul", Result{Neutral, CategoryGeneral, IntensityLow}},
		{"empty", "", Result{Neutral, CategoryGeneral, IntensityLow}},
		// substring match: "bem" inside "bem-vindo"
		{"substring", "Fui bem-vindo na reunião", Result{Positive, CategoryWellBeing, IntensityLow}},
		// "também" is spelled with "bém", not "bem"
		{"accented lookalike", "Eu também", Result{Neutral, CategoryGeneral, IntensityLow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.text))
		})
	}
}

func TestAnalyze_NegativeKeywordsWithoutPositive(t *testing.T) {
	for _, word := range buckets[0].keywords {
		got := Analyze("hoje me sinto " + word)
		assert.Equal(t, Negative, got.Sentiment, word)
		assert.Equal(t, CategoryEmotional, got.Category, word)
	}
}

func TestFallbackReply(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Oi", ReplyGreeting},
		{"olá, tudo certo?", ReplyGreeting},
		{"Me ensina um exercício de respiração", ReplyBreathing},
		{"Estou ansioso", ReplyAnxiety},
		{"ando preocupado", ReplyAnxiety},
		{"xyz", ReplyRephrase},
		{"", ReplyRephrase},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FallbackReply(tt.text), tt.text)
	}
}
