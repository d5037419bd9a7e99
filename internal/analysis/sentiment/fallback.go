package sentiment

import "strings"

const (
	ReplyGreeting  = "Olá! Como posso te ajudar hoje?"
	ReplyBreathing = "Tente: inspire 4s, segure 4s, expire 4s. Isso ajuda a acalmar a mente."
	ReplyAnxiety   = "A ansiedade pode ser difícil. Você quer me contar o que está sentindo?"
	ReplyRephrase  = "Desculpe, não consegui entender direito. Pode reformular, por favor?"
)

// FallbackReply returns a canned reply chosen by keyword, first match wins.
func FallbackReply(text string) string {
	lower := strings.ToLower(text)

	switch {
	case containsAny(lower, []string{"oi", "olá"}):
		return ReplyGreeting
	case strings.Contains(lower, "respiração"):
		return ReplyBreathing
	case containsAny(lower, []string{"ansioso", "preocupado"}):
		return ReplyAnxiety
	default:
		return ReplyRephrase
	}
}
