// Package heuristics computes cheap rule-based flags straight from comment
// text. Nothing in here calls a model, so it keeps working when every
// model-backed service is down.
package heuristics

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go-triage/types"
)

// Signals are the rule-based flags for one comment. All flags are
// independent of each other except IsSpam, which reads HasURL.
type Signals struct {
	HasProfanity bool `json:"has_profanity"`
	HasURL       bool `json:"has_url"`
	IsQuestion   bool `json:"is_question"`
	IsSpam       bool `json:"is_spam"`
}

// Options carry the configured lists and thresholds. The caller resolves
// the per-language lists before calling Extract.
type Options struct {
	Profanity        []string
	QuestionPrefixes []string
	SpamMaxLength    int
	AllCapsRatio     float64
}

// Matches http(s) URLs, www. links, and bare domain-with-TLD mentions.
var urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+|\b[a-z0-9][a-z0-9-]*\.(?:com|org|net|io|co|me|ru|kz|info|biz|xyz)\b(?:/\S*)?)`)

// Six or more of the same rune in a row reads as keyboard mashing.
var repeatedRunPattern = regexp.MustCompile(`(.)\1{5,}`)

// Extract computes all flags for a comment text. Deterministic and
// side-effect-free.
func Extract(text string, opts Options) Signals {
	var s Signals
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return s
	}
	lower := strings.ToLower(trimmed)

	s.HasURL = urlPattern.MatchString(trimmed)

	for _, word := range opts.Profanity {
		if word != "" && strings.Contains(lower, strings.ToLower(word)) {
			s.HasProfanity = true
			break
		}
	}

	if strings.Contains(trimmed, "?") {
		s.IsQuestion = true
	} else {
		padded := " " + lower + " "
		for _, prefix := range opts.QuestionPrefixes {
			if strings.Contains(padded, " "+strings.ToLower(prefix)+" ") {
				s.IsQuestion = true
				break
			}
		}
	}

	shortWithLink := s.HasURL && utf8.RuneCountInString(trimmed) < opts.SpamMaxLength
	s.IsSpam = shortWithLink || repeatedRunPattern.MatchString(lower) || capsRatio(trimmed) >= opts.AllCapsRatio

	return s
}

// capsRatio is the share of letters that are upper case. Texts with fewer
// than six letters are too short to call shouting.
func capsRatio(text string) float64 {
	letters, upper := 0, 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters < 6 {
		return 0
	}
	return float64(upper) / float64(letters)
}

// Keyword sets for the comment type classifier. The Russian sets come from
// the moderation team's original lists; the Kazakh and English ones mirror
// them.
var (
	complaintKeywords = map[types.LanguageTag][]string{
		types.LangRussian: {"жалоба", "проблема", "не работает", "ужасно", "плохо", "недоволен", "отвратительно", "какого черта", "безобразие", "неудовлетворительно"},
		types.LangKazakh:  {"шағым", "мәселе", "жұмыс істемейді", "нашар", "өте нашар"},
		types.LangDefault: {"complaint", "problem", "broken", "terrible", "awful", "doesn't work"},
	}
	gratitudeKeywords = map[types.LanguageTag][]string{
		types.LangRussian: {"спасибо", "благодарю", "отлично", "супер", "полезно", "лучший", "круто", "прекрасно", "молодец", "уважаю", "добро", "благодарность", "хорошо"},
		types.LangKazakh:  {"рахмет", "алғыс", "тамаша", "керемет", "жарайсың"},
		types.LangDefault: {"thanks", "thank you", "great", "awesome", "helpful", "love it"},
	}
	feedbackKeywords = map[types.LanguageTag][]string{
		types.LangRussian: {"отзыв", "мнение", "комментарий", "предложение", "хотелось бы", "было бы хорошо"},
		types.LangKazakh:  {"пікір", "ұсыныс"},
		types.LangDefault: {"feedback", "suggestion", "would be nice", "my opinion"},
	}
)

// ClassifyType buckets a comment into complaint, gratitude, question,
// feedback or other. Complaints win over gratitude, gratitude over
// questions, and so on; the first matching bucket is final.
func ClassifyType(text string, lang types.LanguageTag, isQuestion bool) types.CommentType {
	padded := " " + strings.ToLower(strings.TrimSpace(text)) + " "

	if containsAny(padded, complaintKeywords[lang]) || containsAny(padded, complaintKeywords[types.LangDefault]) {
		return types.TypeComplaint
	}
	if containsAny(padded, gratitudeKeywords[lang]) || containsAny(padded, gratitudeKeywords[types.LangDefault]) {
		return types.TypeGratitude
	}
	if isQuestion {
		return types.TypeQuestion
	}
	if containsAny(padded, feedbackKeywords[lang]) || containsAny(padded, feedbackKeywords[types.LangDefault]) {
		return types.TypeFeedback
	}
	return types.TypeOther
}

func containsAny(padded string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(padded, " "+kw+" ") {
			return true
		}
	}
	return false
}
