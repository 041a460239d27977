package triage

import "go-triage/types"

// Canned moderator responses, keyed by language then situation. The default
// language path reuses the Russian copy.
var responseTemplates = map[types.LanguageTag]map[string]string{
	types.LangRussian: {
		"profanity": "Мы удалили ваш комментарий за нарушение правил сообщества. Пожалуйста, будьте вежливы.",
		"negative":  "Сожалеем, что у вас сложилось такое впечатление. Мы передали ваш отзыв команде для улучшения нашего сервиса.",
		"positive":  "Спасибо за ваш положительный отзыв! Мы рады, что вам понравилось.",
		"default":   "Благодарим за ваш комментарий.",
	},
	types.LangKazakh: {
		"profanity": "Қауымдастық ережелерін бұзғаныңыз үшін сіздің пікіріңіз жойылды. Сыпайы болыңыз.",
		"negative":  "Сізде осындай әсер қалғанына өкінеміз. Қызметімізді жақсарту үшін пікіріңізді командаға жолдадық.",
		"positive":  "Оң пікіріңіз үшін рахмет! Сізге ұнағанына қуаныштымыз.",
		"default":   "Пікіріңіз үшін рахмет.",
	},
}

// SuggestedResponse drafts the moderator reply for an analyzed comment. A
// question with a knowledge-base answer gets that answer; otherwise the
// reply follows profanity > negative > positive > default precedence.
func SuggestedResponse(result *types.AnalysisResult) string {
	if result.IsQuestion && result.Answer != "" {
		return result.Answer
	}

	templates, ok := responseTemplates[result.Language]
	if !ok {
		templates = responseTemplates[types.LangRussian]
	}

	switch {
	case result.HasProfanity:
		return templates["profanity"]
	case result.SentimentLabel == types.LabelNegative:
		return templates["negative"]
	case result.SentimentLabel == types.LabelPositive:
		return templates["positive"]
	default:
		return templates["default"]
	}
}
