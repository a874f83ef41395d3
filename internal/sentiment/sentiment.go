// Package sentiment classifies a user utterance as neutral, angry or
// inquisitive. Anger always wins so an upset "tại sao lại tệ thế" escalates
// instead of being treated as a question.
package sentiment

import "strings"

type Sentiment string

const (
	Neutral     Sentiment = "neutral"
	Angry       Sentiment = "angry"
	Inquisitive Sentiment = "inquisitive"
)

// Standard Vietnamese complaint vocabulary plus internet slang variants.
var angerKeywords = []string{
	"bực", "tệ", "kém", "chán", "ghét", "không hài lòng", "thất vọng", "làm ăn", "kì cục", "vớ vẩn",
	"láo", "bố láo", "mất dạy", "ngu", "điên", "khùng",

	"hãm", "xu", "cà chớn", "như hạch", "như l", "vãi", "vcl", "đcm", "đkm", "vkl",
	"trầm cảm", "mệt mỏi", "xàm", "ngáo", "phèn", "chúa hề", "ôi dồi ôi", "dở hơi",
	"cay", "bực mình", "ức chế", "chán đời", "âm binh", "cùi bắp",
}

var whyKeywords = []string{
	"tại sao", "sao", "lý do", "là sao", "thế nào", "gì cơ", "what", "why",
}

// Analyze classifies text. It is a pure function over the keyword sets and is
// called on every user turn, so it does a single lowercase pass and substring
// scans only.
func Analyze(text string) Sentiment {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return Neutral
	}

	for _, kw := range angerKeywords {
		if strings.Contains(lower, kw) {
			return Angry
		}
	}
	for _, kw := range whyKeywords {
		if strings.Contains(lower, kw) {
			return Inquisitive
		}
	}
	return Neutral
}
