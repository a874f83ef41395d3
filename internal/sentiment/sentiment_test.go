package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Sentiment
	}{
		{"empty", "", Neutral},
		{"whitespace only", "   ", Neutral},
		{"plain request", "Kiểm tra số dư giúp tôi", Neutral},
		{"greeting", "Xin chào", Neutral},
		{"complaint", "Dịch vụ tệ quá", Angry},
		{"complaint slang", "App như hạch, vcl", Angry},
		{"complaint business", "Làm ăn chán quá!", Angry},
		{"complaint uppercase", "QUÁ THẤT VỌNG", Angry},
		{"question why", "Tại sao tôi bị từ chối?", Inquisitive},
		{"question reason", "Lý do là gì?", Inquisitive},
		{"question english", "Why was it rejected", Inquisitive},
		{"angry question stays angry", "Tại sao dịch vụ tệ thế?", Angry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.text))
		})
	}
}
