package telegram

import (
	"fmt"
	"strings"

	"golang-stock-proxy/internal/probe/dto"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is the Telegram limit minus a little headroom.
const MaxMessageLength = 4090

// FormatAnalysisForTelegram formats the headline of an analysis report into a Markdown string for Telegram.
// Text coming from the analysis service is escaped.
func FormatAnalysisForTelegram(result *dto.AnalysisResult, grade func(float64) string) string {
	var builder strings.Builder

	builder.WriteString("--- 📈 *Stock Analysis* ---\n\n")
	builder.WriteString(fmt.Sprintf("🏢 *%s* `%s`\n", escapeMarkdown(result.StockName), strings.ReplaceAll(result.StockCode, "`", "")))
	builder.WriteString(fmt.Sprintf("💰 *Price:* ¥%.2f (%.2f%%)\n\n", result.PriceInfo.CurrentPrice, result.PriceInfo.PriceChange))

	builder.WriteString(fmt.Sprintf("🎯 *Overall:* %.1f/100\n", result.Scores.Comprehensive))
	builder.WriteString(fmt.Sprintf("• Technical: %.1f (%s)\n", result.Scores.Technical, grade(result.Scores.Technical)))
	builder.WriteString(fmt.Sprintf("• Fundamental: %.1f (%s)\n", result.Scores.Fundamental, grade(result.Scores.Fundamental)))
	builder.WriteString(fmt.Sprintf("• Sentiment: %.1f (%s)\n\n", result.Scores.Sentiment, grade(result.Scores.Sentiment)))

	// Recommendation with icon
	var icon string
	switch {
	case strings.Contains(result.Recommendation, "买"):
		icon = "🟢"
	case strings.Contains(result.Recommendation, "卖"):
		icon = "🔴"
	default:
		icon = "🟡"
	}
	builder.WriteString(fmt.Sprintf("%s *Recommendation:* %s\n", icon, escapeMarkdown(result.Recommendation)))

	if result.FallbackUsed {
		reason := result.FallbackReason
		if reason == "" {
			reason = "n/a"
		}
		builder.WriteString(fmt.Sprintf("⚠️ *Fallback:* %s\n", escapeMarkdown(reason)))
	}

	return builder.String()
}

func escapeMarkdown(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}

// SplitMessage breaks text into parts no longer than maxLen bytes, cutting on
// line boundaries. A single line longer than maxLen is cut as is.
func SplitMessage(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var messages []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			messages = append(messages, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > maxLen {
			flush()
			cut := maxLen
			// do not split a multi-byte rune
			for cut > 0 && !isRuneStart(line[cut]) {
				cut--
			}
			messages = append(messages, line[:cut])
			line = line[cut:]
		}

		if current.Len()+len(line) > maxLen {
			flush()
		}
		current.WriteString(line)
	}
	flush()

	return messages
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
