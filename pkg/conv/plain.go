package conv

import (
	"strings"

	"github.com/inbucket/html2text"
)

// TelegramHTMLToText flattens sanitized Telegram HTML into plain text. It is
// the fallback when Telegram refuses a message's markup.
func TelegramHTMLToText(html string) string {
	text, err := html2text.FromString(html, html2text.Options{
		OmitLinks:    false,
		PrettyTables: false,
	})
	if err != nil {
		return html
	}
	return strings.TrimSpace(text)
}
