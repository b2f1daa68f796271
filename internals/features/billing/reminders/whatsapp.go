package reminders

import (
	"net/url"
	"strings"
)

// NormalizePhone mengubah nomor lokal (08xx, +62 8xx) ke format internasional tanpa "+".
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case strings.HasPrefix(digits, "0"):
		return "62" + digits[1:]
	case strings.HasPrefix(digits, "8"):
		return "62" + digits
	default:
		return digits
	}
}

// WhatsAppLink: https://wa.me/<phone>?text=<pesan>. Tanpa nomor -> link pilih kontak.
func WhatsAppLink(phone, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	p := NormalizePhone(phone)
	if p == "" {
		return "https://wa.me/?text=" + escaped
	}
	return "https://wa.me/" + p + "?text=" + escaped
}
