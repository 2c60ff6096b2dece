// In file: internal/chat/fallback.go
package chat

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dileep-u-k/cafe-gateway/internal/catalog"
)

const (
	msgGreeting = "Halo! Mau pesan apa?"
	msgColdTmpl = "Dingin ya? Enak nih minum yang hangat. Ada %s"
	msgHotTmpl  = "Panas ya? Mau yang dingin-dingin? Ada %s"
	msgMenuTmpl = "Menu yang tersedia: %s. Mau pesan yang mana?"
	msgThanks   = "Sama-sama! Selamat menikmati"
	msgApology  = "Maaf ada gangguan sistem. Coba lagi atau hubungi kasir ya"
)

var (
	// Whole words only, so "kopi hitam" and "thai tea" are not greetings.
	greetingRe = regexp.MustCompile(`(?i)\b(hal+o+|hai+|hi+|hel+o+|assalamualaikum)\b`)
	menuRe     = regexp.MustCompile(`(?i)(menu|ada apa|apa aja|list)`)
	thanksRe   = regexp.MustCompile(`(?i)(terima kasih|makasih|thanks)`)

	fallbackDrinkNames = []string{"Teh", "latte"}
)

// Fallback answers without the model. It reads only the user message, the hints and the
// ready menu, and never touches the cart. Rules are tried in order: greeting, weather
// suggestion, menu listing, thanks, apology.
func Fallback(message string, hints []Hint, ready []catalog.MenuItem) string {
	lower := strings.ToLower(message)

	if greetingRe.MatchString(lower) {
		return msgGreeting
	}

	for _, hint := range hints {
		var tmpl string
		switch hint.Type {
		case HintWeatherCold:
			tmpl = msgColdTmpl
		case HintWeatherHot:
			tmpl = msgHotTmpl
		default:
			continue
		}
		if drinks := catalog.NamesIn(ready, fallbackDrinkNames); len(drinks) > 0 {
			return fmt.Sprintf(tmpl, strings.Join(drinks, ", "))
		}
	}

	if menuRe.MatchString(lower) && len(ready) > 0 {
		return fmt.Sprintf(msgMenuTmpl, strings.Join(catalog.Names(ready), ", "))
	}

	if thanksRe.MatchString(lower) {
		return msgThanks
	}
	return msgApology
}
