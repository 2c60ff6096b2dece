// In file: internal/chat/emoji.go
package chat

import (
	"strings"
	"unicode"
)

// emojiRanges are removed from model messages rune by rune.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200D, Hi: 0x200D, Stride: 1},
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1},
		{Lo: 0x2700, Hi: 0x27BF, Stride: 1},
		{Lo: 0xFE0F, Hi: 0xFE0F, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x1F1E0, Hi: 0x1F1FF, Stride: 1},
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1},
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1},
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1},
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1},
		{Lo: 0x1FA00, Hi: 0x1FA6F, Stride: 1},
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1},
	},
}

var emoticons = []string{
	":)", ":(", ":D", ":P", ";)", ":/", ":|", "XD", "xD",
	":-)", ":-(", ":-D", ":-P", ";-)", ":-/", ":-|",
	"^_^", "^-^", "^o^", "o_o", "O_O", "T_T", ">_<",
	"(:", "):", "D:", "P:", "(;", "/:", "|:",
}

// StripEmoji removes pictographic emoji and ASCII emoticons, then trims. Emoticon removal
// repeats until nothing changes, so the result is a fixed point and stripping twice is the
// same as stripping once.
func StripEmoji(text string) string {
	text = strings.Map(func(r rune) rune {
		if unicode.Is(emojiRanges, r) {
			return -1
		}
		return r
	}, text)

	for {
		before := text
		for _, e := range emoticons {
			text = strings.ReplaceAll(text, e, "")
		}
		if text == before {
			break
		}
	}
	return strings.TrimSpace(text)
}
