package format

import (
	"regexp"
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseResult contains plain text and message entities
type ParseResult struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// **bold** or `code`. Code spans never cross lines.
var markupRe = regexp.MustCompile("\\*\\*(.+?)\\*\\*|`([^`\n]+)`")

// UTF16Len is the length of s in UTF-16 code units, the unit Telegram uses
// for entity offsets and lengths.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// ParseMarkdown strips **bold** and `code` markers from text and returns the
// matching Telegram entities in offset order. Any other character is kept
// as is, so user supplied titles never break a send with a parse error.
func ParseMarkdown(text string) ParseResult {
	text = strings.TrimRight(text, " \n")

	var (
		b        strings.Builder
		entities []tgbotapi.MessageEntity
		offset   int
		last     int
	)
	for _, m := range markupRe.FindAllStringSubmatchIndex(text, -1) {
		plain := text[last:m[0]]
		b.WriteString(plain)
		offset += UTF16Len(plain)

		kind, inner := "bold", ""
		if m[2] >= 0 {
			inner = text[m[2]:m[3]]
		} else {
			kind, inner = "code", text[m[4]:m[5]]
		}
		b.WriteString(inner)

		n := UTF16Len(inner)
		entities = append(entities, tgbotapi.MessageEntity{Type: kind, Offset: offset, Length: n})
		offset += n
		last = m[1]
	}
	b.WriteString(text[last:])

	return ParseResult{Text: b.String(), Entities: entities}
}

// Bold wraps s in bold markers.
func Bold(s string) string {
	return "**" + s + "**"
}

// Code wraps s in code markers.
func Code(s string) string {
	return "`" + s + "`"
}
