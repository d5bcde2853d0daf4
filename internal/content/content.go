package content

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	MinExcerptLength = 20
	MaxExcerptLength = 300

	boundaryFloor = 200
	ellipsis      = "..."
)

const steamClanImageBase = "https://clan.akamai.steamstatic.com/images"

var (
	imgTagPattern     = regexp.MustCompile(`(?i)<img[^>]*>`)
	srcAttrPattern    = regexp.MustCompile(`(?i)src\s*=\s*["'][^"']*["']`)
	bareImgSrcPattern = regexp.MustCompile(`(?i)\bimg\s+src[^>\s]*[>\s]`)
	tagPattern        = regexp.MustCompile(`<[^>]*>`)

	videoBlockPattern = regexp.MustCompile(`(?i)\[previewyoutube=[^\]]*\][^\[]*\[/previewyoutube\]`)
	imgBlockPattern   = regexp.MustCompile(`(?i)\[img\][^\[]*\[/img\]`)
	bbTagPattern      = regexp.MustCompile(`\[/?\w+\]`)
	bbAttrTagPattern  = regexp.MustCompile(`\[/?\w+=[^\]]*\]`)
	clanImagePattern  = regexp.MustCompile(`\{STEAM_CLAN_(?:LOC_)?IMAGE\}`)

	imageURLPattern   = regexp.MustCompile(`(?i)https?://\S*\.(?:jpg|jpeg|png|gif|webp|bmp)\S*`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	imgBlockSourcePattern = regexp.MustCompile(`(?i)\[img\]([^\[]+)\[/img\]`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&apos;", "'",
)

// PlainText strips markup, entities, BBCode and image references from raw
// upstream text and collapses whitespace. It applies no length rules.
func PlainText(raw string) string {
	if raw == "" {
		return ""
	}

	text := imgTagPattern.ReplaceAllString(raw, "")
	text = srcAttrPattern.ReplaceAllString(text, "")
	text = bareImgSrcPattern.ReplaceAllString(text, "")
	text = tagPattern.ReplaceAllString(text, " ")

	text = entityReplacer.Replace(text)

	text = videoBlockPattern.ReplaceAllString(text, "")
	text = imgBlockPattern.ReplaceAllString(text, "")
	text = bbTagPattern.ReplaceAllString(text, "")
	text = bbAttrTagPattern.ReplaceAllString(text, "")
	text = clanImagePattern.ReplaceAllString(text, "")

	text = imageURLPattern.ReplaceAllString(text, "")

	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Excerpt returns a list-sized summary of raw: either "" when fewer than
// MinExcerptLength characters survive cleaning, or at most
// MaxExcerptLength characters plus an ellipsis.
func Excerpt(raw string) string {
	text := PlainText(raw)
	return truncate(text)
}

func truncate(text string) string {
	n := utf8.RuneCountInString(text)
	if n < MinExcerptLength {
		return ""
	}
	if n <= MaxExcerptLength {
		return text
	}
	// already an excerpt
	if n <= MaxExcerptLength+len(ellipsis) && strings.HasSuffix(text, ellipsis) {
		return text
	}

	cut := []rune(text)[:MaxExcerptLength]
	if i := lastIndexRune(cut, '.'); i > boundaryFloor {
		return string(cut[:i+1])
	}
	if i := lastIndexRune(cut, ' '); i > boundaryFloor {
		return string(cut[:i]) + ellipsis
	}
	return string(cut) + ellipsis
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// LeadImage returns the first image referenced by raw, looking at HTML img
// elements first and Steam [img] blocks second.
func LeadImage(raw string) string {
	if raw == "" {
		return ""
	}

	if strings.Contains(strings.ToLower(raw), "<img") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err == nil {
			if src, ok := doc.Find("img[src]").First().Attr("src"); ok && strings.TrimSpace(src) != "" {
				return expandClanImage(strings.TrimSpace(src))
			}
		}
	}

	if m := imgBlockSourcePattern.FindStringSubmatch(raw); m != nil {
		return expandClanImage(strings.TrimSpace(m[1]))
	}
	return ""
}

func expandClanImage(src string) string {
	return clanImagePattern.ReplaceAllString(src, steamClanImageBase)
}

// ReadTime estimates reading time at 200 characters per minute, never less
// than one minute.
func ReadTime(text string) string {
	minutes := int(math.Ceil(float64(utf8.RuneCountInString(text)) / 200))
	return fmt.Sprintf("%d min read", max(1, minutes))
}
