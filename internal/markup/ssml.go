// Package markup renders an ordered script into a single SSML utterance
// for the speech synthesizer. Prosody and emphasis are driven by a
// fixed tone table; user text is escaped before any wrapping.
package markup

import (
	"fmt"
	"strings"

	apperrors "github.com/dev0b1/selah-sub001/internal/errors"
	"github.com/dev0b1/selah-sub001/internal/models"
)

// ToneProsody holds the prosody attributes for one tone level.
type ToneProsody struct {
	Volume   string // signed percentage offset, e.g. "+15%"
	Rate     string // percentage of normal speaking rate, e.g. "95%"
	Emphasis string // "strong", "moderate", or "" for none
}

// toneTable is the fixed tone → prosody mapping. Built once at package
// init and read-only afterwards.
var toneTable = map[models.ToneLevel]ToneProsody{
	models.ToneLow:    {Volume: "-10%", Rate: "90%", Emphasis: ""},
	models.ToneMedium: {Volume: "+0%", Rate: "95%", Emphasis: ""},
	models.ToneHigh:   {Volume: "+15%", Rate: "100%", Emphasis: "moderate"},
	models.ToneMax:    {Volume: "+30%", Rate: "105%", Emphasis: "strong"},
}

// Pause durations after each segment. A max-tone line earns a longer
// beat before the next segment.
const (
	pauseAfterMaxMs = 600
	pauseDefaultMs  = 400
)

const (
	rootOpen  = "<speak>"
	rootClose = "</speak>"
)

// ProsodyFor returns the prosody configuration for a tone.
func ProsodyFor(tone models.ToneLevel) ToneProsody {
	return toneTable[tone]
}

// escaper rewrites the five XML-significant characters. The ampersand
// mapping must run against the raw text, so a single Replacer (which
// scans left to right without re-examining output) is exactly right.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// unescaper is the inverse of escaper, used by tests to verify the
// escaping round-trip.
var unescaper = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&apos;", "'",
	"&amp;", "&",
)

// EscapeText escapes user- or model-authored text for embedding. This
// is the only transformation applied to segment text.
func EscapeText(text string) string {
	return escaper.Replace(text)
}

// UnescapeText reverses EscapeText.
func UnescapeText(text string) string {
	return unescaper.Replace(text)
}

// ToSSML renders the ordered parts into one root-wrapped utterance.
// Each part becomes a prosody element (optionally nesting an emphasis
// element) followed by a break; text is escaped before wrapping.
func ToSSML(parts []models.MotivationPart) (string, error) {
	var b strings.Builder
	b.WriteString(rootOpen)

	for _, part := range parts {
		prosody := toneTable[part.Tone]
		text := EscapeText(part.Text)

		if prosody.Emphasis != "" {
			text = fmt.Sprintf(`<emphasis level="%s">%s</emphasis>`, prosody.Emphasis, text)
		}

		fmt.Fprintf(&b, `<prosody volume="%s" rate="%s">%s</prosody>`, prosody.Volume, prosody.Rate, text)

		pauseMs := pauseDefaultMs
		if part.Tone == models.ToneMax {
			pauseMs = pauseAfterMaxMs
		}
		fmt.Fprintf(&b, `<break time="%dms"/>`, pauseMs)
	}

	b.WriteString(rootClose)

	ssml := b.String()
	if err := validate(ssml); err != nil {
		return "", err
	}
	return ssml, nil
}

// validate checks the root nesting invariant. Unreachable given correct
// construction, but downstream synthesis cannot safely consume a
// malformed document, so the check is not optional.
func validate(ssml string) error {
	openIdx := strings.Index(ssml, rootOpen)
	closeIdx := strings.Index(ssml, rootClose)

	if openIdx < 0 || closeIdx < 0 {
		return fmt.Errorf("%w: missing speak root element", apperrors.ErrInvalidMarkup)
	}
	if openIdx >= closeIdx {
		return fmt.Errorf("%w: speak root opens after it closes", apperrors.ErrInvalidMarkup)
	}
	return nil
}
