package services

import (
	"strings"

	"golang.org/x/text/language"
)

// normalizeLanguage reduces a caller-supplied locale tag to its base
// language ("en-US" -> "en"). Empty or unparseable tags fall back to def,
// so stored rows always carry a usable tag.
func normalizeLanguage(tag, def string) string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return def
	}
	t, err := language.Parse(tag)
	if err != nil {
		return def
	}
	base, conf := t.Base()
	if conf == language.No {
		return def
	}
	return base.String()
}
