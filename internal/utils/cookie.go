package utils

import (
	"net/url"
	"strings"
)

// ParseCookies splits a raw Cookie header into name/value pairs. Entries are
// separated by ';' and split on the first '='. Values are percent-decoded
// and trimmed. Entries whose value is the literal "undefined" (what some
// browser clients write for an unset cookie) or cannot be decoded are
// dropped. Later duplicates overwrite earlier ones.
func ParseCookies(header string) map[string]string {
	cookies := make(map[string]string)
	for _, part := range strings.Split(header, ";") {
		name, raw, _ := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		value, err := url.PathUnescape(raw)
		if err != nil {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "undefined" {
			continue
		}
		cookies[name] = value
	}
	return cookies
}
