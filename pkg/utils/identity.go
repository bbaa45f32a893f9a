package utils

import "strings"

// NormalizeIdentity turns a raw messaging-channel sender into the stable
// key used for every per-user storage namespace. All key construction
// must go through here so the same user always maps to the same key.
func NormalizeIdentity(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "whatsapp:")
	replacer := strings.NewReplacer("+", "", "-", "", " ", "", "(", "", ")", "")
	return replacer.Replace(s)
}
