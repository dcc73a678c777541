package quiz

import "strings"

// prefectureSuffixes are checked in this order; at most one is removed.
var prefectureSuffixes = []string{"県", "都", "府", "道"}

// NormalizeName prepares a prefecture name for text comparison.
//
// It trims, drops half-width and full-width spaces, lowercases and strips one
// administrative suffix. The suffix is kept when removing it would leave a
// single character, so 京都 is stable. Normalizing twice changes nothing unless
// the input stacks suffixes (大阪府府).
func NormalizeName(name string) string {
	s := strings.TrimSpace(name)
	s = strings.NewReplacer("　", "", " ", "").Replace(s)
	s = strings.ToLower(s)

	for _, suf := range prefectureSuffixes {
		if !strings.HasSuffix(s, suf) {
			continue
		}
		stem := strings.TrimSuffix(s, suf)
		if len([]rune(stem)) >= 2 {
			s = stem
		}
		break
	}

	return s
}
