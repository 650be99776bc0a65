package presenter

import "unicode/utf8"

// withParticle appends the Korean particle that fits the final syllable of
// word: withBatchim after a closing consonant, otherwise withoutBatchim.
// Non-Hangul endings take withBatchim.
func withParticle(word, withBatchim, withoutBatchim string) string {
	last, _ := utf8.DecodeLastRuneInString(word)
	if last >= 0xAC00 && last <= 0xD7A3 && (last-0xAC00)%28 == 0 {
		return word + withoutBatchim
	}
	return word + withBatchim
}
