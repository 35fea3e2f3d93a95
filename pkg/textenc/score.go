package textenc

// Per-rune weights used to rank lenient decodes.
const (
	replacementPenalty = -10
	controlPenalty     = -5
	kanaBonus          = 3
	hangulBonus        = 3
	hanBonus           = 2
	latinLetterBonus   = 1
)

// score rates how plausible text is as human-written content.
func score(text string) int {
	total := 0
	for _, r := range text {
		switch {
		case r == '�':
			total += replacementPenalty
		case isControl(r):
			total += controlPenalty
		case r >= 0x3040 && r <= 0x30FF:
			total += kanaBonus
		case r >= 0xAC00 && r <= 0xD7A3:
			total += hangulBonus
		case r >= 0x4E00 && r <= 0x9FFF:
			total += hanBonus
		case r >= 0x00C0 && r <= 0x00FF && r != 0x00D7 && r != 0x00F7:
			total += latinLetterBonus
		}
	}
	return total
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r < 0x20 || (r >= 0x7F && r <= 0x9F)
}
