package classify

// emojiRanges approximates the Unicode Extended_Pictographic property
// as inclusive rune ranges. Go's RE2-based
// regexp package has no \p{Extended_Pictographic} class (it isn't a
// general category or script), so the ranges are checked directly
// against each rune rather than through a regexp.
var emojiRanges = [][2]rune{
	{0x2190, 0x21FF}, // arrows
	{0x2300, 0x23FF}, // misc technical (hourglass, watch, etc.)
	{0x25A0, 0x25FF}, // geometric shapes
	{0x2600, 0x27BF}, // misc symbols + dingbats
	{0x2900, 0x297F}, // supplemental arrows-B
	{0x2B00, 0x2BFF}, // misc symbols and arrows
	{0x1F000, 0x1F0FF}, // mahjong/domino/playing cards
	{0x1F100, 0x1F1FF}, // enclosed alphanumeric supplement (flags use this range too)
	{0x1F200, 0x1F2FF}, // enclosed ideographic supplement
	{0x1F300, 0x1F5FF}, // misc symbols and pictographs
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F680, 0x1F6FF}, // transport and map symbols
	{0x1F700, 0x1F77F}, // alchemical symbols
	{0x1F780, 0x1F7FF}, // geometric shapes extended
	{0x1F800, 0x1F8FF}, // supplemental arrows-C
	{0x1F900, 0x1F9FF}, // supplemental symbols and pictographs
	{0x1FA00, 0x1FA6F}, // chess symbols + extended-A
	{0x1FA70, 0x1FAFF}, // symbols and pictographs extended-A
}

// hasEmoji reports whether s contains any rune in the Extended_Pictographic
// approximation ranges.
func hasEmoji(s string) bool {
	for _, ru := range s {
		for _, rng := range emojiRanges {
			if ru >= rng[0] && ru <= rng[1] {
				return true
			}
		}
	}
	return false
}
