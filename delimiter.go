package catalog

// delimiterCandidates is the order in which DetectDelimiter tries delimiters.
// Earlier candidates win ties.
var delimiterCandidates = []rune{csvDelimiter, semicolonDelimiter, tsvDelimiter, pipeDelimiter}

// detectPreviewRecords is how many records DetectDelimiter inspects.
const detectPreviewRecords = 10

// DetectDelimiter guesses the field delimiter of text.
//
// Every candidate tokenizes the first records of text. A candidate qualifies
// when its header splits into at least two fields; among qualifying
// candidates the one whose record widths deviate least from the header width
// is chosen, and on equal deviation the wider split wins. Blank lines are not
// counted. When nothing qualifies the comma is returned.
func DetectDelimiter(text string) rune {
	best := rune(csvDelimiter)
	bestDelta, bestWidth := -1, 0

	for _, candidate := range delimiterCandidates {
		records := Tokenize(text, candidate)
		if len(records) > detectPreviewRecords {
			records = records[:detectPreviewRecords]
		}

		width := len(records[0])
		if width < 2 {
			continue
		}

		delta := 0
		for _, r := range records[1:] {
			if isBlank(r) {
				continue
			}
			delta += abs(len(r) - width)
		}

		if bestDelta < 0 || delta < bestDelta || (delta == bestDelta && width > bestWidth) {
			best, bestDelta, bestWidth = candidate, delta, width
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
