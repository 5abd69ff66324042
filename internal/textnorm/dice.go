package textnorm

// Dice is the trigram Dice coefficient of a and b over runes. Shared
// trigrams are counted as a multiset intersection.
func Dice(a, b string) float64 {
	left, right := []rune(a), []rune(b)
	if len(left) < 3 || len(right) < 3 {
		return 0
	}
	if a == b {
		return 1
	}

	counts := make(map[string]int, len(left)-2)
	for i := 0; i+3 <= len(left); i++ {
		counts[string(left[i:i+3])]++
	}
	overlap := 0
	for i := 0; i+3 <= len(right); i++ {
		gram := string(right[i : i+3])
		if counts[gram] > 0 {
			counts[gram]--
			overlap++
		}
	}
	total := (len(left) - 2) + (len(right) - 2)
	return 2 * float64(overlap) / float64(total)
}

// BestDice returns the highest Dice across every pair of left and right.
func BestDice(left, right []string) float64 {
	best := 0.0
	for _, a := range left {
		for _, b := range right {
			if score := Dice(a, b); score > best {
				best = score
			}
		}
	}
	return best
}
