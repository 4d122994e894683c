package engine

import (
	"sort"
	"strings"
)

// maxEditDistance is the cutoff for wordlist candidates. Two covers the
// common typo classes: one wrong, missing, extra, or transposed pair of
// letters, twice over.
const maxEditDistance = 2

// maxSuggestions caps the returned candidate list.
const maxSuggestions = 10

type candidate struct {
	word string
	dist int
}

// suggestions ranks corrections for a misspelled word: a stored
// replacement first, then wordlist entries within maxEditDistance,
// closest first, ties broken lexically.
func suggestions(wl *wordlist, replacements map[string]string, word string) []string {
	lower := strings.ToLower(word)

	var out []string
	seen := make(map[string]struct{})

	if repl, ok := replacements[lower]; ok {
		out = append(out, repl)
		seen[strings.ToLower(repl)] = struct{}{}
	}

	target := []rune(lower)
	var cands []candidate
	for _, w := range wl.list {
		// Cheap length screen before the full distance computation.
		if abs(len(w)-len(word)) > maxEditDistance {
			continue
		}
		d := distance(target, []rune(strings.ToLower(w)), maxEditDistance)
		if d > maxEditDistance {
			continue
		}
		if _, dup := seen[strings.ToLower(w)]; dup {
			continue
		}
		cands = append(cands, candidate{word: w, dist: d})
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].word < cands[j].word
	})

	for _, c := range cands {
		if len(out) >= maxSuggestions {
			break
		}
		out = append(out, c.word)
	}
	return out
}

// distance computes the Damerau-Levenshtein distance between a and b,
// returning max+1 as soon as the distance is known to exceed max.
// Transposition support matters here: swapped-letter typos ("tset")
// must rank as one edit, not two.
func distance(a, b []rune, max int) int {
	if abs(len(a)-len(b)) > max {
		return max + 1
	}

	// rows: two previous DP rows plus the current one.
	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		best := curr[0]

		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)

			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				if t := prev2[j-2] + 1; t < curr[j] {
					curr[j] = t // transposition
				}
			}

			if curr[j] < best {
				best = curr[j]
			}
		}

		if best > max {
			return max + 1
		}

		prev2, prev, curr = prev, curr, prev2
	}

	d := prev[len(b)]
	if d > max {
		return max + 1
	}
	return d
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
