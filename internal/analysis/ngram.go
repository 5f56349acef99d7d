package analysis

import (
	"sort"

	"github.com/SeamusWaldron/twisty/pkg/types"
)

// NGram represents a repeated move sequence.
type NGram struct {
	N           int               `json:"n"`
	Sequence    []string          `json:"sequence"`
	Tokens      []uint8           `json:"-"`
	Count       int               `json:"count"`
	Occurrences []NGramOccurrence `json:"occurrences,omitempty"`
}

// NGramOccurrence represents where an n-gram was found.
type NGramOccurrence struct {
	SessionID  string `json:"session_id,omitempty"`
	StartIndex int    `json:"start_index"`
}

// NGramReport contains the results of n-gram mining.
type NGramReport struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"` // Keyed by n
}

// RollingHash implements Rabin-Karp rolling hash for efficient n-gram detection.
type RollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64 // base^(n-1) for removal
	window []uint8
	n      int
}

// NewRollingHash creates a new rolling hash for window size n.
func NewRollingHash(n int) *RollingHash {
	rh := &RollingHash{
		base:   31, // Prime base
		n:      n,
		window: make([]uint8, 0, n),
	}

	// Precompute base^(n-1)
	rh.pow = 1
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}

	return rh
}

// Add adds a token to the rolling hash.
func (rh *RollingHash) Add(token uint8) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, token)
		rh.hash = rh.hash*rh.base + uint64(token)
	}
}

// Roll removes the oldest token and adds a new one.
func (rh *RollingHash) Roll(token uint8) {
	if len(rh.window) < rh.n {
		rh.Add(token)
		return
	}

	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(token)

	// Shift window
	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = token
}

// Hash returns the current hash value.
func (rh *RollingHash) Hash() uint64 {
	return rh.hash
}

// Window returns a copy of the current window.
func (rh *RollingHash) Window() []uint8 {
	result := make([]uint8, len(rh.window))
	copy(result, rh.window)
	return result
}

// Ready returns true if the window is full.
func (rh *RollingHash) Ready() bool {
	return len(rh.window) == rh.n
}

// maxTokenLayers bounds the layer index a token can carry.
const maxTokenLayers = 42

// token packs a move into one byte: axis, layer and direction.
func token(m types.Move) uint8 {
	t := m.Axis.Index()*maxTokenLayers + m.Layer
	t *= 2
	if m.Direction == types.Backward {
		t++
	}
	return uint8(t)
}

// moveFromToken reverses token.
func moveFromToken(t uint8) types.Move {
	dir := types.Forward
	if t%2 == 1 {
		dir = types.Backward
	}
	v := int(t / 2)
	return types.Move{
		Axis:      types.Axes[v/maxTokenLayers],
		Layer:     v % maxTokenLayers,
		Direction: dir,
	}
}

// ngramEntry tracks n-gram occurrences during mining.
type ngramEntry struct {
	tokens      []uint8
	count       int
	occurrences []NGramOccurrence
}

// MineNGrams finds the top-K most frequent n-grams for each n in [minN, maxN].
// Moves on layers beyond the token range are skipped.
func MineNGrams(moves []types.Move, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{
		TopNGrams: make(map[int][]NGram),
	}

	tokens := make([]uint8, 0, len(moves))
	for _, m := range moves {
		if m.Layer < 0 || m.Layer >= maxTokenLayers || !m.Axis.Valid() {
			continue
		}
		tokens = append(tokens, token(m))
	}

	for n := minN; n <= maxN && n <= len(tokens); n++ {
		if ngrams := mineNGramsForN(tokens, n, topK); len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}

	return report
}

// mineNGramsForN mines n-grams of a specific length.
func mineNGramsForN(tokens []uint8, n, topK int) []NGram {
	if n < 1 || len(tokens) < n {
		return nil
	}

	counts := make(map[uint64][]*ngramEntry)
	var order []*ngramEntry
	rh := NewRollingHash(n)

	for i := 0; i < n-1; i++ {
		rh.Add(tokens[i])
	}

	for i := n - 1; i < len(tokens); i++ {
		rh.Roll(tokens[i])
		if !rh.Ready() {
			continue
		}

		hash := rh.Hash()
		startIdx := i - n + 1
		window := rh.Window()

		var entry *ngramEntry
		for _, e := range counts[hash] {
			if slicesEqual(e.tokens, window) {
				entry = e
				break
			}
		}
		if entry == nil {
			entry = &ngramEntry{tokens: window}
			counts[hash] = append(counts[hash], entry)
			order = append(order, entry)
		}
		entry.count++
		if len(entry.occurrences) < 10 {
			entry.occurrences = append(entry.occurrences, NGramOccurrence{StartIndex: startIdx})
		}
	}

	entries := make([]*ngramEntry, 0, len(order))
	for _, entry := range order {
		// Only n-grams seen more than once are reported.
		if entry.count >= 2 {
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	if len(entries) > topK {
		entries = entries[:topK]
	}

	result := make([]NGram, len(entries))
	for i, entry := range entries {
		sequence := make([]string, len(entry.tokens))
		for j, t := range entry.tokens {
			sequence[j] = moveFromToken(t).Notation()
		}

		result[i] = NGram{
			N:           n,
			Sequence:    sequence,
			Tokens:      entry.tokens,
			Count:       entry.count,
			Occurrences: entry.occurrences,
		}
	}

	return result
}

// slicesEqual compares two uint8 slices.
func slicesEqual(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MineNGramsAcrossSessions aggregates n-grams across sessions.
func MineNGramsAcrossSessions(sessionNGrams map[string]*NGramReport, minN, maxN, topK int) *NGramReport {
	report := &NGramReport{
		TopNGrams: make(map[int][]NGram),
	}

	// Aggregate counts per n
	for n := minN; n <= maxN; n++ {
		aggregated := make(map[string]*NGram) // Key: sequence string

		for sessionID, sessionReport := range sessionNGrams {
			ngrams, ok := sessionReport.TopNGrams[n]
			if !ok {
				continue
			}

			for _, ng := range ngrams {
				key := ngramKey(ng.Tokens)
				if existing, exists := aggregated[key]; exists {
					existing.Count += ng.Count
					for _, occ := range ng.Occurrences {
						if len(existing.Occurrences) < 10 {
							occ.SessionID = sessionID
							existing.Occurrences = append(existing.Occurrences, occ)
						}
					}
				} else {
					newNg := NGram{
						N:           ng.N,
						Sequence:    ng.Sequence,
						Tokens:      ng.Tokens,
						Count:       ng.Count,
						Occurrences: make([]NGramOccurrence, 0, 10),
					}
					for _, occ := range ng.Occurrences {
						if len(newNg.Occurrences) < 10 {
							occ.SessionID = sessionID
							newNg.Occurrences = append(newNg.Occurrences, occ)
						}
					}
					aggregated[key] = &newNg
				}
			}
		}

		// Convert to sorted list
		ngrams := make([]NGram, 0, len(aggregated))
		for _, ng := range aggregated {
			ngrams = append(ngrams, *ng)
		}

		sort.Slice(ngrams, func(i, j int) bool {
			return ngrams[i].Count > ngrams[j].Count
		})

		if len(ngrams) > topK {
			ngrams = ngrams[:topK]
		}

		if len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}

	return report
}

// ngramKey creates a string key for an n-gram token sequence.
func ngramKey(tokens []uint8) string {
	return string(tokens)
}
