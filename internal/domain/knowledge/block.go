// Package knowledge assembles the bounded textual context passed to the
// completion model.
package knowledge

import (
	"sort"
	"strings"
)

// MaxRank marks fragments that must survive truncation ahead of any scored
// fragment.
const MaxRank = 1e308

// fragment is one appended piece of context with its retrieval rank.
type fragment struct {
	text string
	rank float64
}

// Block is an ordered, append-only sequence of text fragments with a
// character budget. Rendering never splits a fragment: when the total
// exceeds the budget, whole fragments are dropped lowest-rank-first
// (later-appended first on equal rank) until the rest fits.
type Block struct {
	fragments []fragment
	budget    int
}

// NewBlock creates a block. budget <= 0 means unbounded.
func NewBlock(budget int) *Block {
	return &Block{budget: budget}
}

// Add appends a fragment with the given rank.
func (b *Block) Add(rank float64, text string) {
	b.fragments = append(b.fragments, fragment{text: text, rank: rank})
}

// Len returns the number of appended fragments.
func (b *Block) Len() int {
	return len(b.fragments)
}

// Render joins the fragments with newlines, dropping whole low-ranked
// fragments while the joined length exceeds the budget. Kept fragments
// preserve their append order.
func (b *Block) Render() string {
	keep := make([]bool, len(b.fragments))
	total := 0
	for i, f := range b.fragments {
		keep[i] = true
		total += len(f.text) + 1 // trailing newline per fragment
	}

	if b.budget > 0 && total > b.budget {
		order := make([]int, len(b.fragments))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			fi, fj := b.fragments[order[i]], b.fragments[order[j]]
			if fi.rank != fj.rank {
				return fi.rank < fj.rank
			}
			return order[i] > order[j]
		})
		for _, idx := range order {
			if total <= b.budget {
				break
			}
			keep[idx] = false
			total -= len(b.fragments[idx].text) + 1
		}
	}

	var sb strings.Builder
	for i, f := range b.fragments {
		if !keep[i] {
			continue
		}
		sb.WriteString(f.text)
		sb.WriteString("\n")
	}
	return sb.String()
}
