package engine

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/cespare/xxhash/v2"
)

// suggestID returns the candidate closest to id, or "" when nothing is close
func suggestID(id string, candidates []string) string {
	if id == "" {
		return ""
	}

	best := ""
	bestDist := -1
	target := strings.ToLower(id)
	for _, candidate := range candidates {
		dist := levenshtein.ComputeDistance(target, strings.ToLower(candidate))
		if bestDist == -1 || dist < bestDist {
			best, bestDist = candidate, dist
		}
	}

	limit := len(id) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

// computeRevision hashes component states and occupancy into a short digest
func computeRevision(size int, components []RenderState, cells []CellSnapshot) string {
	d := xxhash.New()
	fmt.Fprintf(d, "size=%d;", size)
	for _, c := range components {
		fmt.Fprintf(d, "c=%s:%s:%t:%s;", c.ID, c.State, c.Active, strings.Join(c.Observers, ","))
	}
	for _, cell := range cells {
		if cell.ComponentID != "" {
			fmt.Fprintf(d, "p=%d,%d:%s;", cell.Row, cell.Col, cell.ComponentID)
		}
	}
	return fmt.Sprintf("%016x", d.Sum64())
}

// CountKind counts the components of a specific kind in a view
func CountKind(view *View, kind Kind) int {
	count := 0
	for _, c := range view.Components {
		if c.Kind == kind {
			count++
		}
	}
	return count
}
