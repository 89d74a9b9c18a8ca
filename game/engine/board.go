package engine

import "fmt"

// Board is an N×N grid of component ids. It is the only authority that
// places components, so cell contents and component positions always agree.
type Board struct {
	size     int
	cells    [][]string // "" means empty
	registry *Registry
}

// NewBoard creates an empty board of the given size backed by registry
func NewBoard(size int, registry *Registry) (*Board, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("board size must be between %d and %d, got %d", MinBoardSize, MaxBoardSize, size)
	}
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}

	cells := make([][]string, size)
	for i := range cells {
		cells[i] = make([]string, size)
	}

	return &Board{
		size:     size,
		cells:    cells,
		registry: registry,
	}, nil
}

// Size returns the board dimension N
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether (row, col) is a cell of the board
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// Place moves a component onto (row, col). A component already on the
// board leaves its old cell; it is never copied. The target must be empty
// or already hold the same component.
func (b *Board) Place(componentID string, row, col int) error {
	if !b.InBounds(row, col) {
		return &PlacementError{Op: "place", ComponentID: componentID, Row: row, Col: col, Err: ErrOutOfBounds}
	}

	c, err := b.registry.Get(componentID)
	if err != nil {
		return &PlacementError{Op: "place", ComponentID: componentID, Row: row, Col: col, Err: err}
	}

	occupant := b.cells[row][col]
	if occupant == componentID {
		return nil
	}
	if occupant != "" {
		return &PlacementError{Op: "place", ComponentID: componentID, Row: row, Col: col, Occupant: occupant, Err: ErrCellOccupied}
	}

	if prev, ok := c.Position(); ok {
		b.cells[prev.Row][prev.Col] = ""
	}
	b.cells[row][col] = componentID
	c.setPosition(&Position{Row: row, Col: col})

	return nil
}

// Remove takes a component off the board and returns it to the palette.
// Removing an unplaced component is a no-op.
func (b *Board) Remove(componentID string) error {
	c, err := b.registry.Get(componentID)
	if err != nil {
		return &PlacementError{Op: "remove", ComponentID: componentID, Row: -1, Col: -1, Err: err}
	}

	if pos, ok := c.Position(); ok {
		b.cells[pos.Row][pos.Col] = ""
		c.setPosition(nil)
	}
	return nil
}

// ComponentAt returns the id held by (row, col)
func (b *Board) ComponentAt(row, col int) (string, bool) {
	if !b.InBounds(row, col) {
		return "", false
	}
	id := b.cells[row][col]
	return id, id != ""
}

// FindPosition returns the cell holding componentID
func (b *Board) FindPosition(componentID string) (Position, bool) {
	c, err := b.registry.Get(componentID)
	if err != nil {
		return Position{}, false
	}
	return c.Position()
}

// Cells returns the occupancy of every cell in row-major order
func (b *Board) Cells() []CellSnapshot {
	out := make([]CellSnapshot, 0, b.size*b.size)
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			out = append(out, CellSnapshot{Row: r, Col: c, ComponentID: b.cells[r][c]})
		}
	}
	return out
}

// Occupied returns the number of non-empty cells
func (b *Board) Occupied() int {
	count := 0
	for _, row := range b.cells {
		for _, id := range row {
			if id != "" {
				count++
			}
		}
	}
	return count
}

// CheckInvariants verifies that every id appears in at most one cell and
// that cell contents agree with component positions.
func (b *Board) CheckInvariants() error {
	seen := make(map[string]Position)
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			id := b.cells[r][c]
			if id == "" {
				continue
			}
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("component %s appears at (%d,%d) and (%d,%d)", id, prev.Row, prev.Col, r, c)
			}
			seen[id] = Position{Row: r, Col: c}

			comp, err := b.registry.Get(id)
			if err != nil {
				return fmt.Errorf("cell (%d,%d): %w", r, c, err)
			}
			pos, ok := comp.Position()
			if !ok || pos.Row != r || pos.Col != c {
				return fmt.Errorf("cell (%d,%d) holds %s but its position is %v", r, c, id, comp.position)
			}
		}
	}

	for _, comp := range b.registry.All() {
		pos, ok := comp.Position()
		if !ok {
			continue
		}
		if !b.InBounds(pos.Row, pos.Col) || b.cells[pos.Row][pos.Col] != comp.id {
			return fmt.Errorf("component %s claims (%d,%d) but the cell disagrees", comp.id, pos.Row, pos.Col)
		}
	}

	return nil
}
