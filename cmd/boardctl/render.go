package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/wricardo/mcp-training/tileboard/game/engine"
)

var (
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed, color.Bold)
	cyan  = color.New(color.FgCyan)

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	activeStyle = cellStyle.Foreground(lipgloss.Color("#f9e2af"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))
)

func success(out io.Writer, format string, a ...any) {
	green.Fprintf(out, "✓ "+format, a...)
}

func failure(out io.Writer, format string, a ...any) {
	red.Fprintf(out, "✗ "+format, a...)
}

// render loads a config, applies the optional script and prints the board.
func render(out io.Writer, configPath, scriptPath string) error {
	config, err := engine.LoadBoardConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return err
	}

	if scriptPath != "" {
		steps, err := LoadScript(scriptPath)
		if err != nil {
			return err
		}
		for _, r := range ApplySteps(eng, steps) {
			if r.Err != nil {
				failure(out, "%d. %s: %v\n", r.Index, r.Summary, r.Err)
			} else {
				success(out, "%d. %s\n", r.Index, r.Summary)
			}
		}
		fmt.Fprintln(out)
	}

	view := eng.View()
	cyan.Fprintf(out, "%s (%dx%d)\n", view.ConfigName, view.Size, view.Size)
	fmt.Fprintln(out, renderBoard(view))
	fmt.Fprintln(out, renderComponents(view))
	return nil
}

// renderBoard draws the grid with a row/column ruler. Cells holding an
// active component are highlighted.
func renderBoard(view *engine.View) string {
	states := make(map[string]engine.RenderState, len(view.Components))
	for _, c := range view.Components {
		states[c.ID] = c
	}

	grid := make([][]string, view.Size)
	for row := range grid {
		grid[row] = make([]string, view.Size+1)
		grid[row][0] = strconv.Itoa(row)
	}
	for _, cell := range view.Cells {
		if cell.ComponentID != "" {
			grid[cell.Row][cell.Col+1] = fmt.Sprintf("%s (%s)", cell.ComponentID, states[cell.ComponentID].State)
		}
	}

	headers := make([]string, 0, view.Size+1)
	headers = append(headers, "")
	for col := 0; col < view.Size; col++ {
		headers = append(headers, strconv.Itoa(col))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(grid...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle
			}
			if row >= 0 && row < len(grid) {
				id := cellComponent(view, row, col-1)
				if id != "" && states[id].Active {
					return activeStyle
				}
			}
			return cellStyle
		})

	return t.String()
}

func cellComponent(view *engine.View, row, col int) string {
	idx := row*view.Size + col
	if idx < 0 || idx >= len(view.Cells) {
		return ""
	}
	return view.Cells[idx].ComponentID
}

// renderComponents lists every component with its state and observers.
func renderComponents(view *engine.View) string {
	rows := make([][]string, 0, len(view.Components))
	for _, c := range view.Components {
		where := "palette"
		if c.Position != nil {
			where = fmt.Sprintf("(%d,%d)", c.Position.Row, c.Position.Col)
		}
		observers := "-"
		if len(c.Observers) > 0 {
			observers = fmt.Sprint(c.Observers)
		}
		rows = append(rows, []string{c.ID, string(c.Kind), string(c.State), where, observers})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "KIND", "STATE", "CELL", "OBSERVED BY").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func init() {
	// Colors follow the terminal; NO_COLOR disables them.
	if os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}
