package cli

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Run drives model until the user quits or ctx is cancelled.
func Run(ctx context.Context, model Model, in io.Reader, out io.Writer) error {
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
