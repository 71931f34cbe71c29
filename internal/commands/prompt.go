package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// confirmWarnings asks the user whether to proceed despite interval
// warnings. Without a terminal on stdin there is nobody to ask, so the
// caller must be told to re-run with --force.
func confirmWarnings(warnings []string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, fmt.Errorf("date range warnings present and stdin is not a terminal; re-run with --force to proceed")
	}

	var proceed bool
	err := huh.NewConfirm().
		Title("Date range warnings").
		Description(strings.Join(warnings, "\n") + "\n\nProceed anyway?").
		Value(&proceed).
		Run()
	if err != nil {
		return false, err
	}
	return proceed, nil
}
