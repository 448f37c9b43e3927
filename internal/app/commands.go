package app

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/cmd-palette/internal/command"
	"github.com/atomicstack/cmd-palette/internal/logging"
)

// DefaultTree is the built-in command set the standalone binary ships with.
// Embedders normally supply their own tree via RunTree.
func DefaultTree() []*command.Command {
	return []*command.Command{
		{
			ID:          "dev",
			Name:        "Dev Tools",
			Description: "Developer utilities",
			Kind:        command.KindCategory,
			Children: []*command.Command{
				{
					ID:       "devtools",
					Name:     "Open DevTools",
					Keywords: []string{"inspect", "debug"},
					Kind:     command.KindAction,
					Prefixes: []string{"devtools"},
					Execute: func(context.Context) error {
						logging.Trace("action.devtools", nil)
						return nil
					},
				},
				{
					ID:       "print-env",
					Name:     "Print Environment",
					Keywords: []string{"env", "variables"},
					Kind:     command.KindAction,
					Execute: func(context.Context) error {
						for _, entry := range os.Environ() {
							fmt.Println(entry)
						}
						return nil
					},
				},
			},
		},
		{
			ID:          "calculator",
			Name:        "Calculator",
			Description: "Evaluate simple arithmetic",
			Keywords:    []string{"math", "sum"},
			Kind:        command.KindPortal,
			Prefixes:    []string{"!calc", "calc"},
			Render:      renderCalculator,
		},
		{
			ID:       "print-cwd",
			Name:     "Print Working Directory",
			Keywords: []string{"pwd", "path"},
			Kind:     command.KindAction,
			Execute: func(context.Context) error {
				cwd, err := os.Getwd()
				if err != nil {
					return err
				}
				fmt.Println(cwd)
				return nil
			},
		},
	}
}

// renderCalculator evaluates "a op b" expressions typed into the query line.
func renderCalculator(query string, _ command.PortalContext) string {
	expr := strings.TrimSpace(query)
	if expr == "" {
		return "Type an expression, e.g. 2 + 2"
	}
	result, err := evalExpression(expr)
	if err != nil {
		return fmt.Sprintf("%s = ?", expr)
	}
	return fmt.Sprintf("%s = %s", expr, strconv.FormatFloat(result, 'g', -1, 64))
}

func evalExpression(expr string) (float64, error) {
	for _, op := range []string{"+", "-", "*", "/"} {
		idx := strings.LastIndex(expr, op)
		if idx <= 0 || idx == len(expr)-1 {
			continue
		}
		left, errL := strconv.ParseFloat(strings.TrimSpace(expr[:idx]), 64)
		right, errR := strconv.ParseFloat(strings.TrimSpace(expr[idx+1:]), 64)
		if errL != nil || errR != nil {
			continue
		}
		switch op {
		case "+":
			return left + right, nil
		case "-":
			return left - right, nil
		case "*":
			return left * right, nil
		case "/":
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			return left / right, nil
		}
	}
	if v, err := strconv.ParseFloat(expr, 64); err == nil {
		return v, nil
	}
	return 0, fmt.Errorf("unparseable expression %q", expr)
}
