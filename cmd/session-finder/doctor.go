package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/tekacs/session-finder/internal/config"
	"github.com/tekacs/session-finder/internal/finder"
	"github.com/tekacs/session-finder/internal/summary"
	"github.com/tekacs/session-finder/internal/terms"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify the session root, ripgrep, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			fmt.Println("=== Session Root ===")
			checkDir(cfg.ProjectsRoot)

			fmt.Println("\n=== Coarse Filter ===")
			fmt.Printf("  Configured: %s\n", cfg.Finder)
			rgBin := cfg.RipgrepPath
			if rgBin == "" {
				rgBin = "rg"
			}
			rg := finder.Ripgrep{Root: cfg.ProjectsRoot, Bin: cfg.RipgrepPath}
			if rg.Available() {
				if out, err := exec.Command(rgBin, "--version").Output(); err == nil {
					fmt.Printf("  ripgrep: %s", firstLine(out))
				} else {
					fmt.Println("  ripgrep: found")
				}
			} else {
				fmt.Println("  ripgrep: NOT FOUND (will use built-in matcher)")
			}

			files, err := finder.WalkRoot(cfg.ProjectsRoot)
			if err != nil {
				fmt.Printf("\n  scan error: %v\n", err)
				return nil
			}

			fmt.Println("\n=== Sessions ===")
			fmt.Printf("  Log files: %d\n", len(files))

			ex := terms.NewExtractor(terms.DefaultStopwords(), cfg.MinTermLen, cfg.TopTerms)
			_, stats := summary.BuildAll(files, summary.Filter{}, ex, cfg.Workers)
			fmt.Printf("  Parse: %s\n", stats)

			return nil
		},
	}
}

func checkDir(path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s (NOT FOUND)\n", path)
	} else if !info.IsDir() {
		fmt.Printf("  %s (NOT A DIRECTORY)\n", path)
	} else {
		fmt.Printf("  %s (OK)\n", path)
	}
}

func firstLine(out []byte) string {
	for i, b := range out {
		if b == '\n' {
			return string(out[:i+1])
		}
	}
	return string(out)
}
