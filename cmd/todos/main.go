package main

import (
	"os"
	"strconv"
	"strings"

	"todos-cli/internal/cli"
)

func isTaskID(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n > 0
}

// rewriteDirectShowArgs makes `todos <id>` work like `todos show <id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first (`todos --user-id 3 12`), so
// the first positional token is located rather than assumed to be argv[1].
func rewriteDirectShowArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--config":    true,
		"--api-url":   true,
		"--user-id":   true,
		"--format":    true,
		"--debug-log": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isTaskID(argv[i+1]) {
				return insertShow(argv, i+1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isTaskID(a) {
			return insertShow(argv, i)
		}
		return argv
	}
	return argv
}

func insertShow(argv []string, at int) []string {
	out := make([]string, 0, len(argv)+1)
	out = append(out, argv[:at]...)
	out = append(out, "show")
	out = append(out, argv[at:]...)
	return out
}

func main() {
	os.Args = rewriteDirectShowArgs(os.Args)

	if err := cli.Execute(cli.NewRootCmd()); err != nil {
		os.Exit(1)
	}
}
