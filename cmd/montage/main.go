package main

import (
	"os"
	"strings"

	"montage-cli/internal/cli"
)

func isClipID(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "clip-") {
		return false
	}
	return len(s) > len("clip-")
}

// rewriteDirectClipLookupArgs makes `montage <clip-id>` behave like
// `montage clips show <clip-id>`. Cobra treats the first non-flag token as a
// subcommand, so argv is rewritten before parsing. Only --dir takes a value;
// any other leading flag is a bare toggle.
func rewriteDirectClipLookupArgs(argv []string) []string {
	i := 1
	for i < len(argv) && strings.HasPrefix(argv[i], "-") {
		if argv[i] == "--" {
			i++
			break
		}
		if argv[i] == "--dir" {
			i += 2
			continue
		}
		i++
	}
	if i >= len(argv) || !isClipID(argv[i]) {
		return argv
	}
	out := make([]string, 0, len(argv)+2)
	out = append(out, argv[:i]...)
	out = append(out, "clips", "show")
	return append(out, argv[i:]...)
}

func main() {
	os.Args = rewriteDirectClipLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
