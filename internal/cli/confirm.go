package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/mmr-tortoise/gitx/internal/workspace"
)

// confirmer returns the interactive yes/no prompt backed by the
// invocation's streams. The question goes to stderr (stdout stays clean
// for command output) and the answer is read from stdin; anything but
// "y"/"yes" declines, as does EOF, so non-interactive runs fail closed.
func (a *app) confirmer() workspace.Confirmer {
	reader := bufio.NewReader(a.stdin)
	return func(prompt string) bool {
		fmt.Fprintf(a.stderr, "%s [y/N]: ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
