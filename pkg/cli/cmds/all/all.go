// Package all registers all shell commands.
package all

import (
	// train commands
	_ "github.com/robotalks/trainctl/pkg/cli/cmds/train"
)
