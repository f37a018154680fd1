//go:build !unix

package cli

import "os/exec"

// configureProcess keeps exec's default cancellation, which kills the child.
func configureProcess(cmd *exec.Cmd) {}
