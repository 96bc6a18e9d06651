// Package viewer opens files and URLs with the platform's default handler.
package viewer

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Command returns the opener invocation for target on this platform.
func Command(target string) *exec.Cmd {
	return commandFor(runtime.GOOS, target)
}

func commandFor(goos, target string) *exec.Cmd {
	switch goos {
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		return exec.Command("open", target)
	default:
		return exec.Command("xdg-open", target)
	}
}

// Open starts the platform opener without waiting for it to exit.
func Open(target string) error {
	cmd := Command(target)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s with %s: %w", target, cmd.Args[0], err)
	}
	go cmd.Wait()
	return nil
}
