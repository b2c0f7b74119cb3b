package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// browserMethod is one way of asking the desktop to open a URL
type browserMethod struct {
	name string
	cmd  string
	args []string
}

// OpenBrowser opens url with the first launcher that starts
func OpenBrowser(ctx context.Context, url string, logger *slog.Logger) error {
	var lastErr error
	for _, method := range getBrowserOpenMethods(runtime.GOOS, url) {
		cmd := exec.Command(method.cmd, method.args...)
		if err := cmd.Start(); err != nil {
			lastErr = err
			logger.WarnContext(ctx, "Browser open method failed",
				slog.String("method", method.name),
				slog.String("error", err.Error()))
			continue
		}
		go func() { _ = cmd.Wait() }()
		logger.InfoContext(ctx, "Browser opened",
			slog.String("method", method.name),
			slog.String("url", url))
		return nil
	}
	return fmt.Errorf("failed to open browser: %w", lastErr)
}

// getBrowserOpenMethods returns platform-specific browser opening methods
func getBrowserOpenMethods(goos, url string) []browserMethod {
	switch goos {
	case "windows":
		return []browserMethod{
			{name: "rundll32", cmd: "rundll32", args: []string{"url.dll,FileProtocolHandler", url}},
			{name: "start_command", cmd: "cmd", args: []string{"/c", "start", "", url}},
		}
	case "darwin":
		return []browserMethod{
			{name: "open", cmd: "open", args: []string{url}},
		}
	default:
		return []browserMethod{
			{name: "xdg-open", cmd: "xdg-open", args: []string{url}},
			{name: "sensible-browser", cmd: "sensible-browser", args: []string{url}},
		}
	}
}
