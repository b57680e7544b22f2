// Package browser hands an article link off to the desktop browser.
// The reading list shows summaries only; the open key sends the
// underlying story through here.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Open validates rawURL and launches the platform browser on it. Feed
// entries can carry arbitrary link schemes, so only http and https are
// accepted.
func Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}
	return command(runtime.GOOS, rawURL).Start()
}

func command(goos, rawURL string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		// rundll32 rather than cmd /c start; no shell interpretation.
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}
