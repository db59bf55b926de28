package reader

import (
	"context"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"newsfeed/internal/services/news"
)

// OpenURL launches the system browser. Only http and https are allowed.
func OpenURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return exec.Command("xdg-open", rawURL).Start()
	}
}

// Recorder stores opened articles.
type Recorder interface {
	Record(ctx context.Context, a news.Article) error
}

// OpenArticle opens the article with open and then records it as viewed.
// Nothing is recorded when open fails.
func OpenArticle(ctx context.Context, a news.Article, open func(string) error, recent Recorder) error {
	if err := open(a.URL); err != nil {
		return err
	}
	if recent == nil {
		return nil
	}
	return recent.Record(ctx, a)
}
