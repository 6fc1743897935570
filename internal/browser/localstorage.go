package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Options controls the Chrome instance used to read the web app's storage
type Options struct {
	AppURL      string
	UserDataDir string // Chrome profile that already holds the app's data
	Visible     bool
	Timeout     time.Duration
}

// ReadLocalStorage opens the app in Chrome and returns every localStorage
// entry whose key starts with prefix
func ReadLocalStorage(ctx context.Context, opts Options, prefix string) (map[string]string, error) {
	if opts.AppURL == "" {
		return nil, fmt.Errorf("browser app_url is not set in config")
	}
	if opts.Timeout == 0 {
		opts.Timeout = 2 * time.Minute
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", !opts.Visible),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if opts.UserDataDir != "" {
		allocOpts = append(allocOpts, chromedp.UserDataDir(opts.UserDataDir))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	script, err := storageScript(prefix)
	if err != nil {
		return nil, err
	}

	entries := map[string]string{}
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(opts.AppURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(script, &entries),
	); err != nil {
		return nil, fmt.Errorf("reading localStorage from %s: %w", opts.AppURL, err)
	}

	return entries, nil
}

// storageScript builds the expression collecting prefixed localStorage keys
func storageScript(prefix string) (string, error) {
	quoted, err := json.Marshal(prefix)
	if err != nil {
		return "", fmt.Errorf("encoding prefix: %w", err)
	}
	return fmt.Sprintf(`(() => {
		const prefix = %s;
		const out = {};
		for (let i = 0; i < localStorage.length; i++) {
			const key = localStorage.key(i);
			if (key && key.startsWith(prefix)) out[key] = localStorage.getItem(key);
		}
		return out;
	})()`, quoted), nil
}
