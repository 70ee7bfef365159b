package browser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/roach88/swiftcheck/internal/page"
)

// Engines lists the supported browser engines.
var Engines = []string{"chromium", "firefox", "webkit"}

// Options configures the browser process.
type Options struct {
	// Engine is one of Engines. Empty means chromium.
	Engine string

	// Headless hides the browser window.
	Headless bool

	// ActionTimeout bounds single element actions such as clear and fill.
	ActionTimeout time.Duration

	// Install downloads the driver and browser before launching.
	Install bool
}

// DefaultOptions returns a headless chromium setup.
func DefaultOptions() Options {
	return Options{
		Engine:        "chromium",
		Headless:      true,
		ActionTimeout: 10 * time.Second,
	}
}

// Validate checks the engine name and timeout.
func (o Options) Validate() error {
	if o.Engine != "" && !slices.Contains(Engines, o.Engine) {
		return fmt.Errorf("unknown browser %q: must be one of %v", o.Engine, Engines)
	}
	if o.ActionTimeout <= 0 {
		return fmt.Errorf("action timeout must be positive")
	}
	return nil
}

// Launcher starts one browser and hands out isolated sessions.
type Launcher struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	logger  *slog.Logger
}

var _ page.SessionFactory = (*Launcher)(nil)

// Launch starts the Playwright driver and the configured browser.
// A nil logger discards output.
func Launch(ctx context.Context, opts Options, logger *slog.Logger) (*Launcher, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Engine == "" {
		opts.Engine = "chromium"
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opts.Install {
		logger.Info("installing browser driver", "browser", opts.Engine)
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{opts.Engine}}); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := engine(pw, opts.Engine).Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch %s: %w", opts.Engine, err)
	}

	logger.Debug("browser launched", "browser", opts.Engine, "headless", opts.Headless, "version", browser.Version())
	return &Launcher{pw: pw, browser: browser, opts: opts, logger: logger}, nil
}

func engine(pw *playwright.Playwright, name string) playwright.BrowserType {
	switch name {
	case "firefox":
		return pw.Firefox
	case "webkit":
		return pw.WebKit
	default:
		return pw.Chromium
	}
}

// NewSession opens a fresh browser context with a single page.
func (l *Launcher) NewSession(ctx context.Context) (page.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bctx, err := l.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("new browser context: %w", err)
	}
	p, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &Session{bctx: bctx, page: p, actionTimeout: l.opts.ActionTimeout}, nil
}

// Close shuts down the browser and the driver.
func (l *Launcher) Close() error {
	var firstErr error
	if err := l.browser.Close(); err != nil {
		firstErr = fmt.Errorf("close browser: %w", err)
	}
	if err := l.pw.Stop(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("stop playwright: %w", err)
	}
	return firstErr
}
