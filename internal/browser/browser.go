// Package browser starts playwright browser sessions for the UI suite, either
// locally or against a remote playwright server.
package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// DefaultRemoteURL is the playwright server the suite connects to in Docker
// mode.
const DefaultRemoteURL = "ws://localhost:3000/"

// ScreenshotTimeLayout matches the run id timestamp.
const ScreenshotTimeLayout = "20060102_150405"

// ErrUnsupportedBrowser is returned for browser names the factory does not
// know.
var ErrUnsupportedBrowser = errors.New("unsupported browser")

// chromium flags that keep password manager dialogs from covering the page
var chromiumArgs = []string{"--disable-features=PasswordLeakToggleMove"}

// Options configures a Session.
type Options struct {
	Browser   string        // chrome, chromium or firefox
	Remote    bool          // connect to RemoteURL instead of launching
	RemoteURL string        // playwright server websocket
	Headed    bool          // show the browser window (local only)
	Install   bool          // install the driver and browser before starting
	Timeout   time.Duration // default timeout for page operations
}

// Engine maps a browser name to the playwright engine driving it.
func Engine(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "chrome", "chromium":
		return "chromium", nil
	case "firefox":
		return "firefox", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedBrowser, name)
}

// Session is one browser with a single page.
type Session struct {
	pw      *playwright.Playwright
	Browser playwright.Browser
	Context playwright.BrowserContext
	Page    playwright.Page
}

// Start launches or connects to a browser and opens a page.
func Start(opts Options) (*Session, error) {
	engine, err := Engine(opts.Browser)
	if err != nil {
		return nil, err
	}

	if opts.Install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{engine}}); err != nil {
			return nil, fmt.Errorf("could not install playwright: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	s := &Session{pw: pw}

	browserType := pw.Chromium
	if engine == "firefox" {
		browserType = pw.Firefox
	}

	if opts.Remote {
		url := opts.RemoteURL
		if url == "" {
			url = DefaultRemoteURL
		}
		s.Browser, err = browserType.Connect(url)
	} else {
		launch := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(!opts.Headed)}
		if engine == "chromium" {
			launch.Args = chromiumArgs
		}
		s.Browser, err = browserType.Launch(launch)
	}
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("could not start %s: %w", opts.Browser, err)
	}

	s.Context, err = s.Browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1280, Height: 720},
	})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("could not create context: %w", err)
	}

	s.Page, err = s.Context.NewPage()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	if opts.Timeout > 0 {
		s.Page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))
	}
	return s, nil
}

// ScreenshotName builds "<name>_<timestamp>.png", with path separators in
// name (from subtest names) replaced.
func ScreenshotName(name string, at time.Time) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(name)
	return fmt.Sprintf("%s_%s.png", safe, at.Format(ScreenshotTimeLayout))
}

// Screenshot saves a full-page PNG of the current page under dir and returns
// its path.
func (s *Session) Screenshot(dir, name string) (string, error) {
	if s.Page == nil {
		return "", errors.New("no page to capture")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	path := filepath.Join(dir, ScreenshotName(name, time.Now()))
	if _, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		return "", fmt.Errorf("capture screenshot: %w", err)
	}
	return path, nil
}

// Close releases the page, context, browser and driver, in that order.
func (s *Session) Close() error {
	var errs []error
	if s.Page != nil {
		errs = append(errs, s.Page.Close())
	}
	if s.Context != nil {
		errs = append(errs, s.Context.Close())
	}
	if s.Browser != nil {
		errs = append(errs, s.Browser.Close())
	}
	if s.pw != nil {
		errs = append(errs, s.pw.Stop())
	}
	return errors.Join(errs...)
}
