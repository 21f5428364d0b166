package extractor

import (
	"context"
	"sync"

	"rag-api/cmd/configs"

	fylogger "github.com/FyersDev/trading-logger-go"
	"github.com/chromedp/chromedp"
)

type browserState int

const (
	stateDisconnected browserState = iota
	stateLaunching
	stateReady
)

// Browser owns the process-wide headless Chrome instance. The instance
// is launched lazily and relaunched when its connection is lost;
// (re)initialization is serialized behind the mutex while extractions
// run in their own tab contexts.
type Browser struct {
	mu     sync.Mutex
	state  browserState
	config configs.BrowserConfig

	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func NewBrowser(config configs.BrowserConfig) *Browser {
	return &Browser{
		state:  stateDisconnected,
		config: config,
	}
}

// acquire returns a live browser context, launching or relaunching the
// browser if needed. A failed relaunch leaves the handle Disconnected
// and fails only the current caller.
func (b *Browser) acquire(ctx context.Context) (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateReady && b.browserCtx.Err() == nil {
		return b.browserCtx, nil
	}

	b.closeLocked()
	b.state = stateLaunching

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if b.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.config.ExecPath))
	}
	if !b.config.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Running an empty task starts the browser process, so launch
	// failures surface here instead of inside the first extraction.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		b.state = stateDisconnected
		return nil, err
	}

	b.allocCtx = allocCtx
	b.allocCancel = allocCancel
	b.browserCtx = browserCtx
	b.browserCancel = browserCancel
	b.state = stateReady

	fylogger.InfoLog(ctx, "Headless browser launched", nil)
	return b.browserCtx, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

func (b *Browser) closeLocked() {
	if b.browserCancel != nil {
		b.browserCancel()
		b.browserCancel = nil
	}
	if b.allocCancel != nil {
		b.allocCancel()
		b.allocCancel = nil
	}
	b.state = stateDisconnected
}
