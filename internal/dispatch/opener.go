package dispatch

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"runtime"
	"sync"
)

// Opener shows a URL to the user.
type Opener interface {
	Open(ctx context.Context, url string) error
}

func NewOpener(kind string, logger *log.Logger) (Opener, error) {
	switch kind {
	case "", "browser":
		return BrowserOpener{}, nil
	case "log":
		return NewLogOpener(logger), nil
	default:
		return nil, fmt.Errorf("unsupported opener: %s", kind)
	}
}

// BrowserOpener starts the platform's URL handler and does not wait for it.
type BrowserOpener struct{}

// The handler outlives ctx; it is a separate program the user now interacts with.
func (BrowserOpener) Open(_ context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}

// LogOpener prints the URL instead of opening it and remembers the last one.
type LogOpener struct {
	logger *log.Logger

	mu   sync.Mutex
	last string
}

func NewLogOpener(logger *log.Logger) *LogOpener {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogOpener{logger: logger}
}

func (o *LogOpener) Open(_ context.Context, url string) error {
	o.mu.Lock()
	o.last = url
	o.mu.Unlock()
	o.logger.Printf("Open %s", url)
	return nil
}

func (o *LogOpener) Last() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}
