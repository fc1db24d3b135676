// Package notify shows user-visible notifications for fired alarms.
package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wu/alarm"
	"wu/datetime"
)

const (
	appName         = "wu"
	fallbackMessage = "Time's up!"
)

// ErrUnsupported is returned by Desktop on platforms without a notifier.
var ErrUnsupported = errors.New("desktop notifications unsupported on this platform")

// Presenter displays a notification.
type Presenter interface {
	Present(ctx context.Context, title, body string) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, title, body string) error

func (fn PresenterFunc) Present(ctx context.Context, title, body string) error {
	return fn(ctx, title, body)
}

// Desktop shows notifications through the desktop notification daemon.
type Desktop struct {
	goos string
}

// NewDesktop returns a Desktop presenter for the running platform.
func NewDesktop() *Desktop {
	return &Desktop{goos: runtime.GOOS}
}

func (d *Desktop) Present(ctx context.Context, title, body string) error {
	name, args, err := desktopCommand(d.goos, title, body)
	if err != nil {
		return err
	}
	if out, err := exec.CommandContext(ctx, name, args...).CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func desktopCommand(goos, title, body string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		// Messages starting with a dash are not options.
		return "notify-send", []string{"--app-name=" + appName, "--", title, body}, nil
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			appleScriptEscaper.Replace(body), appleScriptEscaper.Replace(title))
		return "osascript", []string{"-e", script}, nil
	default:
		return "", nil, ErrUnsupported
	}
}

type gated struct {
	p       Presenter
	granted func() bool
}

// Gate wraps p so that presenting silently does nothing while granted
// reports false.
func Gate(p Presenter, granted func() bool) Presenter {
	return gated{p: p, granted: granted}
}

func (g gated) Present(ctx context.Context, title, body string) error {
	if !g.granted() {
		return nil
	}
	return g.p.Present(ctx, title, body)
}

// Fanout presents to every presenter in turn and joins their errors.
func Fanout(ps ...Presenter) Presenter {
	return PresenterFunc(func(ctx context.Context, title, body string) error {
		var errs []error
		for _, p := range ps {
			if err := p.Present(ctx, title, body); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Receiver turns fired alarms into notifications. It keeps no state of its
// own; everything it shows comes from the alarm payload.
type Receiver struct {
	presenter Presenter
	log       zerolog.Logger
}

// NewReceiver returns a Receiver presenting through p.
func NewReceiver(p Presenter, log zerolog.Logger) *Receiver {
	return &Receiver{presenter: p, log: log}
}

// Handle shows the alarm's message as the title and its local HH:MM trigger
// time as the body. A payload without a time shows the current time.
func (r *Receiver) Handle(ctx context.Context, f alarm.Fired) error {
	title := f.Message
	if title == "" {
		title = fallbackMessage
	}
	at := f.TriggerAt
	if at.IsZero() {
		at = time.Now()
	}
	body := datetime.FormatClock(at)

	r.log.Info().Int64("id", f.ID).Str("at", body).Msg("presenting reminder")
	if err := r.presenter.Present(ctx, title, body); err != nil {
		return fmt.Errorf("present reminder %d: %w", f.ID, err)
	}
	return nil
}

var _ alarm.Handler = (*Receiver)(nil)
