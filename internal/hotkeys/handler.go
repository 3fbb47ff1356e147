package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/chromeless/internal/config"
	"github.com/1broseidon/chromeless/internal/shell"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Performer runs a window action.
type Performer interface {
	Perform(shell.Action) error
}

// Handler manages keyboard shortcuts grabbed on one window. They fire only
// while that window has keyboard focus.
type Handler struct {
	xu     *xgbutil.XUtil
	win    xproto.Window
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler for win.
func NewHandler(xu *xgbutil.XUtil, win xproto.Window, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		win:    win,
		logger: logger,
	}
}

// Binding ties a key sequence to an action.
type Binding struct {
	Action shell.Action
	Keys   string
}

// Bindings lists the configured shortcuts in action order. Empty key
// sequences are skipped.
func Bindings(keys config.KeysConfig) []Binding {
	all := []Binding{
		{Action: shell.ActionMinimize, Keys: keys.Minimize},
		{Action: shell.ActionToggleMaximize, Keys: keys.ToggleMaximize},
		{Action: shell.ActionClose, Keys: keys.Close},
	}
	out := all[:0]
	for _, b := range all {
		if b.Keys != "" {
			out = append(out, b)
		}
	}
	return out
}

// RegisterActions grabs every configured shortcut and routes it to p. A
// failing binding does not prevent the others from being registered.
func (h *Handler) RegisterActions(keys config.KeysConfig, p Performer) error {
	var errs []error
	for _, b := range Bindings(keys) {
		action := b.Action
		err := h.RegisterFunc(b.Keys, func() {
			h.logger.Debug("hotkey triggered", "keys", b.Keys, "action", action)
			if err := p.Perform(action); err != nil {
				h.logger.Warn("hotkey action failed", "action", action, "error", err)
			}
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to bind %s to %s: %w", b.Keys, action, err))
		}
	}
	return errors.Join(errs...)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.win, keySequence, true)
}

// Detach releases every grab made on the window.
func (h *Handler) Detach() {
	keybind.Detach(h.xu, h.win)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")
	xevent.IgnoreMods = ignoreMasks(numLock, scrollLock)
}

// ignoreMasks returns every combination of CapsLock, NumLock and
// ScrollLock, including the empty mask, so bindings fire regardless of lock
// state. Zero or duplicate lock masks are skipped.
func ignoreMasks(numLock, scrollLock uint16) []uint16 {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	ignore := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		ignore = append(ignore, mask)
	}
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
