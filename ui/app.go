package ui

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/wayfinder/pkg/engine"
	"github.com/odvcencio/wayfinder/pkg/geometry"
	"github.com/odvcencio/wayfinder/pkg/layout"
	"github.com/odvcencio/wayfinder/pkg/logging"
)

// reloadRequest tags an interrupt event posted by the layout watcher.
type reloadRequest struct{}

// AppConfig configures the demo app.
type AppConfig struct {
	Host       *Host
	Engine     *engine.Engine
	Logger     *logging.Logger
	LayoutPath string

	// OnCommand is called after each engine command with its name and
	// whether it changed focus. Used by the demo for metrics/tracing.
	OnCommand func(name string, moved bool)

	// Screen overrides the real terminal, for tests.
	Screen tcell.Screen
}

// App owns the tcell event loop. Keyboard events become engine
// commands; mouse clicks become external focus the engine reconciles.
type App struct {
	screen     tcell.Screen
	host       *Host
	engine     *engine.Engine
	logger     *logging.Logger
	layoutPath string
	onCommand  func(string, bool)

	status   string
	closing  bool
	closeMu  sync.Mutex
	closedCh chan struct{}
}

// NewApp creates the demo app.
func NewApp(cfg AppConfig) *App {
	return &App{
		screen:     cfg.Screen,
		host:       cfg.Host,
		engine:     cfg.Engine,
		logger:     cfg.Logger,
		layoutPath: cfg.LayoutPath,
		onCommand:  cfg.OnCommand,
		closedCh:   make(chan struct{}),
	}
}

// Run drives the event loop until quit or context cancellation.
func (a *App) Run(ctx context.Context) error {
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("creating screen: %w", err)
		}
		a.screen = screen
	}
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	a.screen.EnableMouse()
	defer a.screen.Fini()
	defer close(a.closedCh)

	stop := context.AfterFunc(ctx, func() {
		a.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	a.render()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(reloadRequest); ok {
				a.reload()
				a.render()
				continue
			}
			// Interrupt without data is the context-cancel wakeup.
			return ctx.Err()

		case *tcell.EventResize:
			a.screen.Sync()
			a.render()

		case *tcell.EventKey:
			if a.handleKey(ev) {
				return nil
			}
			a.render()

		case *tcell.EventMouse:
			a.handleMouse(ev)
			a.render()
		}
	}
}

// RequestReload asks the event loop to reload the layout file. Safe to
// call from another goroutine (the fsnotify watcher).
func (a *App) RequestReload() {
	a.closeMu.Lock()
	defer a.closeMu.Unlock()
	if a.closing || a.screen == nil {
		return
	}
	select {
	case <-a.closedCh:
	default:
		a.screen.PostEvent(tcell.NewEventInterrupt(reloadRequest{}))
	}
}

// handleKey dispatches one key event. Returns true to quit.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		a.command("move_up", func() bool { return a.engine.Move(geometry.DirUp) })
	case tcell.KeyDown:
		a.command("move_down", func() bool { return a.engine.Move(geometry.DirDown) })
	case tcell.KeyLeft:
		a.command("move_left", func() bool { return a.engine.Move(geometry.DirLeft) })
	case tcell.KeyRight:
		a.command("move_right", func() bool { return a.engine.Move(geometry.DirRight) })
	case tcell.KeyEnter:
		a.command("select", a.engine.Select)
	case tcell.KeyEscape:
		a.command("back", a.engine.Back)
	case tcell.KeyCtrlC:
		a.markClosing()
		return true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.markClosing()
			return true
		case 'r':
			a.reload()
		}
	}
	return false
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := ev.Position()
	if b := a.host.BoxAt(float64(x), float64(y)); b != nil {
		a.host.FocusExternally(b)
		a.status = fmt.Sprintf("clicked %s", b.ID())
	}
}

func (a *App) command(name string, run func() bool) {
	moved := run()
	if moved {
		if cur := a.engine.Current(); cur != nil {
			if b, ok := cur.(*Box); ok {
				a.status = fmt.Sprintf("%s -> %s", name, b.ID())
			}
		}
	} else {
		a.status = fmt.Sprintf("%s: no move", name)
	}
	if a.onCommand != nil {
		a.onCommand(name, moved)
	}
}

// reload re-reads the layout file and refreshes the engine's regions.
func (a *App) reload() {
	if a.layoutPath == "" {
		return
	}
	l, err := layout.Load(a.layoutPath)
	if err != nil {
		a.logger.Warn(logging.CategoryHost, "reload_failed", err.Error(), nil)
		a.status = "reload failed"
		return
	}
	a.host.Reload(l)
	a.engine.RefreshRegions()
	a.status = fmt.Sprintf("reloaded %d boxes", len(l.Boxes))
	if a.onCommand != nil {
		a.onCommand("reload", true)
	}
}

func (a *App) markClosing() {
	a.closeMu.Lock()
	a.closing = true
	a.closeMu.Unlock()
}

var (
	styleBase    = tcell.StyleDefault
	styleBox     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFocused = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleHead    = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

func (a *App) render() {
	a.screen.Clear()

	for _, b := range a.host.Boxes() {
		if !b.Visible() {
			continue
		}
		style := styleBox
		if b.GroupKey() != "" {
			style = styleHead
		}
		if a.host.Decorated(b) {
			style = styleFocused
		}
		a.drawBox(b, style)
	}

	_, height := a.screen.Size()
	a.drawText(0, height-1, "arrows move · enter select · esc back · r reload · q quit", styleBase)
	if a.status != "" {
		a.drawText(0, height-2, a.status, styleStatus)
	}

	a.screen.Show()
}

func (a *App) drawBox(b *Box, style tcell.Style) {
	r := b.Bounds()
	left, top := int(r.Left), int(r.Top)
	right, bottom := int(r.Right)-1, int(r.Bottom)-1
	if right <= left || bottom <= top {
		return
	}

	for x := left + 1; x < right; x++ {
		a.screen.SetContent(x, top, tcell.RuneHLine, nil, style)
		a.screen.SetContent(x, bottom, tcell.RuneHLine, nil, style)
	}
	for y := top + 1; y < bottom; y++ {
		a.screen.SetContent(left, y, tcell.RuneVLine, nil, style)
		a.screen.SetContent(right, y, tcell.RuneVLine, nil, style)
	}
	a.screen.SetContent(left, top, tcell.RuneULCorner, nil, style)
	a.screen.SetContent(right, top, tcell.RuneURCorner, nil, style)
	a.screen.SetContent(left, bottom, tcell.RuneLLCorner, nil, style)
	a.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, style)

	label := b.ID()
	if b.GroupKey() != "" {
		label += " »"
	}
	if len(label) > right-left-1 {
		label = label[:right-left-1]
	}
	a.drawText(left+1, top, label, style)
}

func (a *App) drawText(x, y int, text string, style tcell.Style) {
	for i, ch := range text {
		a.screen.SetContent(x+i, y, ch, nil, style)
	}
}
