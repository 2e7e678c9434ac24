package ui

import (
	"context"
	_ "embed"
	"errors"
	"sync"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"pakhost/emu"
	"pakhost/emu/log"
	"pakhost/pak"
)

var modGUI = log.NewModule("gui")

//go:embed main_window.glade
var mainWindowUI string

// RunApp creates and shows the main window, runs the host and blocks until
// the window is closed.
func RunApp(cfg emu.Config, opts ...pak.Option) {
	gtk.Init(nil)

	var sink emu.AudioSink
	if !cfg.Audio.DisableAudio {
		sdlsink, err := emu.OpenSDLSink(cfg.Audio.SampleRate)
		if err != nil {
			modGUI.WarnZ("can't open audio device").Error("err", err).End()
		} else {
			defer sdlsink.Close()
			sink = sdlsink
		}
	}

	host := emu.NewHost(cfg, sink, opts...)
	mw := showMainWindow(host, &cfg)
	if cfg.Pak.Path != "" {
		if err := host.Insert(cfg.Pak.Path); err != nil {
			modGUI.WarnZ("can't insert pak").
				String("path", cfg.Pak.Path).
				Error("err", err).
				End()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := host.Run(ctx, 0); err != nil && !errors.Is(err, context.Canceled) {
			modGUI.WarnZ("host stopped").Error("err", err).End()
		}
	}()

	gtk.Main()
	modGUI.InfoZ("Exited gtk").End()

	cancel()
	wg.Wait()
	host.Close()
	mw.saveConfig()
}

type mainWindow struct {
	*gtk.Window
	host   *emu.Host
	cfg    *emu.Config
	label  *gtk.Label
	status string
}

func showMainWindow(host *emu.Host, cfg *emu.Config) *mainWindow {
	builder := mustT(gtk.BuilderNewFromString(mainWindowUI))

	mw := &mainWindow{
		Window: build[gtk.Window](builder, "main_window"),
		host:   host,
		cfg:    cfg,
		label:  build[gtk.Label](builder, "status_label"),
	}
	mw.Connect("destroy", gtk.MainQuit)

	build[gtk.MenuItem](builder, "menu_quit").Connect("activate", gtk.MainQuit)

	pause := build[gtk.CheckMenuItem](builder, "menu_pause")
	pause.SetActive(host.Paused())
	pause.Connect("toggled", func(m *gtk.CheckMenuItem) {
		host.SetPause(m.GetActive())
	})
	build[gtk.MenuItem](builder, "menu_reset").Connect("activate", host.Reset)
	build[gtk.MenuItem](builder, "menu_hard_reset").Connect("activate", host.Restart)
	build[gtk.MenuItem](builder, "menu_pak_info").Connect("activate", mw.showPakInfo)
	build[gtk.MenuItem](builder, "menu_config").Connect("activate", func() {
		showConfig(mw.Window, mw.cfg)
		mw.saveConfig()
	})

	host.StatusChanged = func(s string) {
		glib.IdleAdd(func() { mw.setStatus(s) })
	}
	menu := newPakMenu(build[gtk.MenuBar](builder, "menubar"), mw)
	host.SetMenu(menu, &fileChooser{parent: mw.Window})

	mw.ShowAll()
	return mw
}

// activate forwards the activation of a pak menu entry to the host.
func (mw *mainWindow) activate(id int) {
	err := mw.host.Activate(id)
	switch {
	case err == nil:
	case errors.Is(err, pak.ErrBusy):
		showMessage(mw.Window, gtk.MESSAGE_WARNING, "Close the configuration dialog before unloading the pak.")
	default:
		modGUI.WarnZ("pak menu").Int("id", id).Error("err", err).End()
		showMessage(mw.Window, gtk.MESSAGE_ERROR, "%s", err)
	}
}

func (mw *mainWindow) setStatus(s string) {
	mw.status = s
	mw.refreshLabel()
}

func (mw *mainWindow) refreshLabel() {
	text := mw.host.Identity().Name
	if mw.status != "" {
		text += ": " + mw.status
	}
	mw.label.SetText(text)
}

func (mw *mainWindow) showPakInfo() {
	id := mw.host.Identity()
	text := mw.host.Describe()
	if id.Catalog != "" {
		text += "Catalog: " + id.Catalog + "\n"
	}
	if id.Path != "" {
		text += "Path: " + id.Path + "\n"
	}
	showMessage(mw.Window, gtk.MESSAGE_INFO, "%s", text)
}

func (mw *mainWindow) saveConfig() {
	mw.cfg.Pak = mw.host.Config().Pak
	if err := emu.SaveConfig(*mw.cfg); err != nil {
		modGUI.Warnf("failed to save config: %s", err)
	}
}
