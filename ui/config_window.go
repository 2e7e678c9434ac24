package ui

import (
	_ "embed"

	"github.com/gotk3/gotk3/gtk"

	"pakhost/emu"
)

//go:embed config.glade
var configUI string

func showConfig(parent *gtk.Window, cfg *emu.Config) {
	builder := mustT(gtk.BuilderNewFromString(configUI))

	dlg := build[gtk.Dialog](builder, "config_dialog")
	dlg.SetTransientFor(parent)
	mustT(dlg.AddButton("Close", gtk.RESPONSE_CLOSE))

	buildAudioConfigPage(dlg, &cfg.Audio, builder)
	buildEmulationConfigPage(dlg, &cfg.Emulation, builder)
	dlg.ShowAll()
	dlg.Run()
	dlg.Destroy()
}
