package ui

import (
	"github.com/gotk3/gotk3/gtk"

	"pakhost/emu"
)

type emulationConfigPage struct {
	parent *gtk.Dialog
	cfg    *emu.EmulationConfig
}

func buildEmulationConfigPage(parent *gtk.Dialog, cfg *emu.EmulationConfig, builder *gtk.Builder) *emulationConfigPage {
	page := &emulationConfigPage{
		parent: parent,
		cfg:    cfg,
	}

	adjustment := build[gtk.Adjustment](builder, "frame_rate_adjustment")
	adjustment.SetValue(float64(cfg.FrameRate))

	frameRate := build[gtk.SpinButton](builder, "frame_rate_spin")
	frameRate.Connect("value-changed", func(_ *gtk.SpinButton) {
		cfg.FrameRate = frameRate.GetValueAsInt()
		modGUI.InfoZ("Setting frame rate to").Int("value", cfg.FrameRate).End()
	})

	paused := build[gtk.Switch](builder, "start_paused_switch")
	paused.SetActive(cfg.StartPaused)
	paused.Connect("state-set", func(_ *gtk.Switch, state bool) {
		cfg.StartPaused = state
	})
	return page
}
