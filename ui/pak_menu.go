package ui

import (
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"pakhost/pak"
)

// pakMenu renders the pak menu entries in the menu bar, after the fixed
// menus.
type pakMenu struct {
	bar     *gtk.MenuBar
	mw      *mainWindow
	widgets []gtk.IWidget
}

func newPakMenu(bar *gtk.MenuBar, mw *mainWindow) *pakMenu {
	return &pakMenu{bar: bar, mw: mw}
}

// Rebuild implements pak.Menu. It may be called from any goroutine.
func (pm *pakMenu) Rebuild(items []pak.Descriptor) {
	glib.IdleAdd(func() { pm.rebuild(items) })
}

func (pm *pakMenu) rebuild(items []pak.Descriptor) {
	for _, w := range pm.widgets {
		pm.bar.Remove(w)
	}
	pm.widgets = pm.widgets[:0]

	var sub *gtk.Menu
	for _, d := range items {
		switch d.Kind {
		case pak.Head:
			item := mustT(gtk.MenuItemNewWithLabel(d.Label))
			sub = mustT(gtk.MenuNew())
			item.SetSubmenu(sub)
			pm.bar.Append(item)
			pm.widgets = append(pm.widgets, item)
		case pak.Slave:
			if sub == nil {
				modGUI.WarnZ("menu entry without head").String("label", d.Label).End()
				continue
			}
			if d.Label == "" {
				sub.Append(mustT(gtk.SeparatorMenuItemNew()))
				continue
			}
			sub.Append(pm.newItem(d))
		case pak.Standalone:
			if d.Label == "" {
				sep := mustT(gtk.SeparatorMenuItemNew())
				pm.bar.Append(sep)
				pm.widgets = append(pm.widgets, sep)
				continue
			}
			item := pm.newItem(d)
			pm.bar.Append(item)
			pm.widgets = append(pm.widgets, item)
		}
	}

	pm.bar.ShowAll()
	pm.mw.refreshLabel()
}

func (pm *pakMenu) newItem(d pak.Descriptor) *gtk.MenuItem {
	item := mustT(gtk.MenuItemNewWithLabel(d.Label))
	id := d.ID
	item.Connect("activate", func() { pm.mw.activate(id) })
	return item
}

// fileChooser implements pak.Chooser with a gtk file chooser dialog.
type fileChooser struct {
	parent *gtk.Window
}

func (fc *fileChooser) Choose(dir string) (string, bool) {
	return openFileDialog(fc.parent, dir)
}
