package ui

import (
	"fmt"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
)

func build[T glib.IObject, P *T](builder *gtk.Builder, name string) *T {
	gobj, err := builder.GetObject(name)
	if err != nil {
		panic(fmt.Sprintf("builder: can't get object %q: %s", name, err))
	}
	obj, ok := gobj.(P)
	if !ok {
		var zero T
		panic(fmt.Sprintf("builder: object is not a %T but a %T", zero, gobj))
	}
	return obj
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustT[T any](v T, err error) T {
	must(err)
	return v
}

// openFileDialog shows a file chooser dialog for selecting a program pak:
// a ROM image or a module.
func openFileDialog(parent *gtk.Window, workdir string) (string, bool) {
	dlg := mustT(gtk.FileChooserDialogNewWith1Button(
		"Load Program Pack",
		parent,
		gtk.FILE_CHOOSER_ACTION_OPEN,
		"Open",
		gtk.RESPONSE_OK,
	))
	defer dlg.Destroy()

	filter := mustT(gtk.FileFilterNew())
	for _, pattern := range []string{"*.rom", "*.ROM", "*.bin", "*.BIN", "*.dll", "*.DLL", "*.so", "*.dylib"} {
		filter.AddPattern(pattern)
	}
	filter.SetName("Program Packs")
	dlg.AddFilter(filter)
	if workdir != "" {
		dlg.SetCurrentFolder(workdir)
	}
	if resp := dlg.Run(); resp != gtk.RESPONSE_OK {
		return "", false
	}
	return dlg.GetFilename(), true
}

func showMessage(parent *gtk.Window, typ gtk.MessageType, format string, args ...any) {
	dlg := gtk.MessageDialogNew(parent, gtk.DIALOG_MODAL, typ, gtk.BUTTONS_OK, format, args...)
	dlg.Run()
	dlg.Destroy()
}
