package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"text/tabwriter"

	"github.com/go-faster/jx"
	"golang.org/x/sync/errgroup"

	"pakhost/pak"
	"pakhost/pakfile"
)

var nativeLoader = pak.NativeLoader()

type pakInfo struct {
	pakfile.Info

	// Only known for images and for native modules that have been loaded.
	Name    string
	Catalog string
	Caps    pak.CapabilityFlags
}

// probePak identifies the pak at path. Native modules are loaded in order to
// query their name and capabilities.
func probePak(path string, loader pak.Loader) (pakInfo, error) {
	fi, err := pakfile.Probe(path)
	if err != nil {
		return pakInfo{}, err
	}
	info := pakInfo{Info: fi}
	if fi.Type != pakfile.Native {
		info.Name = filepath.Base(path)
		return info, nil
	}

	id, caps, err := pak.IdentifyModule(loader, path)
	if err != nil {
		return info, err
	}
	info.Name, info.Catalog, info.Caps = id.Name, id.Catalog, caps
	return info, nil
}

// scanDir probes all regular files in dir. Native modules aren't loaded.
func scanDir(dir string) ([]pakInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	entries = slices.DeleteFunc(entries, func(e os.DirEntry) bool {
		return !e.Type().IsRegular()
	})

	infos := make([]pakInfo, len(entries))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, e := range entries {
		g.Go(func() error {
			fi, err := pakfile.Probe(filepath.Join(dir, e.Name()))
			if err != nil {
				return err
			}
			infos[i] = pakInfo{Info: fi}
			if fi.Type == pakfile.Image {
				infos[i].Name = e.Name()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return infos, nil
}

func printInfos(w io.Writer, asJSON bool, infos ...pakInfo) error {
	if asJSON {
		return writeJSON(w, infos)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			info.Path, info.Type, info.Size, info.Name, info.Catalog, info.Caps)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, infos []pakInfo) error {
	var e jx.Encoder
	e.SetIdent(2)
	e.Arr(func(e *jx.Encoder) {
		for _, info := range infos {
			e.Obj(func(e *jx.Encoder) {
				e.Field("path", func(e *jx.Encoder) { e.Str(info.Path) })
				e.Field("type", func(e *jx.Encoder) { e.Str(info.Type.String()) })
				e.Field("size", func(e *jx.Encoder) { e.Int64(info.Size) })
				if info.Name != "" {
					e.Field("name", func(e *jx.Encoder) { e.Str(info.Name) })
				}
				if info.Catalog != "" {
					e.Field("catalog", func(e *jx.Encoder) { e.Str(info.Catalog) })
				}
				if info.Type == pakfile.Native {
					e.Field("capabilities", func(e *jx.Encoder) {
						e.Arr(func(e *jx.Encoder) {
							for _, name := range info.Caps.Names() {
								e.Str(name)
							}
						})
					})
				}
			})
		}
	})
	if _, err := w.Write(e.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
