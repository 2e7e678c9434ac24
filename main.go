package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"

	"pakhost/emu"
	"pakhost/emu/log"
	"pakhost/ui"
)

func main() {
	cli := parseArgs(os.Args[1:])
	if cli.LogOut != nil {
		log.SetOutput(cli.LogOut)
		defer cli.LogOut.Close()
	}

	switch cli.mode {
	case guiMode:
		ui.RunApp(emu.LoadConfigOrDefault())
	case runMode:
		runHost(cli.Run)
	case infoMode:
		info, err := probePak(cli.Info.PakPath, nativeLoader)
		checkf(err, "failed to read pak")
		checkf(printInfos(os.Stdout, cli.Info.JSON, info), "failed to print infos")
	case scanMode:
		infos, err := scanDir(cli.Scan.Dir)
		checkf(err, "failed to scan directory")
		checkf(printInfos(os.Stdout, cli.Scan.JSON, infos...), "failed to print infos")
	case versionMode:
		fmt.Println("pakhost", version())
	}
}

func runHost(args Run) {
	cfg := emu.LoadConfigOrDefault()
	cfg.Audio.DisableAudio = !args.Audio
	cfg.Emulation.StartPaused = false

	var sink emu.AudioSink
	if args.Audio {
		sdlsink, err := emu.OpenSDLSink(cfg.Audio.SampleRate)
		checkf(err, "failed to open audio device")
		defer sdlsink.Close()
		sink = sdlsink
	}

	host := emu.NewHost(cfg, sink)
	defer host.Close()
	host.StatusChanged = func(status string) {
		log.ModEmu.InfoZ("pak status").String("status", status).End()
	}

	if args.PakPath != "" {
		checkf(host.Insert(args.PakPath), "failed to insert pak")
		fmt.Print(host.Describe())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := host.Run(ctx, args.Frames)
	if err != nil && !errors.Is(err, context.Canceled) {
		checkf(err, "host stopped")
	}
	log.ModEmu.InfoZ("host stopped").Uint64("frames", host.Frames()).End()
}

func version() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "(devel)"
	}
	return bi.Main.Version
}
