package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"pakhost/emu/log"
)

type mode byte

const (
	guiMode     mode = iota // Start the graphical user interface
	runMode                 // Run the host headless
	infoMode                // Show pak infos
	scanMode                // List the paks in a directory
	versionMode             // Show version
)

type (
	CLI struct {
		GUI     GUI     `cmd:"" help:"Run the graphical user interface. (default command)" default:"true"`
		Run     Run     `cmd:"" help:"Run the host without user interface."`
		Info    Info    `cmd:"" help:"Show program pak infos."`
		Scan    Scan    `cmd:"" help:"List the program paks found in a directory."`
		Version Version `cmd:"" help:"Show version."`

		Log    logModMask `help:"${log_help}" placeholder:"mod0,mod1,..."`
		LogOut *outfile   `name:"log-out" help:"Write logs to file." placeholder:"FILE|stdout|stderr"`

		mode mode
	}

	GUI struct{}

	Run struct {
		PakPath string `arg:"" name:"/path/to/pak" help:"${pakpath_help}" optional:"" type:"existingfile"`

		Frames uint64 `name:"frames" help:"Number of frames to run, 0 runs until interrupted." default:"0"`
		Audio  bool   `name:"audio" help:"Play the pak audio output."`
	}

	Info struct {
		PakPath string `arg:"" name:"/path/to/pak" type:"existingfile"`
		JSON    bool   `name:"json" help:"Print infos as JSON."`
	}

	Scan struct {
		Dir  string `arg:"" name:"/path/to/dir" type:"existingdir"`
		JSON bool   `name:"json" help:"Print infos as JSON."`
	}

	Version struct{}
)

var vars = kong.Vars{
	"pakpath_help": "Program pak (ROM image or module) to insert before running.",
	"log_help":     "Enable logging for specified modules.",
}

func parseArgs(args []string) CLI {
	var cfg CLI
	parser, err := kong.New(&cfg,
		kong.Name("pakhost"),
		kong.Description("Program pak host."),
		kong.UsageOnError(),
		kong.Help(printHelp),
		vars)
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args)
	checkf(err, "failed to parse command line")
	checkf(ctx.Error, "failed to parse command line")

	switch {
	case ctx.Command() == "gui":
		cfg.mode = guiMode
	case strings.HasPrefix(ctx.Command(), "info"):
		cfg.mode = infoMode
	case strings.HasPrefix(ctx.Command(), "scan"):
		cfg.mode = scanMode
	case ctx.Command() == "version":
		cfg.mode = versionMode
	default:
		cfg.mode = runMode
	}
	return cfg
}

func printHelp(options kong.HelpOptions, ctx *kong.Context) error {
	if err := kong.DefaultHelpPrinter(options, ctx); err != nil {
		return err
	}
	if strings.HasPrefix(ctx.Command(), "run") || ctx.Command() == "gui" {
		loggingHelp := `
Log modules:
  The --log flag accepts a comma-separated list of modules.

  Valid log modules are:
%s

  As a special case, the following values are accepted:
    - no                     Disable all logging.
    - all                    Enable all logs.
`
		var strs []string
		for _, m := range log.ModuleNames() {
			strs = append(strs, "    - "+m)
		}

		fmt.Fprintf(os.Stderr, loggingHelp, strings.Join(strs, "\n"))
	}

	return nil
}

type logModMask log.ModuleMask

// Decode decodes a comma-separated list of module names into a module mask.
//
// Implements kong.MapperValue interface.
func (lm logModMask) Decode(ctx *kong.DecodeContext) error {
	mask, nolog, err := parseModMask(ctx.Scan.Pop().Value.(string))
	if err != nil {
		return err
	}
	if nolog {
		log.Disable()
		return nil
	}
	log.EnableDebugModules(mask)
	return nil
}

// parseModMask parses a comma-separated list of log module names.
func parseModMask(list string) (mask log.ModuleMask, nolog bool, err error) {
	allLogs := false
	for _, v := range strings.Split(list, ",") {
		switch v {
		case "all":
			allLogs = true
		case "no":
			nolog = true
		default:
			mod, ok := log.ModuleByName(v)
			if !ok {
				return 0, false, fmt.Errorf("unknown log module %s", v)
			}
			mask |= mod.Mask()
		}
	}

	if nolog {
		if allLogs {
			return 0, false, fmt.Errorf("cannot use 'all' and 'no' together")
		}
		if mask != 0 {
			return 0, false, fmt.Errorf("cannot combine 'no' with other log modules")
		}
		return 0, true, nil
	}
	if allLogs {
		mask = log.ModuleMaskAll
	}
	return mask, false, nil
}

type outfile struct {
	w     io.Writer
	name  string
	close func() error
}

// Decode decodes FILE|stdout|stderr into an io.WriteCloser
// that writes to that file.
//
// Implements kong.MapperValue interface.
func (f *outfile) Decode(ctx *kong.DecodeContext) error {
	tok := ctx.Scan.Pop()
	f.name = tok.Value.(string)
	f.close = func() error { return nil }

	switch f.name {
	case "stdout":
		f.w = os.Stdout
	case "stderr":
		f.w = os.Stderr
	default:
		fd, err := os.Create(f.name)
		if err != nil {
			return err
		}
		f.w = fd
		f.close = fd.Close
	}
	return nil
}

func (f *outfile) String() string              { return f.name }
func (f *outfile) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *outfile) Close() error                { return f.close() }

func checkf(err error, format string, args ...any) {
	if err == nil {
		return
	}
	fatalf(format+".\n"+err.Error(), args...)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fatal error:")
	fmt.Fprintf(os.Stderr, "\n\t%s\n", fmt.Sprintf(format, args...))
	os.Exit(1)
}
