// Command actordemo runs a string-state actor on a chosen substrate, either through a
// scripted scenario (built in or YAML) or interactively.
//
//	actordemo -substrate ants -script testdata/hello.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/amp-labs/chanactor/actor"
	"github.com/amp-labs/chanactor/channel"
	"github.com/amp-labs/chanactor/cli"
	"github.com/amp-labs/chanactor/envutil"
	"github.com/amp-labs/chanactor/logger"
	"github.com/amp-labs/chanactor/should"
	"github.com/amp-labs/chanactor/shutdown"
	"github.com/amp-labs/chanactor/substrate/antspool"
	"github.com/amp-labs/chanactor/substrate/gochan"
	"github.com/amp-labs/chanactor/substrate/pondpool"
	"github.com/amp-labs/chanactor/telemetry"
)

const (
	appName                = "actordemo"
	telemetryFlushDeadline = 5 * time.Second
)

var ErrUnknownSubstrate = errors.New("unknown substrate")

// binding is a substrate's instantiation of the demo entry points.
type binding struct {
	script  func(ctx context.Context, script Script, initial string, out io.Writer) error
	console func(ctx context.Context, initial string, console prompter, out io.Writer) error
}

func bindingFor[C channel.Family[actor.Request], R channel.Family[actor.CommandResult]]() binding {
	return binding{
		script:  runScript[C, R],
		console: runConsole[C, R],
	}
}

var bindings = map[string]binding{ //nolint:gochecknoglobals
	gochan.Name:   bindingFor[gochan.Family[actor.Request], gochan.Family[actor.CommandResult]](),
	pondpool.Name: bindingFor[pondpool.Family[actor.Request], pondpool.Family[actor.CommandResult]](),
	antspool.Name: bindingFor[antspool.Family[actor.Request], antspool.Family[actor.CommandResult]](),
}

func substrateNames() string {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}

	sort.Strings(names)

	return strings.Join(names, ", ")
}

type options struct {
	substrate   string
	script      string
	initial     string
	environment string
	interactive bool
}

func parseFlags(args []string) (options, error) {
	var opts options

	flags := flag.NewFlagSet(appName, flag.ContinueOnError)
	flags.StringVar(&opts.substrate, "substrate", gochan.Name, "substrate to run on ("+substrateNames()+")")
	flags.StringVar(&opts.script, "script", "", "YAML scenario to run instead of the built-in one")
	flags.StringVar(&opts.initial, "initial", "Hello", "initial state when the scenario does not set one")
	flags.StringVar(&opts.environment, "env",
		envutil.String("ENVIRONMENT", envutil.Default("local")).ValueOrElse("local"),
		"deployment environment reported to telemetry")
	flags.BoolVar(&opts.interactive, "interactive", false, "prompt for commands instead of running a scenario")

	if err := flags.Parse(args); err != nil {
		return options{}, err
	}

	if _, ok := bindings[opts.substrate]; !ok {
		return options{}, fmt.Errorf("%w %q (want one of %s)", ErrUnknownSubstrate, opts.substrate, substrateNames())
	}

	return opts, nil
}

func loadScript(ctx context.Context, path string) (Script, error) {
	if path == "" {
		return DefaultScript(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Script{}, err
	}

	defer should.Close(ctx, f, "closing script file")

	return LoadScript(f)
}

func run(args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	if _, err := logger.ConfigureLogging(appName); err != nil {
		return err
	}

	ctx := shutdown.SetupHandler()
	defer shutdown.Cleanup()

	config, err := telemetry.LoadConfigFromEnv(ctx, opts.environment)
	if err != nil {
		return err
	}

	ctx, err = telemetry.Initialize(ctx, config)
	if err != nil {
		return err
	}

	shutdown.BeforeShutdown(func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushDeadline)
		defer cancel()

		if err := telemetry.Shutdown(flushCtx); err != nil {
			logger.Get(flushCtx).Warn("telemetry shutdown failed", "error", err)
		}
	})

	_, _ = fmt.Fprint(out, cli.BannerAutoWidth(appName+" on "+opts.substrate, cli.AlignCenter))

	b := bindings[opts.substrate]

	if opts.interactive {
		return b.console(ctx, opts.initial, cli.Stdio(), out)
	}

	script, err := loadScript(ctx, opts.script)
	if err != nil {
		return err
	}

	return b.script(ctx, script, opts.initial, out)
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}

		logger.Get().Error("actordemo failed", "error", err)
		os.Exit(1)
	}
}
