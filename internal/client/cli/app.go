package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dmitrijs2005/spellcaster/internal/client/client"
	"github.com/dmitrijs2005/spellcaster/internal/client/config"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrUsage is returned when the command line cannot be understood.
var ErrUsage = errors.New("usage")

type caller interface {
	Call(ctx context.Context, method string, in map[string]any) (*structpb.Struct, error)
	Close() error
}

type App struct {
	config *config.Config
	client caller
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	cl, err := client.NewSpellClient(c.ServerEndpointAddr, c.AccessToken, c.Timeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, client: cl, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run executes the command named by args[0] with the remaining arguments.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.client.Close()

	if len(args) == 0 {
		a.usage()
		return ErrUsage
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		a.usage()
		return nil
	}

	cmd, ok := commands[name]
	if !ok {
		a.usage()
		return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
	}
	return cmd.run(a, ctx, args[1:])
}

func (a *App) usage() {
	fmt.Fprintln(a.out, "usage: spellctl [-c file] [-a addr] [-t token] [-T timeout] <command> [flags]")
	fmt.Fprintln(a.out, "\ncommands:")

	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(a.out, "  %-14s %s\n", n, commands[n].help)
	}
}

func (a *App) call(ctx context.Context, method string, in map[string]any) error {
	resp, err := a.client.Call(ctx, method, in)
	if err != nil {
		return err
	}
	return a.print(resp)
}

func (a *App) print(m *structpb.Struct) error {
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(m)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}

// SplitArgs separates the global flags from the subcommand and its flags.
// Global flags all take a value, either as "-a x" or "-a=x".
func SplitArgs(argv []string) (global, rest []string) {
	valued := map[string]bool{"-a": true, "-t": true, "-T": true, "-c": true, "-config": true}

	i := 0
	for i < len(argv) {
		arg := argv[i]
		if !strings.HasPrefix(arg, "-") || arg == "-h" || arg == "--help" {
			break
		}
		i++
		if !strings.Contains(arg, "=") && valued[arg] && i < len(argv) {
			i++
		}
	}
	return argv[:i], argv[i:]
}
