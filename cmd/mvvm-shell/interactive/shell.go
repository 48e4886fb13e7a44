// Package interactive provides the interactive command-line interface
// for mvvm-shell.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"github.com/mvvm-kit/mvvm-go/pkg/command"
	"github.com/mvvm-kit/mvvm-go/pkg/notify"
	"github.com/mvvm-kit/mvvm-go/pkg/observable"
	"github.com/mvvm-kit/mvvm-go/pkg/runloop"
)

// ErrQuit is returned by Exec when the user asks to leave.
var ErrQuit = errors.New("quit")

// binding pairs a command with the parser for its textual argument.
type binding struct {
	cmd   command.Bindable
	parse func(arg string) (any, error)
}

// Shell handles interactive mode for mvvm-shell. Commands are executed on
// the UI loop, the way a view would invoke them.
type Shell struct {
	vm      *Counter
	loop    *runloop.Loop
	logger  *slog.Logger
	session string

	rl  *readline.Instance
	out io.Writer

	bindings map[string]binding

	mu      sync.Mutex
	watches []*notify.Handle

	closeOnce sync.Once
	closeErr  error
}

// New creates a shell reading from the terminal.
func New(vm *Counter, loop *runloop.Loop, logger *slog.Logger, prompt string) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := newShell(vm, loop, logger, &lockedWriter{w: rl.Stdout()})
	s.rl = rl
	return s, nil
}

// NewWithOutput creates a shell without a terminal. Lines are fed with Exec.
func NewWithOutput(vm *Counter, loop *runloop.Loop, logger *slog.Logger, out io.Writer) *Shell {
	return newShell(vm, loop, logger, &lockedWriter{w: out})
}

func newShell(vm *Counter, loop *runloop.Loop, logger *slog.Logger, out io.Writer) *Shell {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Shell{
		vm:      vm,
		loop:    loop,
		session: uuid.NewString(),
		out:     out,
	}
	s.logger = logger.With("session", s.session)

	s.bindings = map[string]binding{
		"inc":   {cmd: vm.Increment, parse: parseStep},
		"dec":   {cmd: vm.Decrement, parse: parseStep},
		"reset": {cmd: vm.Reset, parse: parseOptionalValue},
	}
	return s
}

// Session returns the shell's session ID.
func (s *Shell) Session() string {
	return s.session
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Stderr returns a writer for log output. It does not interfere with the
// command prompt when a terminal is attached.
func (s *Shell) Stderr() io.Writer {
	if s.rl != nil {
		return s.rl.Stderr()
	}
	return s.out
}

// Run starts the interactive command loop. It returns nil when the user
// quits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	if s.rl == nil {
		return errors.New("no terminal attached")
	}

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		}

		if err := s.Exec(line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

// Exec runs one command line.
func (s *Shell) Exec(line string) error {
	input := strings.TrimSpace(line)
	if input == "" {
		return nil
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
		return nil

	case "exec", "x":
		return s.runCommand(args, true)

	case "can", "c":
		return s.cmdCan(args)

	case "watch", "w":
		return s.cmdWatch()

	case "unwatch":
		s.cmdUnwatch()
		return nil

	case "status", "s":
		s.cmdStatus()
		return nil

	case "pump", "p":
		s.cmdPump()
		return nil

	case "quit", "exit", "q":
		return ErrQuit

	default:
		if _, ok := s.bindings[cmd]; ok {
			return s.runCommand(parts, false)
		}
		return fmt.Errorf("unknown command: %s (type 'help' for commands)", cmd)
	}
}

// Close disposes the shell's subscriptions and releases the terminal.
// Safe to call more than once.
func (s *Shell) Close() error {
	s.closeOnce.Do(func() {
		s.cmdUnwatch()
		if s.rl != nil {
			s.closeErr = s.rl.Close()
		}
	})
	return s.closeErr
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `
Commands:
  inc [step]            Increment the counter (default step 1)
  dec [step]            Decrement the counter (default step 1)
  reset [value]         Reset to value, or to the initial value
  exec <cmd> [arg]      Execute a command without checking CanExecute
  can <cmd> [arg]       Show whether a command can execute
  watch                 Print property and command state changes
  unwatch               Stop printing changes
  status                Show counter, commands, and loop state
  pump                  Run queued UI work (when the loop is not started)
  help                  Show this help
  quit                  Exit
`)
}

func (s *Shell) lookup(args []string) (binding, any, error) {
	if len(args) < 1 {
		return binding{}, nil, errors.New("command name required")
	}
	b, ok := s.bindings[strings.ToLower(args[0])]
	if !ok {
		return binding{}, nil, fmt.Errorf("unknown command: %s (use %s)", args[0], strings.Join(s.commandNames(), ", "))
	}
	arg := ""
	if len(args) > 1 {
		arg = args[1]
	}
	p, err := b.parse(arg)
	if err != nil {
		return binding{}, nil, err
	}
	return b, p, nil
}

// runCommand posts the command to the UI loop. Unless force is set, a
// command that cannot execute is skipped, as a disabled button would be.
func (s *Shell) runCommand(args []string, force bool) error {
	b, p, err := s.lookup(args)
	if err != nil {
		return err
	}

	name := strings.ToLower(args[0])
	s.loop.Post(func() {
		if !force {
			ok, err := b.cmd.CanExecuteAny(p)
			if err != nil {
				s.logger.Error("Command parameter rejected", "command", name, "error", err)
				return
			}
			if !ok {
				fmt.Fprintf(s.out, "%s is disabled\n", name)
				return
			}
		}
		if err := b.cmd.ExecuteAny(p); err != nil {
			s.logger.Error("Command parameter rejected", "command", name, "error", err)
			return
		}
		s.logger.Debug("Command executed", "command", name, "value", s.vm.Value())
	})
	return nil
}

func (s *Shell) cmdCan(args []string) error {
	b, p, err := s.lookup(args)
	if err != nil {
		return err
	}
	ok, err := b.cmd.CanExecuteAny(p)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s: %t\n", strings.ToLower(args[0]), ok)
	return nil
}

func (s *Shell) cmdWatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.watches) > 0 {
		fmt.Fprintln(s.out, "Already watching")
		return nil
	}

	h, err := s.vm.OnPropertyChanged(func(_ context.Context, e observable.PropertyChanged) {
		fmt.Fprintf(s.out, "[changed] %s = %d\n", e.PropertyName, s.vm.Value())
	})
	if err != nil {
		return err
	}
	handles := []*notify.Handle{h}

	for _, name := range s.commandNames() {
		b := s.bindings[name]
		h, err := b.cmd.OnStateChanged(func(context.Context, command.StateChanged) {
			p, _ := b.parse("")
			ok, _ := b.cmd.CanExecuteAny(p)
			fmt.Fprintf(s.out, "[state] %s enabled=%t\n", name, ok)
		})
		if err != nil {
			for _, h := range handles {
				h.Dispose()
			}
			return err
		}
		handles = append(handles, h)
	}

	s.watches = handles
	fmt.Fprintf(s.out, "Watching %d channels\n", len(handles))
	return nil
}

func (s *Shell) cmdUnwatch() {
	s.mu.Lock()
	handles := s.watches
	s.watches = nil
	s.mu.Unlock()

	for _, h := range handles {
		h.Dispose()
	}
}

func (s *Shell) cmdStatus() {
	fmt.Fprintf(s.out, "Session:  %s\n", s.session)
	fmt.Fprintf(s.out, "Value:    %d\n", s.vm.Value())
	for _, name := range s.commandNames() {
		b := s.bindings[name]
		p, _ := b.parse("")
		ok, _ := b.cmd.CanExecuteAny(p)
		fmt.Fprintf(s.out, "  %-6s enabled=%t\n", name, ok)
	}
	events, observers := s.vm.Subscribers()
	fmt.Fprintf(s.out, "Subscribers: %d handlers, %d observers\n", events, observers)
	fmt.Fprintf(s.out, "Loop %s: %d queued, %d executed, %d dropped\n",
		s.loop.Name(), s.loop.Len(), s.loop.Executed(), s.loop.Dropped())
}

func (s *Shell) cmdPump() {
	if s.loop.Running() {
		fmt.Fprintln(s.out, "loop is running")
		return
	}
	n := s.loop.RunPending()
	fmt.Fprintf(s.out, "Ran %d items\n", n)
}

func (s *Shell) commandNames() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parseStep(arg string) (any, error) {
	if arg == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid step %q: %w", arg, err)
	}
	return n, nil
}

func parseOptionalValue(arg string) (any, error) {
	if arg == "" {
		// nil converts to a nil *int.
		return nil, nil
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", arg, err)
	}
	return &n, nil
}

// lockedWriter serializes writes from the shell and from callbacks running
// on the UI loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
