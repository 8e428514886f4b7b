// Package maincmd wires the command-line entry point: flag parsing, file
// handling, and the xmlprog -> machine.Validate -> machine.BuildLabels ->
// Machine.Run pipeline. It is adapted from the teacher's internal/maincmd,
// stripped down to one operation since IPPcode23 has no subcommands to
// dispatch over by reflection.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/ippcode23/internal/xmlprog"
	"github.com/mna/ippcode23/lang/machine"
	"github.com/mna/ippcode23/lang/status"
)

const binName = "ippcode23"

var shortUsage = fmt.Sprintf(`
usage: %s --source=<file> [--input=<file>]
Run '%[1]s --help' for details.
`, binName)

var longUsage = fmt.Sprintf(`usage: %s --source=<file> [--input=<file>]
       %[1]s -h|--help
       %[1]s -v|--version

Interpreter for the IPPcode23 instruction set: reads an XML-encoded
program and executes it.

Valid flag options are:
       --source=<file>           Path to the XML source file. If omitted,
                                 the program is read from standard input.
       --input=<file>            Path to the file providing READ's input
                                 queue. If omitted, standard input is used.
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.

Either --source or --input may be omitted, but not both, since both
cannot read from standard input at once.
`, binName)

// Cmd is the mainer.Parser target: every CLI-settable field is tagged with
// the flag name(s) it binds to, per the teacher's Cmd convention.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Source string `flag:"source"`
	Input  string `flag:"input"`

	args []string
}

func (c *Cmd) SetArgs(args []string)      { c.args = args }
func (c *Cmd) SetFlags(_ map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if c.Source == "" && c.Input == "" {
		return errors.New("at least one of --source or --input must be provided")
	}
	return nil
}

// Main is the mainer.Runner entry point: it resolves --source/--input into
// readers, runs the interpreter pipeline, and maps its outcome onto a
// process exit code.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   true,
		EnvPrefix: "IPPCODE23_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.ExitCode(status.MissingParam)
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	// The context returned here is discarded: Run takes no context, so
	// nothing in the interpreter pipeline observes its cancellation.
	_ = mainer.CancelOnSignal(context.Background(), os.Interrupt)

	source, closeSource, err := openOrStdin(c.Source, stdio.Stdin)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.ExitCode(status.InputFile)
	}
	defer closeSource()

	input, closeInput, err := openOrStdin(c.Input, stdio.Stdin)
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return mainer.ExitCode(status.InputFile)
	}
	defer closeInput()

	code := Run(source, input, stdio.Stdout, stdio.Stderr)
	return mainer.ExitCode(code)
}

// Run executes the full pipeline over an already-opened source document and
// input stream, writing WRITE/DPRINT output to stdout/stderr, and returns
// the process exit code the run terminated with.
func Run(source, input io.Reader, stdout, stderr io.Writer) status.Code {
	insns, err := xmlprog.Load(source)
	if err != nil {
		return report(stderr, err)
	}
	prog := machine.NewProgram(insns)
	if err := machine.Validate(prog); err != nil {
		return report(stderr, err)
	}
	labels, err := machine.BuildLabels(prog)
	if err != nil {
		return report(stderr, err)
	}

	m := machine.NewMachine(input)
	m.Stdout = stdout
	m.Stderr = stderr
	if err := m.Run(prog, labels); err != nil {
		return report(stderr, err)
	}
	return status.OK
}

// report emits the one-line diagnostic spec.md §7 requires for an error
// outcome and returns its exit code. EXIT terminates the program through the
// same error-returning path as a real failure, but it is not a diagnosable
// error: its Status carries an empty Msg (see execExit), so it is returned
// as-is without printing anything to stderr.
func report(stderr io.Writer, err error) status.Code {
	var st *status.Status
	if errors.As(err, &st) {
		if st.Msg == "" {
			return st.Code
		}
		fmt.Fprintf(stderr, "%s\n", st.Error())
		return st.Code
	}
	fmt.Fprintf(stderr, "%s\n", err)
	return status.Internal
}

// openOrStdin opens path if non-empty, otherwise returns fallback (which
// the caller must not close) wrapped in a no-op closer.
func openOrStdin(path string, fallback io.Reader) (io.Reader, func(), error) {
	if path == "" {
		return fallback, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}
