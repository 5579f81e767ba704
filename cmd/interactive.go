package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/edp1096/lrc-sweep/internal/consts"
	"github.com/edp1096/lrc-sweep/pkg/analysis"
	"github.com/edp1096/lrc-sweep/pkg/circuit"
	"github.com/edp1096/lrc-sweep/pkg/export"
	"github.com/edp1096/lrc-sweep/pkg/phasor"
	"github.com/edp1096/lrc-sweep/pkg/util"
)

func runInteractive(ctx context.Context, args []string) error {
	o := newFlagSet("interactive")
	if err := o.parse(args); err != nil {
		return err
	}
	a, err := o.app()
	if err != nil {
		return err
	}
	defer a.close()

	// Piped input is not shown by the terminal, so echo it.
	echo := !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
	return newPrompter(os.Stdin, a.out, echo).loop(ctx, a)
}

// prompter reads menu choices and values line by line.
type prompter struct {
	in   *bufio.Scanner
	out  io.Writer
	echo bool
}

func newPrompter(r io.Reader, w io.Writer, echo bool) *prompter {
	return &prompter{in: bufio.NewScanner(r), out: w, echo: echo}
}

// line prints prompt and returns the next input line. End of input is
// io.EOF.
func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(p.out)
		return "", io.EOF
	}
	text := strings.TrimSpace(p.in.Text())
	if p.echo {
		fmt.Fprintln(p.out, text)
	}
	return text, nil
}

func cancelled(text string) bool {
	return text == "" || strings.EqualFold(text, "q")
}

// choice shows a numbered menu with 0 as the way back and re-prompts until
// the entry is one of the listed numbers.
func (p *prompter) choice(title string, items []string, back string) (int, error) {
	var b strings.Builder
	b.WriteString(title + "\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d) %s\n", i+1, item)
	}
	fmt.Fprintf(&b, "0) %s\n\n", back)
	for {
		text, err := p.line(b.String())
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(text)
		if err != nil || n < 0 || n > len(items) {
			fmt.Fprintln(p.out, &util.InputError{Input: text, Reason: "pick one of the listed numbers"})
			continue
		}
		return n, nil
	}
}

// value re-prompts on malformed input. A blank line or "q" cancels.
func (p *prompter) value(prompt, unit string) (float64, error) {
	for {
		text, err := p.line(prompt)
		if err != nil {
			return 0, err
		}
		if cancelled(text) {
			return 0, analysis.ErrCancelled
		}
		v, err := util.ParseValue(text, unit)
		var inputErr *util.InputError
		if errors.As(err, &inputErr) {
			fmt.Fprintln(p.out, err)
			continue
		}
		return v, err
	}
}

func (p *prompter) count(prompt string) (int, error) {
	for {
		text, err := p.line(prompt)
		if err != nil {
			return 0, err
		}
		if cancelled(text) {
			return 0, analysis.ErrCancelled
		}
		n, err := util.ParseInt(text)
		if err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}
		return n, nil
	}
}

func (p *prompter) bounds(f circuit.Field, what string) (analysis.Range, error) {
	lo, err := p.value(fmt.Sprintf("Enter a minimum %s [%s]:\t", what, f.Unit()), f.Unit())
	if err != nil {
		return analysis.Range{}, err
	}
	hi, err := p.value(fmt.Sprintf("Enter a maximum %s [%s]:\t", what, f.Unit()), f.Unit())
	if err != nil {
		return analysis.Range{}, err
	}
	return analysis.Range{Min: lo, Max: hi}, nil
}

func (p *prompter) loop(ctx context.Context, a *app) error {
	fmt.Fprintln(p.out, "Welcome!")
	if a.session.Topology.TimeDependent() {
		fmt.Fprintln(p.out, "The quasi-static mode is experimental and has not been validated.")
	}
	fmt.Fprintln(p.out)
	if err := a.fixed(ctx); err != nil {
		return err
	}

	for {
		action, err := p.choice("Enter an action:",
			[]string{"View fixed values.", "Change a value.", "Run calculations.", "Help."}, "Quit.")
		if errors.Is(err, io.EOF) {
			action, err = 0, nil
		}
		if err != nil {
			return err
		}

		switch action {
		case 0:
			fmt.Fprintln(p.out, "Farewell!")
			return nil
		case 1:
			printValues(p.out, a.session)
		case 2:
			err = p.change(a)
		case 3:
			err = p.calculate(ctx, a)
		case 4:
			t := a.session.Topology
			fmt.Fprintf(p.out, "Circuit diagram:\n%s\n", t.Diagram())
			fmt.Fprintln(p.out, "Values accept SI prefixes (40M, 1.19p, 0.6u). A blank line or q cancels a prompt.")
		}
		switch {
		case errors.Is(err, analysis.ErrCancelled):
			fmt.Fprintln(p.out, "Cancelled.")
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			fmt.Fprintln(p.out, err)
		}
		fmt.Fprintln(p.out)
	}
}

func (p *prompter) change(a *app) error {
	s := a.session
	fields := s.Topology.Fields()
	items := []string{"Sampling rate"}
	for _, f := range fields {
		items = append(items, f.Title())
	}
	n, err := p.choice("Select a value to change:", items, "Quit to main menu.")
	if err != nil || n == 0 {
		return err
	}
	if n == 1 {
		rate, err := p.count("Enter sampling rate:\t")
		if err != nil {
			return err
		}
		return s.SetSamplingRate(rate)
	}
	f := fields[n-2]
	v, err := p.value(fmt.Sprintf("Enter %s [%s]:\t", strings.ToLower(f.Title()), f.Unit()), f.Unit())
	if err != nil {
		return err
	}
	return s.Commit(f, v)
}

func (p *prompter) calculate(ctx context.Context, a *app) error {
	t := a.session.Topology
	outer, inner := t.DenseFields()
	dense := fmt.Sprintf("%s and %s", strings.ToLower(outer.Title()), strings.ToLower(inner.Title()))
	n, err := p.choice("Select calculation:", []string{
		"Fixed calculation (no variables).",
		"Cluster calculation (one variable).",
		fmt.Sprintf("Dense calculation (%s).", dense),
		fmt.Sprintf("Brute force (%s).", dense),
		"Complex algebra (four variables).",
	}, "Quit to main menu.")
	if err != nil || n == 0 {
		return err
	}

	switch n {
	case 1:
		return a.fixed(ctx)
	case 2:
		fields := t.Fields()
		items := make([]string, len(fields))
		for i, f := range fields {
			items[i] = f.Title() + "."
		}
		k, err := p.choice("Select a variable:", items, "Quit to main menu.")
		if err != nil || k == 0 {
			return err
		}
		f := fields[k-1]
		rng, err := p.bounds(f, "value")
		if err != nil {
			return err
		}
		return p.afterSweep(a, a.sweep(ctx, "cluster", analysis.NewCluster(f, rng)))
	case 3:
		outerRange, err := p.bounds(outer, strings.ToLower(outer.Title()))
		if err != nil {
			return err
		}
		innerRange, err := p.bounds(inner, strings.ToLower(inner.Title()))
		if err != nil {
			return err
		}
		return p.afterSweep(a, a.sweep(ctx, "dense", analysis.NewDense(outer, outerRange, inner, innerRange)))
	case 4:
		k, err := p.choice("Warning! This function makes millions of computations and may take some time.",
			[]string{"Confirm."}, "Exit.")
		if err != nil || k == 0 {
			return err
		}
		return a.brute(ctx, consts.BruteForceSamplingRate)
	default:
		return p.algebra()
	}
}

// afterSweep offers plots of the exported records.
func (p *prompter) afterSweep(a *app, err error) error {
	if err != nil {
		return err
	}
	records := a.last
	if len(records) == 0 {
		return nil
	}
	for {
		k, err := p.choice("Do you want to plot data?", []string{"Yes."}, "No.")
		if err != nil || k == 0 {
			return err
		}
		if err := p.plot(a, records); err != nil {
			return err
		}
	}
}

func (p *prompter) plot(a *app, records []circuit.Record) error {
	t := a.session.Topology
	titles := export.AxisTitles(t)
	x, err := p.choice("Select a variable for the x-axis:", titles, "Quit to main menu.")
	if err != nil || x == 0 {
		return err
	}
	y, err := p.choice("Select a variable for the y-axis:", titles, "Quit to main menu.")
	if err != nil || y == 0 {
		return err
	}
	z, err := p.choice("Select a variable for the z-axis:", titles, "No z-axis.")
	if err != nil {
		return err
	}
	image, err := p.line("Enter an image path (default plot.png):\t")
	if err != nil {
		return err
	}
	if image == "" {
		image = "plot.png"
	}
	zTitle := ""
	if z > 0 {
		zTitle = titles[z-1]
	}
	if err := a.plot(t, records, titles[x-1], titles[y-1], zTitle, image); err != nil {
		fmt.Fprintln(p.out, err)
	}
	return nil
}

func (p *prompter) algebra() error {
	var z [2]complex128
	for i := range z {
		re, err := p.value(fmt.Sprintf("Enter Re(z_%d):\t", i+1), "")
		if err != nil {
			return err
		}
		im, err := p.value(fmt.Sprintf("Enter Im(z_%d):\t", i+1), "")
		if err != nil {
			return err
		}
		z[i] = complex(re, im)
	}
	for {
		n, err := p.choice("Select an operation:", []string{
			"Addition.", "Subtraction.", "Multiplication.", "Division.", "Parallel components.",
		}, "Quit to main menu.")
		if err != nil || n == 0 {
			return err
		}
		r, err := phasor.Apply(phasor.Operations[n-1], z[0], z[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "%s\n%s\n\n", util.FormatComplex(r), util.FormatMagnitudePhase("z", r))
	}
}
