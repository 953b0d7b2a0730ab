// Package interactive implements the prompt-driven analysis session used by
// `godge interactive`.
package interactive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"godge/app"
)

const (
	promptFirst  = "Enter the path to the file with the first cell type"
	promptSecond = "Enter the path to the file with the second cell type"
	promptOut    = "Enter the path to the results"
	promptMethod = "Enter the method for multiple comparisons (empty for none)"
	promptQuit   = "Do you want to quit? y/n"
	farewell     = "No command. Good bye"
)

// Runner executes one file-based analysis
type Runner interface {
	Run(ctx context.Context, req app.AnalysisRequest) (*app.AnalysisResponse, error)
}

// Loop asks for inputs, runs the analysis and repeats until the user quits
type Loop struct {
	runner   Runner
	defaults app.AnalysisOptions
	in       *bufio.Scanner
	out      io.Writer
}

// NewLoop creates a loop reading answers from in and writing prompts to out
func NewLoop(runner Runner, defaults app.AnalysisOptions, in io.Reader, out io.Writer) *Loop {
	return &Loop{
		runner:   runner,
		defaults: defaults,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Run drives the session. It returns nil when the user quits or input ends.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		req, ok := l.readRequest()
		if !ok {
			return l.in.Err()
		}

		resp, err := l.runner.Run(ctx, req)
		switch {
		case err != nil:
			fmt.Fprintf(l.out, "Error: %v\n", err)
		case resp.SavedTo != "":
			fmt.Fprintf(l.out, "Your results are ready! Saved to %s\n", resp.SavedTo)
		default:
			fmt.Fprintf(l.out, "Your results are ready! %d genes compared\n", len(resp.Results.Rows))
		}

		answer, ok := l.ask(promptQuit)
		if !ok {
			return l.in.Err()
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return nil
		case "n", "no":
			continue
		default:
			fmt.Fprintln(l.out, farewell)
			return nil
		}
	}
}

func (l *Loop) readRequest() (app.AnalysisRequest, bool) {
	answers := make([]string, 4)
	for i, prompt := range []string{promptFirst, promptSecond, promptOut, promptMethod} {
		answer, ok := l.ask(prompt)
		if !ok {
			return app.AnalysisRequest{}, false
		}
		answers[i] = answer
	}

	opts := l.defaults
	opts.Method = answers[3]
	return app.AnalysisRequest{
		FirstPath:  answers[0],
		SecondPath: answers[1],
		SaveAs:     answers[2],
		Options:    opts,
	}, true
}

func (l *Loop) ask(prompt string) (string, bool) {
	fmt.Fprintln(l.out, prompt)
	if !l.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(l.in.Text()), true
}
