package main

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/listenupapp/listenup-narration/internal/alignment"
	"github.com/listenupapp/listenup-narration/internal/domain"
	"github.com/listenupapp/listenup-narration/internal/logger"
	"github.com/listenupapp/listenup-narration/internal/validation"
)

type output struct {
	Result alignment.Result  `json:"result"`
	Report *alignment.Report `json:"report,omitempty"`
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("align", flag.ContinueOnError)
	fs.SetOutput(stderr)

	input := fs.String("input", "-", "Job file, - for stdin")
	words := fs.Bool("words", false, "Include per-word timings")
	validate := fs.Bool("validate", false, "Include a validation report")
	pretty := fs.Bool("pretty", false, "Indent JSON output")
	startLookahead := fs.Int("start-lookahead", alignment.DefaultStartLookahead, "Words scanned for a sentence start")
	tokenWindow := fs.Int("token-window", alignment.DefaultTokenWindow, "Words scanned per token")
	logLevel := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	log := logger.New(logger.Config{
		Writer:      stderr,
		Level:       logger.ParseLevel(*logLevel),
		Environment: "development",
	})

	j, err := readJob(*input, stdin)
	if err != nil {
		log.Error("read job", "input", *input, "error", err)
		return 1
	}

	req := domain.TranscriptRequest{Sentences: j.Sentences, Words: j.transcriptWords(), WithWords: *words}
	if err := validation.New().Validate(req); err != nil {
		log.Error("invalid job", "input", *input, "error", err)
		return 1
	}

	result := alignment.AlignWithOptions(req.Sentences, req.Words, alignment.Options{
		StartLookahead: *startLookahead,
		TokenWindow:    *tokenWindow,
		CaptureWords:   req.WithWords,
	})
	log.Debug("aligned",
		"sentences", len(result.SentenceTimings),
		"words", len(req.Words),
		"confidence", result.AverageConfidence,
	)

	out := output{Result: result}
	if *validate {
		report := alignment.Validate(result)
		out.Report = &report
		if !report.IsValid {
			log.Warn("alignment has issues", "issues", len(report.Issues))
		}
	}

	var opts []json.Options
	if *pretty {
		opts = append(opts, jsontext.WithIndent("  "))
	}
	if err := json.MarshalWrite(stdout, out, opts...); err != nil {
		log.Error("write result", "error", err)
		return 1
	}
	fmt.Fprintln(stdout)
	return 0
}

func readJob(path string, stdin io.Reader) (*job, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var j job
	if err := json.UnmarshalRead(r, &j); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &j, nil
}
