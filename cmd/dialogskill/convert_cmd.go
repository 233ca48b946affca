package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/config"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/script"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/skill"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/voice"
	"github.com/nikhilwoodruff/watson-dialog-scripting/pkg/watch"
)

// runConvertCmd implements `dialogskill convert`.
//
// Exit codes:
//
//	0 = conversion completed
//	1 = script failed validation or conversion
//	2 = usage or I/O error
func runConvertCmd(args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("convert", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		voiceFile string
		profile   string
		out       string
		pretty    bool
		canonical bool
		noResume  bool
		watchMode bool
		verbose   bool
	)

	cmd.StringVar(&voiceFile, "voice-file", "", "CSV file of alias,voice rows for SSML substitution")
	cmd.StringVar(&profile, "profile", "", "Conversion profile YAML")
	cmd.StringVar(&out, "out", "dialog.json", "Output file")
	cmd.BoolVar(&pretty, "pretty", false, "Indent the output document")
	cmd.BoolVar(&canonical, "canonical", false, "Write RFC 8785 canonical JSON")
	cmd.BoolVar(&noResume, "no-resume", false, "Skip the resume scaffold; the script root becomes the tree root")
	cmd.BoolVar(&watchMode, "watch", false, "Keep running and reconvert when inputs change")
	cmd.BoolVar(&verbose, "verbose", false, "Enable debug logging")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if cmd.NArg() != 1 {
		_, _ = fmt.Fprintln(stderr, "Error: exactly one script file is required")
		cmd.Usage()
		return 2
	}
	scriptPath := cmd.Arg(0)

	setupLogging(stderr, verbose)

	if pretty && canonical {
		_, _ = fmt.Fprintln(stderr, "Error: --pretty and --canonical are mutually exclusive")
		return 2
	}

	job := convertJob{
		scriptPath: scriptPath,
		voiceFile:  voiceFile,
		profile:    profile,
		out:        out,
		pretty:     pretty,
		canonical:  canonical,
		noResume:   noResume,
	}

	if !watchMode {
		if code := job.run(stdout, stderr); code != 0 {
			return code
		}
		return 0
	}

	return watchLoop(job, stdout, stderr)
}

// convertJob is one conversion's inputs and output settings, reloaded from
// disk on every run so watch mode picks up profile and voice edits too.
type convertJob struct {
	scriptPath string
	voiceFile  string
	profile    string
	out        string
	pretty     bool
	canonical  bool
	noResume   bool
}

func (j convertJob) run(stdout, stderr io.Writer) int {
	start := time.Now()

	prof := config.Default()
	if j.profile != "" {
		loaded, err := config.LoadFile(j.profile)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		prof = loaded
	}

	opts, err := prof.ConvertOptions()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if j.voiceFile != "" {
		voices, err := voice.LoadFile(j.voiceFile)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
		opts.Voices = voices
	}
	if j.noResume {
		opts.Resume = false
	}

	src, err := script.LoadFile(j.scriptPath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	doc, err := skill.Convert(src, opts)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	hash, err := skill.ContentHash(doc)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	f, err := os.Create(j.out)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if j.canonical {
		err = skill.WriteCanonical(f, doc)
	} else {
		err = skill.WriteJSON(f, doc, j.pretty)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	slog.Info("conversion complete",
		"script", j.scriptPath,
		"nodes", src.Len(),
		"intents", len(doc.Intents),
		"records", len(doc.DialogNodes),
		"hash", hash,
		"elapsed", time.Since(start))

	_, _ = fmt.Fprintf(stdout, "Completed, output saved in %s.\n", j.out)
	return 0
}

// watchLoop reruns the job whenever an input file changes, until interrupted.
// Rebuilds are rate limited so a pathological writer cannot pin a core; a
// failed rebuild is reported and watching continues.
func watchLoop(job convertJob, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths := []string{job.scriptPath}
	if job.voiceFile != "" {
		paths = append(paths, job.voiceFile)
	}
	if job.profile != "" {
		paths = append(paths, job.profile)
	}

	w, err := watch.New(ctx, watch.DefaultDebounce, paths...)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer w.Close()

	// First conversion runs immediately; watch failures after that are
	// reported without ending the loop.
	if code := job.run(stdout, stderr); code == 2 {
		return 2
	}
	slog.Info("watching for changes", "paths", paths)

	limiter := rate.NewLimiter(rate.Every(time.Second), 1)
	for {
		select {
		case <-ctx.Done():
			return 0
		case err, ok := <-w.Errors():
			if ok {
				slog.Warn("watch error", "err", err)
			}
		case _, ok := <-w.Events():
			if !ok {
				return 0
			}
			if err := limiter.Wait(ctx); err != nil {
				return 0
			}
			if code := job.run(stdout, stderr); code != 0 {
				slog.Warn("reconversion failed; still watching")
			}
		}
	}
}
