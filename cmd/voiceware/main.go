/*
DESCRIPTION
  voiceware decodes the audio messages stored in Nortel Millennium VoiceWare
  ROM images, writing ADPCM messages out as wav files and raw PCM messages
  verbatim, or listing the messages in the mapping-file format.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main implements the voiceware command.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/voiceware/extract"
	"github.com/ausocean/voiceware/mapping"
)

// Current software version.
const version = "v1.0.0"

// Rotation limits for the optional log file.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
)

func main() {
	var (
		mapPath     = pflag.StringP("mapping", "m", "", "mapping file `path`")
		target      = pflag.IntP("index", "i", -1, "decode only the message with this absolute `index`")
		listMode    = pflag.BoolP("list", "l", false, "list messages in mapping-file format instead of decoding")
		quiet       = pflag.BoolP("quiet", "q", false, "suppress informational output")
		verbose     = pflag.BoolP("verbose", "v", false, "emit a per-opcode debug trace to stderr")
		help        = pflag.BoolP("help", "h", false, "show this usage text")
		outDir      = pflag.StringP("outdir", "o", ".", "write output files to `dir`")
		logFile     = pflag.String("log-file", "", "also copy the log stream to a rotating file at `path`")
		showVersion = pflag.Bool("version", false, "show version and exit")
	)
	pflag.Usage = usage
	pflag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}
	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "voiceware: exactly one ROM file required, got %d arguments\n", pflag.NArg())
		usage()
		os.Exit(2)
	}
	if pflag.CommandLine.Changed("index") && *target < 0 {
		fmt.Fprintln(os.Stderr, "voiceware: -i requires a non-negative message index")
		usage()
		os.Exit(2)
	}

	if *quiet {
		*verbose = false
	}

	var sink io.Writer = os.Stderr
	if *logFile != "" {
		sink = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackup,
			MaxAge:     logMaxAge,
		})
	}
	logger := log.New(sink)
	switch {
	case *quiet:
		logger.SetLevel(log.ErrorLevel)
	case *verbose:
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	var maps *mapping.Index
	if *mapPath != "" {
		m, err := mapping.Load(*mapPath)
		if err != nil {
			logger.Error("could not load mapping file", "error", err.Error())
			os.Exit(1)
		}
		maps = m
		logger.Debug("loaded mappings", "entries", m.Size())
	}

	if *listMode && pflag.CommandLine.Changed("index") {
		logger.Info("list mode ignores -i", "index", *target)
	}

	e, err := extract.New(extract.Config{
		ROM:      pflag.Arg(0),
		OutDir:   *outDir,
		Mappings: maps,
		Target:   *target,
		List:     *listMode,
		Verbose:  *verbose,
		Quiet:    *quiet,
		Logger:   logger,
		Out:      os.Stdout,
	})
	if err != nil {
		logger.Error("could not open ROM", "error", err.Error())
		os.Exit(1)
	}
	if err := e.Run(); err != nil {
		logger.Error("extraction failed", "error", err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: voiceware [options] <rom_filepath>\n\noptions:\n")
	pflag.PrintDefaults()
}
