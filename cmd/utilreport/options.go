package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/lorrc/field-service-analytics/internal/core/domain"
)

const (
	formatText = "text"
	formatJSON = "json"

	defaultWindowDays = 30
)

type options struct {
	start    string
	end      string
	interval string
	format   string
}

// parseOptions reads the command line. Missing dates default to the last
// defaultWindowDays days ending today (UTC).
func parseOptions(args []string, stderr io.Writer) (options, error) {
	return parseOptionsAt(args, stderr, time.Now().UTC())
}

func parseOptionsAt(args []string, stderr io.Writer, now time.Time) (options, error) {
	var opts options

	fs := flag.NewFlagSet("utilreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.start, "start", "", "first date of the range (YYYY-MM-DD)")
	fs.StringVar(&opts.end, "end", "", "last date of the range (YYYY-MM-DD)")
	fs.StringVar(&opts.interval, "interval", string(domain.IntervalDaily), "trend interval: daily or weekly")
	fs.StringVar(&opts.format, "format", formatText, "output format: text or json")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if opts.end == "" {
		opts.end = now.Format(domain.DateLayout)
	}
	if opts.start == "" {
		end, err := domain.ParseDate(opts.end)
		if err != nil {
			return options{}, err
		}
		opts.start = end.AddDate(0, 0, -(defaultWindowDays - 1)).Format(domain.DateLayout)
	}

	if opts.format != formatText && opts.format != formatJSON {
		return options{}, fmt.Errorf("format must be %q or %q", formatText, formatJSON)
	}

	return opts, nil
}
