// Command ipaggregate reads IP ranges, one per line, and prints the
// aggregated set as CIDR blocks or inclusive ranges.
//
// Ranges can be written as:
//
//	Single IP:     192.168.0.1, 2001:db8::1
//	CIDR notation: 192.168.4.0/24, 2001:db8::/32
//	IP interval:   192.168.4.0-192.168.6.0, 2001:db8::1-2001:db8::ff
//	               192.168-170.4-8.0
//
// IPv6 ranges are printed after the IPv4 ones. --max-prefix only applies
// to IPv4.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/contriboss/leeloo-go/ipset"
	"github.com/contriboss/leeloo-go/ipset6"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if err := run(os.Args[1:], os.Stdin, os.Stdout, log); err != nil {
		log.WithError(err).Error("ipaggregate failed")
		os.Exit(1)
	}
}

type options struct {
	maxPrefix int
	strict    bool
	input     string
	verbose   bool
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}

	app := kingpin.New("ipaggregate", "Aggregate IPv4 and IPv6 ranges into CIDR blocks and ranges.")
	app.HelpFlag.Short('h')
	app.Flag("max-prefix", "aggregate IPv4 with a maximum prefix (1 <= prefix <= 32), 0 disables").
		Short('p').Default("0").IntVar(&opts.maxPrefix)
	app.Flag("strict", "only widen ranges smaller than the maximum prefix").BoolVar(&opts.strict)
	app.Flag("verbose", "log every ignored line and the set size").Short('v').BoolVar(&opts.verbose)
	app.Arg("input", "file with one IP range per line (defaults to stdin)").StringVar(&opts.input)

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}
	if opts.maxPrefix < 0 || opts.maxPrefix > 32 {
		return nil, errors.Errorf("maximum prefix must be between 0 and 32, got %d", opts.maxPrefix)
	}
	return opts, nil
}

func run(args []string, stdin io.Reader, stdout io.Writer, log *logrus.Logger) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	in := stdin
	if opts.input != "" && opts.input != "-" {
		f, err := os.Open(opts.input)
		if err != nil {
			return errors.Wrapf(err, "error opening %s", opts.input)
		}
		defer f.Close()
		in = f
	}

	l, l6, err := readRanges(in, log)
	if err != nil {
		return err
	}
	l6.Aggregate()

	switch {
	case opts.maxPrefix == 0:
		l.Aggregate()
	case opts.strict:
		l.AggregateMaxPrefixStrict(opts.maxPrefix)
	default:
		l.AggregateMaxPrefix(opts.maxPrefix)
	}
	log.WithFields(logrus.Fields{
		"intervals": l.Len(),
		"ips":       l.Size(),
	}).Debug("aggregated")
	if l6.Len() > 0 {
		log.WithFields(logrus.Fields{
			"intervals": l6.Len(),
			"ips":       l6.Size().String(),
		}).Debug("aggregated IPv6")
	}

	w := bufio.NewWriter(stdout)
	for r := range l.Ranges() {
		fmt.Fprintln(w, r)
	}
	for r := range l6.Ranges() {
		fmt.Fprintln(w, r)
	}
	return w.Flush()
}

// readRanges adds every line of r to a new IPv4 or IPv6 list, lines
// holding a colon going to the latter. Lines that do not parse are logged
// and skipped.
func readRanges(r io.Reader, log logrus.FieldLogger) (*ipset.List, *ipset6.List, error) {
	l, l6 := ipset.NewList(), ipset6.NewList()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		add := l.Add
		if strings.Contains(line, ":") {
			add = l6.Add
		}
		if err := add(line); err != nil {
			log.WithFields(logrus.Fields{
				"line":  lineNo,
				"range": line,
			}).WithError(err).Warn("unable to parse range, ignoring")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to read ranges")
	}
	return l, l6, nil
}
