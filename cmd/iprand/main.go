// Command iprand aggregates IPv4 ranges and writes every address of the
// result in a random order, one per line.
//
// A range prefixed with '-' is removed from the final set. Put "--" before
// the ranges so that removals are not taken for flags:
//
//	iprand -- 192.168.1.0/24 -192.168.1.10 10.4-5.8.9-250
//
// With --state, the order is saved in a bolt file under --name and the
// next run with the same ranges carries on where the previous one stopped.
// --count limits the number of addresses written by one run.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/contriboss/leeloo-go/ipset"
	"github.com/contriboss/leeloo-go/randstate"
	"github.com/contriboss/leeloo-go/uni"
)

// indexEntrySize is the number of intervals between two index cache
// entries.
const indexEntrySize = 256

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if err := run(os.Args[1:], os.Stdout, log); err != nil {
		log.WithError(err).Error("iprand failed")
		os.Exit(1)
	}
}

type options struct {
	ranges  []string
	chunk   int
	seed    uint64
	state   string
	name    string
	count   uint64
	verbose bool
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}

	app := kingpin.New("iprand", "Write the IPs of the aggregated ranges in a random order.")
	app.HelpFlag.Short('h')
	app.Flag("chunk", "number of IPs generated at once").Default("16").IntVar(&opts.chunk)
	app.Flag("seed", "seed of the random order, 0 draws one from the system").Uint64Var(&opts.seed)
	app.Flag("state", "bolt file keeping the progress of the random order").StringVar(&opts.state)
	app.Flag("name", "name of the random order in the state file").Default("default").StringVar(&opts.name)
	app.Flag("count", "maximum number of IPs to write, 0 writes them all").Short('n').Uint64Var(&opts.count)
	app.Flag("verbose", "log progress").Short('v').BoolVar(&opts.verbose)
	app.Arg("ranges", "IP ranges: CIDR 192.168.1.0/24, range 10.4-5.8.9-250 or single IP; a leading '-' removes").
		Required().StringsVar(&opts.ranges)

	if _, err := app.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(args []string, stdout io.Writer, log *logrus.Logger) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}
	if opts.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	l := buildList(opts.ranges, log)
	l.Aggregate()

	size := l.Size()
	log.WithField("ips", humanize.Comma(int64(size))).Info("Number of IPs after aggregation")
	if size == 0 {
		return nil
	}
	l.CreateIndexCache(indexEntrySize)

	eng := uni.NewRandomEngine()
	if opts.seed != 0 {
		eng = uni.NewEngine(opts.seed)
	}

	w := bufio.NewWriter(stdout)
	if opts.state == "" && opts.count == 0 {
		l.RandomChunks(eng, opts.chunk, func(ips []uint32) {
			for _, ip := range ips {
				fmt.Fprintln(w, ipset.FormatIPv4(ip))
			}
		})
		return w.Flush()
	}

	if err := runTracked(l, eng, opts, w, log); err != nil {
		return err
	}
	return w.Flush()
}

// buildList adds or removes every range. Invalid ranges are logged and
// skipped.
func buildList(ranges []string, log logrus.FieldLogger) *ipset.List {
	l := ipset.NewList()
	for _, r := range ranges {
		var err error
		switch {
		case len(r) <= 1:
			err = ipset.ErrInvalidRange.New(r)
		case r[0] == '-':
			err = l.Remove(r[1:])
		default:
			err = l.Add(r)
		}
		if err != nil {
			log.WithField("range", r).Warn("invalid IP range, ignoring")
		}
	}
	return l
}

// runTracked writes up to opts.count IPs of a resumable random order. The
// order and its progress are kept in opts.state when set.
func runTracked(l *ipset.List, eng uni.Engine, opts *options, w io.Writer, log logrus.FieldLogger) error {
	var store *randstate.Store
	if opts.state != "" {
		var err error
		if store, err = randstate.OpenStore(opts.state); err != nil {
			return err
		}
		defer store.Close()
	}

	tracker, err := openTracker(store, l, eng, opts.name)
	if err != nil {
		return err
	}

	var written uint64
	for opts.count == 0 || written < opts.count {
		ip, step, ok := tracker.Next()
		if !ok {
			break
		}
		if _, err := fmt.Fprintln(w, ipset.FormatIPv4(ip)); err != nil {
			return errors.Wrap(err, "failed to write IP")
		}
		tracker.StepDone(step)
		written++
	}

	log.WithFields(logrus.Fields{
		"written":   humanize.Comma(int64(written)),
		"remaining": humanize.Comma(int64(tracker.SizeOriginal() - tracker.SizeDone())),
	}).Debug("random order progress")

	if store == nil {
		return nil
	}
	if tracker.Done() {
		return store.Delete(opts.name)
	}
	return store.Save(opts.name, tracker.State())
}

func openTracker(store *randstate.Store, l *ipset.List, eng uni.Engine, name string) (*randstate.Tracker[uint32], error) {
	if store == nil {
		return randstate.NewRandomTracker(&l.List, eng), nil
	}

	st, err := store.Load(name)
	switch {
	case randstate.ErrStateNotFound.Is(err):
		return randstate.NewRandomTracker(&l.List, eng), nil
	case err != nil:
		return nil, err
	}

	tracker, err := randstate.RestoreTracker(&l.List, st)
	if err != nil {
		return nil, errors.Wrapf(err, "state %q does not match the ranges", name)
	}
	return tracker, nil
}
