// qkdsim runs QKD protocol trials for each entry in the cartesian product of
// a collection of sweep parameters -- protocol, qubit count, interception
// rate -- repeated a configurable number of times, and reports each trial as
// an aligned console table and/or a CSV file.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"qkdsim/qkd"
)

var (
	protocols = flag.StringSlice("protocols", []string{"BB84"},
		"The protocols to simulate. Any of: BB84, SixState, B92.")
	qubits = flag.IntSlice("qubits", []int{1000},
		"The numbers of qubits to send per trial.")
	rates = flag.Float64Slice("rates", []float64{0.0},
		"The rates of qubits intercepted by the eavesdropper, each in [0,1].")
	repetitions = flag.Int("repetitions", 1,
		"The number of independent trials per parameter combination.")
	output = flag.String("output", "",
		"Path of a CSV file to write results to.")
	quiet = flag.Bool("quiet", false,
		"Suppress the console table. Requires --output.")
)

var header = []string{
	"id", "PROTOCOL", "number_of_qubits", "interception_rate",
	"time_μs", "is_considered_secure", "key_length", "QBER",
}

func main() {
	flag.Parse()
	if err := validateFlags(); err != nil {
		logrus.Fatal(err)
	}

	var w *csv.Writer
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			logrus.Fatalf("Creating output file: %v", err)
		}
		defer f.Close()
		w = csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			logrus.Fatalf("Writing CSV header: %v", err)
		}
	}
	if !*quiet {
		printAligned(header)
	}

	id := 0
	for _, p := range *protocols {
		for _, n := range *qubits {
			for _, rate := range *rates {
				for rep := 0; rep < *repetitions; rep++ {
					res, err := runTrial(qkd.Protocol(p), n, rate)
					if err != nil {
						logrus.Fatalf("Running %s (qubits: %d, rate: %v): %v", p, n, rate, err)
					}
					row := formatRow(id, res)
					if w != nil {
						if err := w.Write(row); err != nil {
							logrus.Fatalf("Writing CSV row: %v", err)
						}
					}
					if !*quiet {
						printAligned(row)
					}
					id++
				}
			}
		}
	}
	if w != nil {
		w.Flush()
		if err := w.Error(); err != nil {
			logrus.Fatalf("Flushing CSV: %v", err)
		}
		logrus.Infof("Wrote %d results to %s", id, *output)
	}
}

func runTrial(p qkd.Protocol, n int, rate float64) (qkd.Result, error) {
	e, err := qkd.New(p, qkd.Options{})
	if err != nil {
		return qkd.Result{}, err
	}
	return e.Run(n, rate)
}

func validateFlags() error {
	known := map[qkd.Protocol]bool{}
	for _, p := range qkd.Protocols() {
		known[p] = true
	}
	for _, p := range *protocols {
		if !known[qkd.Protocol(p)] {
			return fmt.Errorf("%q is not an allowed protocol, allowed protocols are %v", p, qkd.Protocols())
		}
	}
	for _, r := range *rates {
		if r < 0 || r > 1 {
			return fmt.Errorf("all rates must be between 0.0 and 1.0, got %v", r)
		}
	}
	if *repetitions < 1 {
		return fmt.Errorf("repetitions must be positive, got %d", *repetitions)
	}
	if *quiet && *output == "" {
		return fmt.Errorf("--output is required when --quiet is enabled")
	}
	return nil
}

func formatRow(id int, r qkd.Result) []string {
	return []string{
		strconv.Itoa(id),
		string(r.Protocol),
		strconv.Itoa(r.NumQubits),
		strconv.FormatFloat(r.InterceptionRate, 'g', -1, 64),
		strconv.FormatInt(r.Elapsed.Microseconds(), 10),
		strconv.FormatBool(r.Secure),
		strconv.Itoa(r.KeyLength),
		strconv.FormatFloat(r.QBER, 'g', -1, 64),
	}
}

func printAligned(row []string) {
	fmt.Printf("%-5s %-10s %16s %18s %10s %20s %10s %10s\n",
		row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7])
}
