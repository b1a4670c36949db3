// analysis reads a CSV of qkdsim trial results, aggregates the repetitions
// of each (protocol, interception rate) combination, and renders the sweep
// as a self-contained HTML page of charts.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"gonum.org/v1/gonum/stat"

	"qkdsim/qkd"
)

var (
	input  = flag.String("input", "", "Path of the qkdsim CSV to analyze.")
	output = flag.String("output", "qkd_report.html", "Path of the HTML report to write.")
)

// A trial is one parsed CSV row.
type trial struct {
	protocol  string
	numQubits int
	rate      float64
	secure    bool
	keyLength int
	qber      float64
}

// A cell aggregates the repetitions of one (protocol, rate) combination.
type cell struct {
	meanQBER   float64
	secureRate float64
	meanKeyLen float64
}

func main() {
	flag.Parse()
	if *input == "" {
		logrus.Fatal("--input is required")
	}
	trials, err := readTrials(*input)
	if err != nil {
		logrus.Fatalf("Reading %s: %v", *input, err)
	}
	if len(trials) == 0 {
		logrus.Fatalf("No trials found in %s", *input)
	}

	rates, cells := aggregate(trials)
	page := components.NewPage()
	page.AddCharts(
		lineChart("Mean QBER", "estimated error rate over secure trials", rates, cells,
			func(c cell) float64 { return c.meanQBER }),
		lineChart("Secure-trial fraction", "share of repetitions below the disturbance threshold", rates, cells,
			func(c cell) float64 { return c.secureRate }),
		lineChart("Mean key length", "bits retained per trial", rates, cells,
			func(c cell) float64 { return c.meanKeyLen }),
	)

	f, err := os.Create(*output)
	if err != nil {
		logrus.Fatalf("Creating %s: %v", *output, err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		logrus.Fatalf("Rendering report: %v", err)
	}
	logrus.Infof("Aggregated %d trials into %s", len(trials), *output)
}

func readTrials(path string) ([]trial, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("missing header row")
	}
	col := map[string]int{}
	for i, name := range records[0] {
		col[name] = i
	}
	for _, name := range []string{"PROTOCOL", "number_of_qubits", "interception_rate", "is_considered_secure", "key_length", "QBER"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var trials []trial
	for _, rec := range records[1:] {
		n, err := strconv.Atoi(rec[col["number_of_qubits"]])
		if err != nil {
			return nil, fmt.Errorf("bad qubit count %q: %v", rec[col["number_of_qubits"]], err)
		}
		rate, err := strconv.ParseFloat(rec[col["interception_rate"]], 64)
		if err != nil {
			return nil, fmt.Errorf("bad interception rate %q: %v", rec[col["interception_rate"]], err)
		}
		secure, err := strconv.ParseBool(rec[col["is_considered_secure"]])
		if err != nil {
			return nil, fmt.Errorf("bad secure flag %q: %v", rec[col["is_considered_secure"]], err)
		}
		keyLen, err := strconv.Atoi(rec[col["key_length"]])
		if err != nil {
			return nil, fmt.Errorf("bad key length %q: %v", rec[col["key_length"]], err)
		}
		qber, err := strconv.ParseFloat(rec[col["QBER"]], 64)
		if err != nil {
			return nil, fmt.Errorf("bad QBER %q: %v", rec[col["QBER"]], err)
		}
		trials = append(trials, trial{
			protocol:  rec[col["PROTOCOL"]],
			numQubits: n,
			rate:      rate,
			secure:    secure,
			keyLength: keyLen,
			qber:      qber,
		})
	}
	return trials, nil
}

// aggregate groups trials by (protocol, rate) and reduces each group to
// summary statistics. The returned rates are sorted ascending.
func aggregate(trials []trial) ([]float64, map[string]map[float64]cell) {
	groups := map[string]map[float64][]trial{}
	rateSet := map[float64]bool{}
	for _, t := range trials {
		if groups[t.protocol] == nil {
			groups[t.protocol] = map[float64][]trial{}
		}
		groups[t.protocol][t.rate] = append(groups[t.protocol][t.rate], t)
		rateSet[t.rate] = true
	}

	var rates []float64
	for r := range rateSet {
		rates = append(rates, r)
	}
	sort.Float64s(rates)

	cells := map[string]map[float64]cell{}
	for protocol, byRate := range groups {
		cells[protocol] = map[float64]cell{}
		for rate, group := range byRate {
			var qbers, keyLens, secureFlags []float64
			for _, t := range group {
				if t.secure {
					// Insecure trials report the sentinel, not an estimate.
					qbers = append(qbers, t.qber)
					secureFlags = append(secureFlags, 1)
				} else {
					secureFlags = append(secureFlags, 0)
				}
				keyLens = append(keyLens, float64(t.keyLength))
			}
			c := cell{
				secureRate: stat.Mean(secureFlags, nil),
				meanKeyLen: stat.Mean(keyLens, nil),
			}
			if len(qbers) > 0 {
				c.meanQBER = stat.Mean(qbers, nil)
			}
			cells[protocol][rate] = c
		}
	}
	return rates, cells
}

func lineChart(title, subtitle string, rates []float64, cells map[string]map[float64]cell, value func(cell) float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "interception rate"}),
	)

	var xs []string
	for _, r := range rates {
		xs = append(xs, strconv.FormatFloat(r, 'g', -1, 64))
	}
	line.SetXAxis(xs)

	// Series in the engine's protocol order, then any others found in the CSV.
	var names []string
	seen := map[string]bool{}
	for _, p := range qkd.Protocols() {
		if _, ok := cells[string(p)]; ok {
			names = append(names, string(p))
			seen[string(p)] = true
		}
	}
	var extra []string
	for name := range cells {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	names = append(names, extra...)

	for _, name := range names {
		var data []opts.LineData
		for _, r := range rates {
			c, ok := cells[name][r]
			if !ok {
				data = append(data, opts.LineData{Value: nil})
				continue
			}
			data = append(data, opts.LineData{Value: value(c)})
		}
		line.AddSeries(name, data)
	}
	return line
}
