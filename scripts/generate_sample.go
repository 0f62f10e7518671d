package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	mrand "math/rand"
	"os"
	"strconv"
	"time"
)

func main() {
	kind := flag.String("kind", "stocks", "sample to generate: stocks|houses")
	rows := flag.Int("rows", 500, "rows per symbol (stocks) or total rows (houses)")
	flag.Parse()

	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))
	w := csv.NewWriter(os.Stdout)

	var err error
	switch *kind {
	case "stocks":
		err = writeStocks(w, mr, *rows)
	case "houses":
		err = writeHouses(w, mr, *rows)
	default:
		err = fmt.Errorf("unknown kind %q", *kind)
	}
	if err == nil {
		w.Flush()
		err = w.Error()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeStocks(w *csv.Writer, mr *mrand.Rand, days int) error {
	if err := w.Write([]string{"date", "open", "high", "low", "close", "volume", "Name"}); err != nil {
		return err
	}
	symbols := []string{"AAPL", "AMZN", "GOOGL", "MSFT", "SPY"}
	start := time.Date(2016, 1, 4, 0, 0, 0, 0, time.UTC)
	for _, sym := range symbols {
		price := 50 + mr.Float64()*150
		day := start
		for i := 0; i < days; i++ {
			// weekdays only
			for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				day = day.AddDate(0, 0, 1)
			}
			open := price
			closePx := math.Max(1, open*(1+(mr.Float64()-0.5)*0.04))
			high := math.Max(open, closePx) * (1 + mr.Float64()*0.01)
			low := math.Min(open, closePx) * (1 - mr.Float64()*0.01)
			volume := 1_000_000 + mr.Intn(40_000_000)
			rec := []string{
				day.Format("2006-01-02"),
				money(open), money(high), money(low), money(closePx),
				strconv.Itoa(volume),
				sym,
			}
			if err := w.Write(rec); err != nil {
				return err
			}
			price = closePx
			day = day.AddDate(0, 0, 1)
		}
	}
	return nil
}

func writeHouses(w *csv.Writer, mr *mrand.Rand, n int) error {
	header := []string{"price", "area", "bedrooms", "bathrooms", "stories", "mainroad", "guestroom",
		"basement", "hotwaterheating", "airconditioning", "parking", "prefarea", "furnishingstatus"}
	if err := w.Write(header); err != nil {
		return err
	}
	furnishing := []string{"furnished", "semi-furnished", "unfurnished"}
	for i := 0; i < n; i++ {
		bedrooms := 1 + mr.Intn(6)
		area := 1500 + bedrooms*800 + mr.Intn(4000)
		price := 1_750_000 + area*600 + mr.Intn(2_000_000)
		rec := []string{
			strconv.Itoa(price),
			strconv.Itoa(area),
			strconv.Itoa(bedrooms),
			strconv.Itoa(1 + mr.Intn(4)),
			strconv.Itoa(1 + mr.Intn(4)),
			yesNo(mr, 0.85),
			yesNo(mr, 0.2),
			yesNo(mr, 0.35),
			yesNo(mr, 0.05),
			yesNo(mr, 0.3),
			strconv.Itoa(mr.Intn(4)),
			yesNo(mr, 0.25),
			furnishing[mr.Intn(len(furnishing))],
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

func yesNo(mr *mrand.Rand, p float64) string {
	if mr.Float64() < p {
		return "yes"
	}
	return "no"
}
