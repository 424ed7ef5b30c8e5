package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"

	"github.com/poiesic/resolvit"
	"github.com/poiesic/resolvit/core"
	"github.com/poiesic/resolvit/ingestion"
)

// Built-in sample corpus, TSV columns: unit, number, street name, street
// type, locality, region, postcode, lat, lng.
var addresses = []string{
	"\t12\tSmith\tStreet\tSpringvale\tVIC\t3171\t-37.9510\t145.1527",
	"\t14\tSmith\tStreet\tSpringvale\tVIC\t3171\t-37.9512\t145.1530",
	"2\t16\tSmith\tStreet\tSpringvale\tVIC\t3171\t-37.9514\t145.1533",
	"\t1\tHigh\tStreet\tKew\tVIC\t3101\t-37.8063\t145.0306",
	"\t45\tHigh\tStreet\tKew\tVIC\t3101\t-37.8071\t145.0332",
	"\t7\tChapel\tRoad\tPrahran\tVIC\t3181\t-37.8516\t144.9931",
	"1\t230\tChapel\tStreet\tPrahran\tVIC\t3181\t-37.8494\t144.9942",
	"\t9\tAcland\tStreet\tSt Kilda\tVIC\t3182\t-37.8687\t144.9780",
	"\t101\tAcland\tStreet\tSt Kilda\tVIC\t3182\t-37.8696\t144.9801",
	"\t3\tCollins\tStreet\tMelbourne\tVIC\t3000\t-37.8142\t144.9735",
	"\t80\tCollins\tStreet\tMelbourne\tVIC\t3000\t-37.8136\t144.9720",
	"12\t360\tCollins\tStreet\tMelbourne\tVIC\t3000\t-37.8158\t144.9620",
	"\t5\tGeorge\tStreet\tSydney\tNSW\t2000\t-33.8617\t151.2080",
	"\t200\tGeorge\tStreet\tSydney\tNSW\t2000\t-33.8626\t151.2079",
	"4\t48\tPirie\tStreet\tAdelaide\tSA\t5000\t-34.9266\t138.6024",
	"\t19\tGrenfell\tStreet\tAdelaide\tSA\t5000\t-34.9238\t138.6013",
	"\t33\tQueen\tStreet\tBrisbane\tQLD\t4000\t-27.4690\t153.0235",
	"\t140\tWilliam\tStreet\tPerth\tWA\t6000\t-31.9529\t115.8573",
	"\t22\tElizabeth\tStreet\tHobart\tTAS\t7000\t-42.8810\t147.3290",
	"\t64\tMitchell\tStreet\tDarwin\tNT\t0800\t-12.4611\t130.8418",
	"\t10-12\tStation\tParade\tSpringvale\tVIC\t3171\t-37.9488\t145.1522",
	"\t8\tNorth\tTerrace\tAdelaide\tSA\t5000\t-34.9212\t138.5995",
}

var (
	dbPath       = flag.String("db", "./address_db", "corpus database directory")
	seedFileName = flag.String("src", "", "TSV file of seed addresses")
	batchSize    = flag.Int("batch", 1000, "records per ingest batch")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// ingestBatched parses TSV lines from source and ingests them in batches.
func ingestBatched(ctx context.Context, engine *resolvit.Engine, source iter.Seq[string], batchSize int) (int, error) {
	batch := make([]*core.AddressRecord, 0, batchSize)
	total := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := engine.Ingest(ctx, batch...); err != nil {
			return err
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for line := range source {
		record, err := ingestion.ParseTSVLine(line)
		if err != nil {
			return total, err
		}
		if record == nil {
			continue
		}
		batch = append(batch, record)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}

	if err := flush(); err != nil {
		return total, err
	}
	return total, nil
}

func main() {
	engine, err := resolvit.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	// Determine source of seed data
	var source iter.Seq[string]
	if seedFileName != nil && *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(addresses)
	}

	total, err := ingestBatched(context.Background(), engine, source, *batchSize)
	if err != nil {
		panic(err)
	}
	slog.Info("seeding complete", "records", total, "db", *dbPath)
}
