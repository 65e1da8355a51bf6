// cashbook-export writes the recorded transactions as CSV, for spreadsheets
// or backups. It reads the same data store as the server, so run it against
// the server's DATA_DIR (or SQLITE_DB_PATH) configuration.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"cashbook/internal/config"
	"cashbook/internal/core"
	"cashbook/internal/ledger"
	"cashbook/internal/storage"
)

func main() {
	_ = godotenv.Load()

	var (
		output = flag.String("o", "", "output file (default: stdout)")
		start  = flag.String("start", "", "only transactions on or after this date (YYYY-MM-DD)")
		end    = flag.String("end", "", "only transactions on or before this date (YYYY-MM-DD)")
		typ    = flag.String("type", "", "only transactions of this type (IN or OUT)")
	)
	flag.Parse()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration: %v", err)
	}

	filter, err := buildFilter(*typ, *start, *end)
	if err != nil {
		log.Fatal(err)
	}

	gateway, err := storage.NewGateway(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer gateway.Close()

	store := ledger.NewStore(gateway)
	store.Load(context.Background())

	out := io.Writer(os.Stdout)
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("create %s: %v", *output, err)
		}
		defer f.Close()
		out = f
	}

	txs := core.FilterTransactions(store.Transactions(), filter)
	if err := writeCSV(out, txs); err != nil {
		log.Fatalf("write csv: %v", err)
	}
	if *output != "" {
		log.Printf("wrote %d transactions to %s", len(txs), *output)
	}
}

func buildFilter(typ, start, end string) (core.TransactionFilter, error) {
	f := core.TransactionFilter{Type: core.TypeAll}
	switch typ {
	case "":
	case string(core.In), string(core.Out):
		f.Type = core.TypeFilter(typ)
	default:
		return f, fmt.Errorf("invalid type %q, want IN or OUT", typ)
	}
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return f, fmt.Errorf("invalid start date %q: %w", start, err)
		}
		f.From = t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return f, fmt.Errorf("invalid end date %q: %w", end, err)
		}
		f.To = t
	}
	return f, nil
}

func writeCSV(out io.Writer, txs []core.Transaction) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"id", "date", "type", "description", "category", "amount", "source_id"}); err != nil {
		return err
	}
	for _, tx := range txs {
		record := []string{
			tx.ID,
			tx.Date.Format("2006-01-02"),
			string(tx.Type),
			tx.Description,
			tx.Category,
			fmt.Sprintf("%.2f", tx.Amount.Units()),
			tx.SourceID,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
