// Command pfrhfdemo exercises the PF/RHF stack end to end: it creates a
// heap file, inserts and deletes some records, scans what survives, and
// prints the buffer pool's I/O statistics.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nvx/pfrhf/internal/bufferpool"
	"github.com/nvx/pfrhf/internal/config"
	"github.com/nvx/pfrhf/internal/pf"
	"github.com/nvx/pfrhf/internal/rhf"
)

func main() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(handler))

	cfg := config.Default()
	if len(os.Args) > 1 {
		loaded, err := config.Load(os.Args[1])
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	dataDir := filepath.Join("data", "pfrhfdemo")
	_ = os.RemoveAll(dataDir)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	pf.Init(cfg.Buffer.Capacity, cfg.Strategy())
	pf.SetMaxOpenFiles(cfg.FileTable.MaxOpenFiles)

	path := filepath.Join(dataDir, "users.heap")
	if err := rhf.Create(path); err != nil {
		log.Fatalf("create heap: %v", err)
	}
	h, err := rhf.Open(path)
	if err != nil {
		log.Fatalf("open heap: %v", err)
	}
	defer func() {
		if err := h.Close(); err != nil {
			log.Printf("close error: %v", err)
		}
	}()

	fmt.Println("Inserting rows...")
	var rids []rhf.RID
	for i := 1; i <= 20; i++ {
		row := []byte(fmt.Sprintf("user-%02d active=%v", i, i%2 == 0))
		rid, err := h.Insert(row)
		if err != nil {
			log.Fatalf("insert row %d: %v", i, err)
		}
		rids = append(rids, rid)
	}

	fmt.Println("Deleting even rows...")
	for i, rid := range rids {
		if (i+1)%2 == 0 {
			if err := h.Delete(rid); err != nil {
				log.Fatalf("delete rid %s: %v", rid, err)
			}
		}
	}

	fmt.Println("Scanning survivors...")
	sc := h.StartScan()
	defer sc.End()
	for {
		body, rid, err := sc.Next()
		if err != nil {
			break
		}
		fmt.Printf("rid=%s row=%q\n", rid, body)
	}

	stats := bufferpool.GetStats()
	fmt.Printf("stats: %s hit_rate=%.2f\n", stats, stats.HitRate())
}
