// Command menu-ingest bulk-imports menu items from gzipped JSONL catalog
// dumps. Files are processed concurrently; item ids are de-duplicated
// across files (first occurrence wins) and rows are upserted in batches.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tastoria/orders-api/internal/domain/catalog"
	"github.com/tastoria/orders-api/internal/repository"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	batchSize     = 500
	progressEvery = 50_000
)

// dedup tracks item ids already accepted. The bloom filter screens the
// common negative case; positives are confirmed against the exact set.
type dedup struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	seen   map[string]struct{}
}

func newDedup() *dedup {
	return &dedup{
		filter: bloom.NewWithEstimates(bloomCapacity, bloomFPR),
		seen:   make(map[string]struct{}),
	}
}

// accept reports whether id has not been seen before and records it.
func (d *dedup) accept(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.filter.TestString(id) {
		if _, ok := d.seen[id]; ok {
			return false
		}
	}
	d.filter.AddString(id)
	d.seen[id] = struct{}{}
	return true
}

func main() {
	var databaseURL string
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	files := flag.Args()
	if len(files) == 0 {
		slog.Error("at least one .jsonl.gz dump file is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, files); err != nil {
		slog.Error("menu ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("menu ingest completed successfully")
}

func run(ctx context.Context, databaseURL string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	items := make(chan catalog.MenuItem, batchSize)
	seen := newDedup()

	g, ctx := errgroup.WithContext(ctx)

	// One reader goroutine per dump file.
	readers, ctx := errgroup.WithContext(ctx)
	for i, f := range files {
		readers.Go(streamFile(ctx, i, f, seen, items))
	}
	g.Go(func() error {
		defer close(items)
		return readers.Wait()
	})

	// Single writer applies batched upserts.
	g.Go(func() error {
		return writeItems(ctx, pool, items)
	})

	return g.Wait()
}

// streamFile parses one gzipped JSONL dump line by line and forwards
// unseen, valid items.
func streamFile(ctx context.Context, idx int, path string, seen *dedup, out chan<- catalog.MenuItem) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		var (
			total    uint64
			accepted uint64
			skipped  uint64
		)

		scanner := bufio.NewScanner(gz)
		scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}

			total++
			if total%progressEvery == 0 {
				slog.Info("ingest progress",
					slog.Int("file", idx+1),
					slog.Uint64("lines", total),
					slog.Uint64("accepted", accepted),
				)
			}

			item, err := decodeItem(scanner.Bytes())
			if err != nil {
				skipped++
				continue
			}
			if err := item.Validate(); err != nil {
				skipped++
				continue
			}
			if !seen.accept(item.ID) {
				continue
			}

			select {
			case out <- item:
				accepted++
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "scan %s", path)
		}

		slog.Info("file complete",
			slog.Int("file", idx+1),
			slog.Uint64("lines", total),
			slog.Uint64("accepted", accepted),
			slog.Uint64("skipped", skipped),
		)
		return nil
	}
}

// decodeItem parses one JSONL line without building an intermediate map.
func decodeItem(line []byte) (catalog.MenuItem, error) {
	var item catalog.MenuItem

	d := jx.DecodeBytes(line)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			item.ID = v
			return err
		case "restaurant":
			v, err := d.Str()
			item.Restaurant = v
			return err
		case "name":
			v, err := d.Str()
			item.Name = v
			return err
		case "description":
			v, err := d.Str()
			item.Description = v
			return err
		case "detailedDescription":
			v, err := d.Str()
			item.DetailedDescription = v
			return err
		case "price":
			v, err := d.Str()
			if err != nil {
				return err
			}
			price, err := decimal.NewFromString(v)
			item.Price = price
			return err
		case "category":
			v, err := d.Str()
			item.Category = catalog.Category(v)
			return err
		case "image":
			v, err := d.Str()
			item.Image = v
			return err
		case "ingredients":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				item.Ingredients = append(item.Ingredients, v)
				return err
			})
		case "allergens":
			return d.Arr(func(d *jx.Decoder) error {
				v, err := d.Str()
				item.Allergens = append(item.Allergens, v)
				return err
			})
		case "nutrition":
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			return json.Unmarshal(raw, &item.Nutrition)
		case "isVegetarian":
			v, err := d.Bool()
			item.IsVegetarian = v
			return err
		case "preparationTime":
			v, err := d.Str()
			item.PreparationTime = v
			return err
		case "spicyLevel":
			v, err := d.Int()
			item.SpicyLevel = v
			return err
		case "servingSize":
			v, err := d.Str()
			item.ServingSize = v
			return err
		case "rating":
			v, err := d.Float64()
			item.Rating = v
			return err
		case "isAvailable":
			v, err := d.Bool()
			item.IsAvailable = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return catalog.MenuItem{}, errors.Wrap(err, "decode item")
	}
	return item, nil
}

const upsertItemSQL = `INSERT INTO menu_items (id, restaurant, name, description, detailed_description, price, category, image,
		ingredients, nutrition, allergens, is_vegetarian, preparation_time, spicy_level, serving_size, rating, is_available)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	ON CONFLICT (id) DO UPDATE SET
		restaurant = EXCLUDED.restaurant, name = EXCLUDED.name, description = EXCLUDED.description,
		detailed_description = EXCLUDED.detailed_description, price = EXCLUDED.price, category = EXCLUDED.category,
		image = EXCLUDED.image, ingredients = EXCLUDED.ingredients, nutrition = EXCLUDED.nutrition,
		allergens = EXCLUDED.allergens, is_vegetarian = EXCLUDED.is_vegetarian,
		preparation_time = EXCLUDED.preparation_time, spicy_level = EXCLUDED.spicy_level,
		serving_size = EXCLUDED.serving_size, rating = EXCLUDED.rating, is_available = EXCLUDED.is_available`

// writeItems drains the channel and upserts rows in batches.
func writeItems(ctx context.Context, pool *pgxpool.Pool, items <-chan catalog.MenuItem) error {
	batch := make([]catalog.MenuItem, 0, batchSize)
	var written int

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		b := &pgx.Batch{}
		for _, m := range batch {
			nutrition, err := json.Marshal(m.Nutrition)
			if err != nil {
				return errors.Wrapf(err, "marshal nutrition for %s", m.ID)
			}
			b.Queue(upsertItemSQL,
				m.ID, m.Restaurant, m.Name, m.Description, m.DetailedDescription, m.Price, string(m.Category), m.Image,
				m.Ingredients, nutrition, m.Allergens, m.IsVegetarian, m.PreparationTime, m.SpicyLevel,
				m.ServingSize, m.Rating, m.IsAvailable)
		}
		if err := pool.SendBatch(ctx, b).Close(); err != nil {
			return errors.Wrap(err, "send batch")
		}

		written += len(batch)
		slog.Info("batch written", slog.Int("total", written))
		batch = batch[:0]
		return nil
	}

	for item := range items {
		batch = append(batch, item)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}
