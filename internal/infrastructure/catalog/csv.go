package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/skifa/recipescaler/internal/domain"
)

// CSVRepository reads the supplier price lists from CSV exports
type CSVRepository struct {
	packagedPath string
	freshPath    string
	logger       *zap.Logger
}

// NewCSVRepository creates a repository over the packaged and fresh produce files
func NewCSVRepository(packagedPath, freshPath string, logger *zap.Logger) *CSVRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVRepository{
		packagedPath: packagedPath,
		freshPath:    freshPath,
		logger:       logger,
	}
}

// LoadPackaged reads the packaged goods price list
func (r *CSVRepository) LoadPackaged(ctx context.Context) ([]domain.CatalogEntry, error) {
	rows, err := r.readFile(ctx, r.packagedPath, "description", "size", "trade_price")
	if err != nil {
		return nil, err
	}

	entries := make([]domain.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := parsePackagedRow(row)
		if err != nil {
			r.logger.Warn("skipping price list row", zap.String("file", r.packagedPath), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadFresh reads the fresh produce price list
func (r *CSVRepository) LoadFresh(ctx context.Context) ([]domain.FreshProduceEntry, error) {
	rows, err := r.readFile(ctx, r.freshPath, "description")
	if err != nil {
		return nil, err
	}

	entries := make([]domain.FreshProduceEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := parseFreshRow(row)
		if err != nil {
			r.logger.Warn("skipping fresh produce row", zap.String("file", r.freshPath), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// record is one CSV data row keyed by normalized header
type record struct {
	line   int
	fields map[string]string
}

func (r record) get(column string) string {
	return strings.TrimSpace(r.fields[column])
}

func (r *CSVRepository) readFile(ctx context.Context, path string, required ...string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCatalogNotFound, path)
		}
		return nil, err
	}
	defer f.Close()

	return readRecords(ctx, f, required...)
}

func readRecords(ctx context.Context, src io.Reader, required ...string) ([]record, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", domain.ErrCatalogNotFound)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = normalizeColumn(name)
	}
	for _, want := range required {
		if !containsColumn(columns, want) {
			return nil, fmt.Errorf("missing required column %q", want)
		}
	}

	var records []record
	for line := 2; ; line++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		fields := make(map[string]string, len(columns))
		for i, value := range values {
			if i < len(columns) {
				fields[columns[i]] = value
			}
		}
		records = append(records, record{line: line, fields: fields})
	}
	return records, nil
}

// normalizeColumn lower-cases a header and joins its words with underscores.
// Dated price columns such as "Trade Price (as of 12 June 2023)" become trade_price.
func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	if strings.HasPrefix(normalized, "trade_price") {
		return "trade_price"
	}
	return normalized
}

func containsColumn(columns []string, want string) bool {
	for _, c := range columns {
		if c == want {
			return true
		}
	}
	return false
}

func parsePackagedRow(row record) (domain.CatalogEntry, error) {
	description := row.get("description")
	if description == "" {
		return domain.CatalogEntry{}, fmt.Errorf("line %d: empty description", row.line)
	}

	price, err := parseMoney(row.get("trade_price"))
	if err != nil {
		return domain.CatalogEntry{}, fmt.Errorf("line %d: trade price: %w", row.line, err)
	}

	packSize := 1
	if raw := row.get("pack_size"); raw != "" {
		packSize, err = strconv.Atoi(raw)
		if err != nil {
			return domain.CatalogEntry{}, fmt.Errorf("line %d: pack size %q: %w", row.line, raw, err)
		}
	}

	return domain.CatalogEntry{
		Description: description,
		Size:        row.get("size"),
		PackSize:    packSize,
		TradePrice:  price,
		ProductCode: row.get("product_code"),
	}, nil
}

func parseFreshRow(row record) (domain.FreshProduceEntry, error) {
	entry := domain.FreshProduceEntry{Description: row.get("description")}
	if entry.Description == "" {
		return entry, fmt.Errorf("line %d: empty description", row.line)
	}

	if raw := row.get("single_weight_kg"); raw != "" {
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return entry, fmt.Errorf("line %d: single weight %q: %w", row.line, raw, err)
		}
		entry.SingleItemWeight = &weight
	}

	if raw := row.get("each_price_pounds"); raw != "" {
		each, err := parseMoney(raw)
		if err != nil {
			return entry, fmt.Errorf("line %d: each price: %w", row.line, err)
		}
		entry.PricePerItem = decimal.NewNullDecimal(each)
	}

	if raw := row.get("price_per_kg"); raw != "" {
		perKg, err := parseMoney(raw)
		if err != nil {
			return entry, fmt.Errorf("line %d: price per kg: %w", row.line, err)
		}
		entry.PricePerBaseUnit = decimal.NewNullDecimal(perKg)
	}

	return entry, nil
}

// parseMoney accepts plain decimals with an optional pound sign and thousands separators
func parseMoney(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("£", "", ",", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Decimal{}, errors.New("empty value")
	}
	return decimal.NewFromString(cleaned)
}
