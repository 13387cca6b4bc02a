package transfers

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	custom_error "leltar/pkg/errors"
	"leltar/pkg/metadata"
	"leltar/pkg/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var exportHeader = []string{"id", "ts", "from_wh", "to_wh", "product_id", "qty", "user"}

// maxReportedRowErrors caps how many bad rows an import error lists.
const maxReportedRowErrors = 10

// Export writes the ledger as CSV. A nil month exports the whole log, newest
// first; a single month is written oldest first.
func (s *TransferService) Export(ctx context.Context, w io.Writer, month *metadata.Month) (int, error) {
	query := models.TransferQuery{Month: month, NewestFirst: month == nil}
	rows, err := s.repo.GetTransfers(ctx, query)
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, t := range rows {
		record := []string{
			strconv.FormatInt(t.ID, 10),
			t.Timestamp.UTC().Format(time.RFC3339),
			string(t.FromWarehouse),
			string(t.ToWarehouse),
			strconv.FormatInt(t.ProductID, 10),
			t.Quantity.String(),
			t.User,
		}
		if err := writer.Write(record); err != nil {
			return 0, fmt.Errorf("write transfer %d: %w", t.ID, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("flush transfers: %w", err)
	}

	return len(rows), nil
}

// Import appends the rows of an exported ledger as new entries. The id
// column is ignored. Snapshots are not touched: the imported transfers are
// assumed to be reflected in the month's data already.
func (s *TransferService) Import(ctx context.Context, r io.Reader) (int, error) {
	n, err := s.importTransfers(ctx, r)
	s.metrics.Transfer("import", err)
	return n, err
}

func (s *TransferService) importTransfers(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, custom_error.NewValidationError("file", "file is empty")
	}
	if err != nil {
		return 0, &custom_error.ParseError{File: "transfers", Message: "invalid CSV", Err: err}
	}
	columns, err := importColumns(header)
	if err != nil {
		return 0, err
	}

	var (
		rows     []models.Transfer
		problems []string
		bad      int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, &custom_error.ParseError{File: "transfers", Message: "invalid CSV", Err: err}
		}
		line, _ := reader.FieldPos(0)

		t, err := s.parseImportRow(record, columns)
		if err != nil {
			bad++
			if len(problems) < maxReportedRowErrors {
				problems = append(problems, fmt.Sprintf("line %d: %s", line, err))
			}
			continue
		}
		rows = append(rows, t)
	}

	if bad > 0 {
		msg := strings.Join(problems, "; ")
		if bad > len(problems) {
			msg += fmt.Sprintf("; and %d more", bad-len(problems))
		}
		return 0, custom_error.NewValidationError("file", msg)
	}
	if len(rows) == 0 {
		return 0, custom_error.NewValidationError("file", "no transfers to import")
	}

	inserted, err := s.repo.InsertTransfers(ctx, rows)
	if err != nil {
		return 0, err
	}

	s.logger.Info("Imported transfers", zap.Int("count", inserted))
	return inserted, nil
}

func importColumns(header []string) (map[string]int, error) {
	columns := map[string]int{}
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[name] = i
	}

	var missing []string
	for _, name := range exportHeader {
		if name == "id" || name == "user" {
			continue
		}
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, custom_error.NewValidationError("file", "missing columns: "+strings.Join(missing, ", "))
	}
	return columns, nil
}

func (s *TransferService) parseImportRow(record []string, columns map[string]int) (models.Transfer, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	ts, err := time.Parse(time.RFC3339, field("ts"))
	if err != nil {
		return models.Transfer{}, fmt.Errorf("invalid ts %q", field("ts"))
	}
	from, err := metadata.NewWarehouse(field("from_wh"))
	if err != nil {
		return models.Transfer{}, err
	}
	to, err := metadata.NewWarehouse(field("to_wh"))
	if err != nil {
		return models.Transfer{}, err
	}
	if from == to {
		return models.Transfer{}, fmt.Errorf("from_wh and to_wh are both %s", from)
	}
	productID, err := strconv.ParseInt(field("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return models.Transfer{}, fmt.Errorf("invalid product_id %q", field("product_id"))
	}
	qty, err := decimal.NewFromString(field("qty"))
	if err != nil || !qty.IsPositive() {
		return models.Transfer{}, fmt.Errorf("invalid qty %q", field("qty"))
	}
	if err := metadata.CheckQuantity(qty); err != nil {
		return models.Transfer{}, fmt.Errorf("invalid qty: %w", err)
	}

	user := field("user")
	if user == "" {
		user = s.actor
	}

	return models.Transfer{
		Timestamp:     ts.UTC(),
		FromWarehouse: from,
		ToWarehouse:   to,
		ProductID:     productID,
		Quantity:      qty,
		User:          user,
	}, nil
}
