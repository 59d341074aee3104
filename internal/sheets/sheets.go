// Sheet publisher: one row per listing, keyed by the listing's stable
// identity (vacancy reference, or the content-derived filename base).
// Existing rows are read once per run; anything already present is
// never re-appended. The URL column is kept for humans but is no use
// as a key: the site rotates the session token inside every href.

package sheets

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidread/jobadscrape/internal/dedup"
	"github.com/davidread/jobadscrape/internal/errs"
	"github.com/davidread/jobadscrape/internal/listing"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Column positions in listing.Row.
const (
	titleColumn       = 0
	departmentColumn  = 1
	closingDateColumn = 4
	referenceColumn   = 7
)

// RowStore is the spreadsheet capability the publisher needs. Tests
// substitute an in-memory implementation.
type RowStore interface {
	Rows(ctx context.Context) ([][]string, error)
	Append(ctx context.Context, row []string) error
}

// Publisher appends listings to a RowStore, skipping URLs that already
// have a row.
type Publisher struct {
	store RowStore
	index *dedup.Index
}

// NewPublisher reads the existing rows and builds the identity index.
func NewPublisher(ctx context.Context, store RowStore) (*Publisher, error) {
	rows, err := store.Rows(ctx)
	if err != nil {
		return nil, err
	}

	index := dedup.NewIndex()
	for _, row := range rows {
		index.Add(rowKey(row))
	}

	return &Publisher{store: store, index: index}, nil
}

// rowKey rebuilds a stored row's dedup key from its stable columns.
func rowKey(row []string) string {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}

	ref := cell(referenceColumn)
	title := cell(titleColumn)
	if ref == "" && title == "" {
		return ""
	}
	return listing.Key(ref, cell(closingDateColumn), title, cell(departmentColumn))
}

// Has reports whether a row with this identity key already exists.
func (p *Publisher) Has(key string) bool {
	return p.index.Seen(key)
}

// Publish appends the listing's row unless one with the same identity
// is already present. It reports whether a row was actually added.
func (p *Publisher) Publish(ctx context.Context, l listing.Listing) (bool, error) {
	if p.index.Seen(l.Key()) {
		return false, nil
	}
	if err := p.store.Append(ctx, l.Row()); err != nil {
		return false, err
	}
	p.index.Add(l.Key())
	return true, nil
}

// GoogleSheet is the Sheets API implementation of RowStore, using a
// service-account credential.
type GoogleSheet struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetRange    string
}

func NewGoogleSheet(ctx context.Context, credentialsJSON []byte, spreadsheetID, sheetRange string) (*GoogleSheet, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: sheets service: %v", errs.ErrAuth, err)
	}
	return &GoogleSheet{svc: svc, spreadsheetID: spreadsheetID, sheetRange: sheetRange}, nil
}

func (g *GoogleSheet) Rows(ctx context.Context) ([][]string, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, g.sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, classify("read rows", err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, r := range resp.Values {
		row := make([]string, len(r))
		for i, cell := range r {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (g *GoogleSheet) Append(ctx context.Context, row []string) error {
	vals := make([]interface{}, len(row))
	for i, cell := range row {
		vals[i] = cell
	}

	_, err := g.svc.Spreadsheets.Values.
		Append(g.spreadsheetID, g.sheetRange, &sheets.ValueRange{Values: [][]interface{}{vals}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return classify("append row", err)
	}
	return nil
}

func classify(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == 401 || gerr.Code == 403 {
			return fmt.Errorf("%w: sheets %s: %v", errs.ErrAuth, op, err)
		}
		return fmt.Errorf("%w: sheets %s: %v", errs.ErrRemote, op, err)
	}
	return fmt.Errorf("%w: sheets %s: %v", errs.ErrNetwork, op, err)
}
