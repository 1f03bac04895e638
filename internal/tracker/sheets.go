// Package tracker exports enhanced tweet batches to a Google Sheet so the
// operator can review and post them manually.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

// SheetColumns defines the column headers for the export sheet. One row per
// tweet variant.
var SheetColumns = []string{
	"Post ID",
	"Topic Title",
	"Tags",
	"Source",
	"Source Link",
	"Variant",
	"Tweet Text",
	"Context",
	"Image Keyword",
	"Image URL",
	"Retweet Account",
	"Hashtags",
	"Quote Comment",
	"Status",
	"Enhanced At",
	"Exported At",
}

// Config holds Google Sheets tracker configuration
type Config struct {
	Enabled            bool   `mapstructure:"enabled"`
	SpreadsheetID      string `mapstructure:"spreadsheet_id"`
	SheetName          string `mapstructure:"sheet_name"`
	CredentialsFile    string `mapstructure:"credentials_file"`
	ServiceAccountJSON string `mapstructure:"service_account_json"`
}

// SheetsTracker handles the Google Sheets export
type SheetsTracker struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	rateLimiter   *ratelimit.MultiLimiter
	log           *logger.Logger
}

// NewSheetsTracker creates a new Google Sheets tracker. Returns (nil, nil)
// when the tracker is disabled.
func NewSheetsTracker(cfg Config, rateLimiter *ratelimit.MultiLimiter, log *logger.Logger) (*SheetsTracker, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	ctx := context.Background()

	var srv *sheets.Service
	var err error

	// Service account JSON takes precedence, it is the easiest to inject
	// through an env var.
	if cfg.ServiceAccountJSON != "" {
		srv, err = sheets.NewService(ctx, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	} else if cfg.CredentialsFile != "" {
		srv, err = sheets.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	} else {
		return nil, fmt.Errorf("no Google credentials provided: set credentials_file or service_account_json")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Tweets"
	}

	return &SheetsTracker{
		service:       srv,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		rateLimiter:   rateLimiter,
		log:           log.WithComponent("sheets-tracker"),
	}, nil
}

// InitializeSheet creates the sheet and headers if they don't exist
func (t *SheetsTracker) InitializeSheet(ctx context.Context) error {
	if err := t.ensureSheetExists(ctx); err != nil {
		return err
	}

	readRange := fmt.Sprintf("%s!A1:P1", t.sheetName)
	resp, err := t.service.Spreadsheets.Values.Get(t.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read sheet: %w", err)
	}

	if len(resp.Values) == 0 {
		t.log.Info().Msg("Initializing sheet with headers")
		return t.writeHeaders(ctx)
	}

	t.log.Debug().Msg("Sheet already has headers")
	return nil
}

func (t *SheetsTracker) ensureSheetExists(ctx context.Context) error {
	spreadsheet, err := t.service.Spreadsheets.Get(t.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties.Title == t.sheetName {
			t.log.Debug().Str("sheet", t.sheetName).Msg("Sheet already exists")
			return nil
		}
	}

	t.log.Info().Str("sheet", t.sheetName).Msg("Creating new sheet")
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: t.sheetName,
					},
				},
			},
		},
	}

	_, err = t.service.Spreadsheets.BatchUpdate(t.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	return nil
}

func (t *SheetsTracker) writeHeaders(ctx context.Context) error {
	var headerRow []interface{}
	for _, col := range SheetColumns {
		headerRow = append(headerRow, col)
	}

	writeRange := fmt.Sprintf("%s!A1", t.sheetName)
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{headerRow},
	}

	_, err := t.service.Spreadsheets.Values.Update(t.spreadsheetID, writeRange, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	t.log.Info().Msg("Sheet headers initialized")
	return nil
}

// AppendPosts appends one row per variant of every given post. Posts with no
// variants are skipped.
func (t *SheetsTracker) AppendPosts(ctx context.Context, posts []*models.GeneratedPost) (int, error) {
	rows := PostRows(posts, time.Now())
	if len(rows) == 0 {
		t.log.Info().Msg("Nothing to export")
		return 0, nil
	}

	if t.rateLimiter != nil {
		if err := t.rateLimiter.Wait(ctx, ratelimit.LimiterSheets); err != nil {
			return 0, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	writeRange := fmt.Sprintf("%s!A:P", t.sheetName)
	valueRange := &sheets.ValueRange{Values: rows}

	_, err := t.service.Spreadsheets.Values.Append(t.spreadsheetID, writeRange, valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to append rows: %w", err)
	}

	t.log.Info().Int("rows", len(rows)).Int("posts", len(posts)).Msg("Exported posts")
	return len(rows), nil
}

// PostRows flattens posts into sheet rows, one per variant.
func PostRows(posts []*models.GeneratedPost, exportedAt time.Time) [][]interface{} {
	var rows [][]interface{}
	for _, post := range posts {
		enhancedAt := ""
		if post.EnhancedAt != nil {
			enhancedAt = post.EnhancedAt.Format(time.RFC3339)
		}
		for i, v := range post.Variants {
			rows = append(rows, []interface{}{
				post.ID,
				post.TopicTitle,
				strings.Join(post.Tags, ", "),
				post.Source,
				post.SourceLink,
				i + 1,
				v.TweetText,
				v.Context,
				v.ImageKeyword,
				v.ImageURL,
				v.RetweetAccount,
				strings.Join(v.Hashtags, " "),
				v.QuoteComment,
				string(post.Status),
				enhancedAt,
				exportedAt.Format(time.RFC3339),
			})
		}
	}
	return rows
}
