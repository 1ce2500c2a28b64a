package sheets

import (
	"context"
	"errors"
	"fmt"
	"lead_funnel_go/models"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// GoogleSheets appends rows through the Sheets v4 API
type GoogleSheets struct {
	spreadsheetID string
	tab           string
	creds         *CredentialLoader
	clientOptions []option.ClientOption

	mu  sync.Mutex
	srv *sheetsapi.Service
}

// NewGoogleSheets creates a Sheets API store. Credentials are resolved on first use.
func NewGoogleSheets(spreadsheetID, tab string, creds *CredentialLoader, opts ...option.ClientOption) *GoogleSheets {
	return &GoogleSheets{
		spreadsheetID: spreadsheetID,
		tab:           tab,
		creds:         creds,
		clientOptions: opts,
	}
}

func (g *GoogleSheets) Name() string { return "google-sheets" }

// service lazily builds the API client. A failed build is retried on the next call.
func (g *GoogleSheets) service(ctx context.Context) (*sheetsapi.Service, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.srv != nil {
		return g.srv, nil
	}

	opts := g.clientOptions
	if len(opts) == 0 {
		authOpts, err := g.authOptions(ctx)
		if err != nil {
			return nil, err
		}
		opts = authOpts
	}

	srv, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	g.srv = srv
	return srv, nil
}

func (g *GoogleSheets) authOptions(ctx context.Context) ([]option.ClientOption, error) {
	if g.creds == nil {
		return nil, fmt.Errorf("%w: no Google credentials", ErrNotConfigured)
	}
	creds, err := g.creds.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}

	switch {
	case creds.HasServiceAccount():
		jwtCfg := &jwt.Config{
			Email:      creds.ClientEmail,
			PrivateKey: []byte(creds.PrivateKey.Reveal()),
			Scopes:     []string{sheetsapi.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}
		// The token source outlives the request, so it gets a background context
		return []option.ClientOption{option.WithHTTPClient(jwtCfg.Client(context.Background()))}, nil
	case creds.CredentialsJSON != "":
		gc, err := google.CredentialsFromJSON(ctx, []byte(creds.CredentialsJSON.Reveal()), sheetsapi.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid credentials file: %v", ErrNotConfigured, err)
		}
		return []option.ClientOption{option.WithCredentials(gc)}, nil
	default:
		return []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}, nil
	}
}

func (g *GoogleSheets) appendRange() string {
	return quoteTab(g.tab) + "!A:G"
}

func (g *GoogleSheets) readRange() string {
	return quoteTab(g.tab) + "!A2:B"
}

// AppendLead appends one row. Success requires HTTP 200 and at least one updated row.
func (g *GoogleSheets) AppendLead(ctx context.Context, lead *models.Lead) error {
	if g.spreadsheetID == "" {
		return fmt.Errorf("%w: GOOGLE_SHEET_ID is not set", ErrNotConfigured)
	}

	srv, err := g.service(ctx)
	if err != nil {
		return err
	}

	row := lead.Row()
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}

	// RAW keeps user text such as "=HYPERLINK(...)" from being evaluated as a formula
	resp, err := srv.Spreadsheets.Values.
		Append(g.spreadsheetID, g.appendRange(), &sheetsapi.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return classifyAPIError(err)
	}

	var updatedRows int64
	if resp.Updates != nil {
		updatedRows = resp.Updates.UpdatedRows
	}

	if resp.HTTPStatusCode != http.StatusOK || updatedRows == 0 {
		return &APIError{
			Status:  resp.HTTPStatusCode,
			Message: fmt.Sprintf("append reported updatedRows=%d", updatedRows),
		}
	}

	log.Printf("[sheets] Appended %d row(s) to %s", updatedRows, g.appendRange())
	return nil
}

func (g *GoogleSheets) readRows(ctx context.Context) ([][]string, error) {
	if g.spreadsheetID == "" {
		return nil, fmt.Errorf("%w: GOOGLE_SHEET_ID is not set", ErrNotConfigured)
	}

	srv, err := g.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Spreadsheets.Values.Get(g.spreadsheetID, g.readRange()).Context(ctx).Do()
	if err != nil {
		return nil, classifyAPIError(err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CountLeads counts filled rows below the header
func (g *GoogleSheets) CountLeads(ctx context.Context) (int, error) {
	rows, err := g.readRows(ctx)
	if err != nil {
		return 0, err
	}
	return countFilled(rows), nil
}

// Stats computes totals from the timestamp and name columns
func (g *GoogleSheets) Stats(ctx context.Context, now time.Time) (*models.LeadStats, error) {
	rows, err := g.readRows(ctx)
	if err != nil {
		return nil, err
	}
	return summarize(rows, now), nil
}

// classifyAPIError maps Google API errors onto actionable messages
func classifyAPIError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w (API: %s)", ErrPermission, gerr.Message)
		case http.StatusNotFound:
			return fmt.Errorf("%w (API: %s)", ErrNotFound, gerr.Message)
		default:
			return &APIError{Status: gerr.Code, Message: truncate(gerr.Message, DetailLimit)}
		}
	}
	return fmt.Errorf("google sheets request failed: %w", err)
}
