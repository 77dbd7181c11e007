package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

func newOAuthConfig(config *Config) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.Calendar.ClientID,
		ClientSecret: config.Calendar.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{calendar.CalendarScope},
	}
}

func openDB(filename string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, err
	}
	if err := dbInit(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func getTokenFromWeb(config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}

	tok, err := config.Exchange(context.TODO(), authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func saveToken(db *sql.DB, accountName string, token *oauth2.Token) error {
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return err
	}

	_, err = db.Exec("INSERT OR REPLACE INTO tokens (account_name, token) VALUES (?, ?)", accountName, tokenJSON)
	return err
}

func loadToken(db *sql.DB, accountName string) (*oauth2.Token, error) {
	var tokenJSON []byte
	err := db.QueryRow("SELECT token FROM tokens WHERE account_name = ?", accountName).Scan(&tokenJSON)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("error unmarshaling token: %w", err)
	}
	return &token, nil
}

// getClient returns an authorized HTTP client for the Google Calendar API.
// A service account key, when present, wins over the stored OAuth token.
// With interactive set, a missing or revoked token starts the browser flow.
func getClient(ctx context.Context, config *Config, db *sql.DB, interactive bool) (*http.Client, error) {
	if path := config.path(config.Calendar.ServiceAccountFile); path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			jwtConfig, err := google.JWTConfigFromJSON(data, calendar.CalendarScope)
			if err != nil {
				return nil, fmt.Errorf("invalid service account file %s: %w", path, err)
			}
			printVerbosely(2, "  🔑 Using service account %s\n", jwtConfig.Email)
			return jwtConfig.Client(ctx), nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("reading service account file: %w", err)
		}
	}

	oauthConfig := newOAuthConfig(config)
	accountName := config.Calendar.AccountName

	token, err := loadToken(db, accountName)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("error retrieving token from database: %w", err)
		}
		if !interactive {
			return nil, fmt.Errorf("no token found for account %s; run 'venuewatch auth' first", accountName)
		}
		fmt.Printf("  ❗️ No token found for account %s. Obtaining a new token.\n", accountName)
		return authorizeFromWeb(ctx, oauthConfig, db, accountName)
	}

	newToken, err := oauthConfig.TokenSource(ctx, token).Token()
	if err != nil {
		if interactive && strings.Contains(err.Error(), "Token has been expired or revoked") {
			fmt.Printf("  ❗️ Token expired or revoked for account %s. Obtaining a new token.\n", accountName)
			return authorizeFromWeb(ctx, oauthConfig, db, accountName)
		}
		return nil, fmt.Errorf("error retrieving token from token source: %w", err)
	}

	if newToken.AccessToken != token.AccessToken {
		printVerbosely(2, "Token refreshed for account %s.\n", accountName)
		if err := saveToken(db, accountName, newToken); err != nil {
			return nil, fmt.Errorf("error saving refreshed token: %w", err)
		}
	}
	return oauthConfig.Client(ctx, newToken), nil
}

func authorizeFromWeb(ctx context.Context, oauthConfig *oauth2.Config, db *sql.DB, accountName string) (*http.Client, error) {
	token, err := getTokenFromWeb(oauthConfig)
	if err != nil {
		return nil, err
	}
	if err := saveToken(db, accountName, token); err != nil {
		return nil, fmt.Errorf("error saving token: %w", err)
	}
	return oauthConfig.Client(ctx, token), nil
}

func printVerbosely(verbosity int, format string, a ...interface{}) {
	// Print only if verbosity is higher than verbosityLevel
	// verbosityLevel is set in the config file
	// 0 - no output, other than critical errors
	// 1 - run phases and failures
	// 2 - shows being processed
	// 3 - calendar events created
	// 4 - calendar events skipped as duplicates
	// 5 - report everything
	if verbosity <= verbosityLevel {
		fmt.Printf(format, a...)
	}
}
