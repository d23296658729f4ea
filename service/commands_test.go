package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"blogdesk/app/models"
	"blogdesk/app/repositories"
	"blogdesk/config"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		AppName:     "blogdesk",
		Env:         "test",
		StoreDriver: driver,
		DatabaseURL: filepath.Join(dir, "project.db"),
		BadgerPath:  filepath.Join(dir, "badger"),
		BackupDir:   filepath.Join(dir, "backups"),
		SecretKey:   "0123456789abcdef",
	}
}

func run(t *testing.T, cfg *config.Config, input string, args ...string) (int, string) {
	t.Helper()
	log, _ := test.NewNullLogger()
	var out bytes.Buffer
	cmd := &Command{Config: cfg, Log: log, In: strings.NewReader(input), Out: &out}
	code := cmd.HandleCommand(context.Background(), args)
	return code, out.String()
}

func seedPost(t *testing.T, cfg *config.Config, title string) {
	t.Helper()
	log, _ := test.NewNullLogger()
	store, err := openStore(context.Background(), cfg, log)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Update(context.Background(), func(tx repositories.Tx) error {
		return tx.Posts().Create(context.Background(), &models.Post{Title: title})
	}))
}

func postTitles(t *testing.T, cfg *config.Config) []string {
	t.Helper()
	log, _ := test.NewNullLogger()
	store, err := openStore(context.Background(), cfg, log)
	require.NoError(t, err)
	defer store.Close()
	titles := []string{}
	require.NoError(t, store.View(context.Background(), func(tx repositories.Tx) error {
		posts, err := tx.Posts().List(context.Background())
		for _, p := range posts {
			titles = append(titles, p.Title)
		}
		return err
	}))
	return titles
}

func TestHandleCommand(t *testing.T) {
	cfg := testConfig(t, repositories.DriverSQLite)

	tests := []struct {
		name           string
		args           []string
		expectedOutput string
		expectedExit   int
	}{
		{"no arguments", []string{}, "Usage: blogdesk db <command>\n\nCommands:", 1},
		{"help command", []string{"help"}, "Usage: blogdesk db <command>\n\nCommands:", 0},
		{"unknown command", []string{"unknown"}, "Unknown db command: unknown", 1},
		{"restore without file", []string{"restore"}, "Error: backup file path required for restore", 1},
		{"restore missing file", []string{"restore", "/no/such/backup.db"}, "Backup file does not exist", 1},
		{"backup without database", []string{"backup"}, "No database exists to backup", 1},
		{"clean without database", []string{"clean"}, "Database is already clean (does not exist)", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, output := run(t, cfg, "", tt.args...)
			assert.Contains(t, output, tt.expectedOutput)
			assert.Equal(t, tt.expectedExit, code)
		})
	}
}

func TestPostgresIsRefused(t *testing.T) {
	cfg := testConfig(t, repositories.DriverPostgres)
	for _, args := range [][]string{{"clean"}, {"backup"}, {"restore", "x.db"}} {
		code, output := run(t, cfg, "", args...)
		assert.Equal(t, 1, code)
		assert.Contains(t, output, "pg_dump")
	}
}

func TestInitDb(t *testing.T) {
	for _, driver := range []string{repositories.DriverSQLite, repositories.DriverBadger} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)
			code, output := run(t, cfg, "", "init")
			assert.Equal(t, 0, code)
			assert.Contains(t, output, "Database initialized successfully")

			path, err := (&Command{Config: cfg}).location()
			require.NoError(t, err)
			_, err = os.Stat(path)
			assert.NoError(t, err)

			// migrate is idempotent
			code, _ = run(t, cfg, "", "migrate")
			assert.Equal(t, 0, code)
		})
	}
}

func TestClean(t *testing.T) {
	for _, driver := range []string{repositories.DriverSQLite, repositories.DriverBadger} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)
			seedPost(t, cfg, "keep me")
			path, err := (&Command{Config: cfg}).location()
			require.NoError(t, err)

			code, output := run(t, cfg, "n\n", "clean")
			assert.Equal(t, 1, code)
			assert.Contains(t, output, "Operation cancelled")
			_, err = os.Stat(path)
			assert.NoError(t, err)

			code, output = run(t, cfg, "y\n", "clean")
			assert.Equal(t, 0, code)
			assert.Contains(t, output, "Database cleaned successfully")
			_, err = os.Stat(path)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestBackupAndRestore(t *testing.T) {
	for _, driver := range []string{repositories.DriverSQLite, repositories.DriverBadger} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)
			seedPost(t, cfg, "before backup")

			code, output := run(t, cfg, "", "backup")
			require.Equal(t, 0, code, output)
			assert.Contains(t, output, "Database backed up successfully")

			entries, err := os.ReadDir(cfg.BackupDir)
			require.NoError(t, err)
			require.Len(t, entries, 1)
			backupFile := filepath.Join(cfg.BackupDir, entries[0].Name())

			seedPost(t, cfg, "after backup")
			assert.Equal(t, []string{"before backup", "after backup"}, postTitles(t, cfg))

			code, output = run(t, cfg, "n\n", "restore", backupFile)
			assert.Equal(t, 1, code)
			assert.Contains(t, output, "Operation cancelled")

			code, output = run(t, cfg, "y\n", "restore", backupFile)
			require.Equal(t, 0, code, output)
			assert.Contains(t, output, "Database restored successfully")
			assert.Equal(t, []string{"before backup"}, postTitles(t, cfg))
		})
	}
}

func TestRestoreEmptyFile(t *testing.T) {
	cfg := testConfig(t, repositories.DriverSQLite)
	empty := filepath.Join(t.TempDir(), "empty.db")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	code, output := run(t, cfg, "", "restore", empty)
	assert.Equal(t, 1, code)
	assert.Contains(t, output, "Backup file is empty")
}
