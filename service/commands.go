package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blogdesk/app/repositories"
	"blogdesk/config"

	"github.com/sirupsen/logrus"
)

// Command carries what a db subcommand needs. In answers confirmation
// prompts; Out receives every message.
type Command struct {
	Config *config.Config
	Log    *logrus.Logger
	In     io.Reader
	Out    io.Writer
}

// HandleCommand handles db subcommands and returns an exit code.
func (c *Command) HandleCommand(ctx context.Context, args []string) int {
	if len(args) < 1 {
		c.printHelp()
		return 1
	}

	switch args[0] {
	case "migrate", "init":
		return c.initDb(ctx)
	case "clean":
		return c.clean()
	case "backup":
		return c.backup(ctx)
	case "restore":
		if len(args) < 2 {
			fmt.Fprintln(c.Out, "Error: backup file path required for restore")
			return 1
		}
		return c.restore(ctx, args[1])
	case "help":
		c.printHelp()
		return 0
	default:
		fmt.Fprintf(c.Out, "Unknown db command: %s\n\n", args[0])
		c.printHelp()
		return 1
	}
}

func (c *Command) printHelp() {
	helpText := `Usage: blogdesk db <command>

Commands:
  migrate | init     Open the configured store and apply the schema
  clean              Delete the database (sqlite file or badger directory)
  backup             Write a backup into BACKUP_DIR
  restore <file>     Replace the database with a backup
  help               Display this help message
`
	fmt.Fprintln(c.Out, helpText)
}

// location is the on-disk path of the configured database.
func (c *Command) location() (string, error) {
	switch c.Config.StoreDriver {
	case repositories.DriverSQLite:
		if c.Config.DatabaseURL == ":memory:" || strings.HasPrefix(c.Config.DatabaseURL, "file:") {
			return "", errors.New("only file-backed sqlite databases can be managed; set DATABASE_URL to a path")
		}
		return c.Config.DatabaseURL, nil
	case repositories.DriverBadger:
		return c.Config.BadgerPath, nil
	default:
		return "", fmt.Errorf("%s databases are managed with pg_dump and psql, not this tool", c.Config.StoreDriver)
	}
}

// confirm asks a y/N question on In.
func (c *Command) confirm(question string) bool {
	fmt.Fprintf(c.Out, "%s [y/N] ", question)
	scanner := bufio.NewScanner(c.In)
	if !scanner.Scan() {
		return false
	}
	response := strings.TrimSpace(scanner.Text())
	return response == "y" || response == "Y"
}

// initDb opens the store, which creates it and applies migrations.
func (c *Command) initDb(ctx context.Context) int {
	store, err := openStore(ctx, c.Config, c.Log)
	if err != nil {
		fmt.Fprintf(c.Out, "Failed to initialize database: %v\n", err)
		return 1
	}
	if err := store.Close(); err != nil {
		fmt.Fprintf(c.Out, "Failed to close database: %v\n", err)
		return 1
	}
	fmt.Fprintf(c.Out, "Database initialized successfully (%s)\n", c.Config.StoreDriver)
	return 0
}

// clean removes the database.
func (c *Command) clean() int {
	path, err := c.location()
	if err != nil {
		fmt.Fprintf(c.Out, "Error: %v\n", err)
		return 1
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(c.Out, "Database is already clean (does not exist)")
		return 0
	}

	if !c.confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(c.Out, "Operation cancelled")
		return 1
	}

	if err := removeDatabase(c.Config.StoreDriver, path); err != nil {
		fmt.Fprintf(c.Out, "Failed to clean database: %v\n", err)
		return 1
	}
	fmt.Fprintln(c.Out, "Database cleaned successfully")
	return 0
}

func removeDatabase(driver, path string) error {
	if driver == repositories.DriverBadger {
		return os.RemoveAll(path)
	}
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// backup creates a backup of the database.
func (c *Command) backup(ctx context.Context) int {
	path, err := c.location()
	if err != nil {
		fmt.Fprintf(c.Out, "Error: %v\n", err)
		return 1
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(c.Out, "No database exists to backup")
		return 1
	}
	if err := os.MkdirAll(c.Config.BackupDir, 0755); err != nil {
		fmt.Fprintf(c.Out, "Failed to create backup directory: %v\n", err)
		return 1
	}

	backupFile := filepath.Join(c.Config.BackupDir, fmt.Sprintf("backup_%d.db", time.Now().UnixNano()))
	if c.Config.StoreDriver == repositories.DriverBadger {
		err = c.backupBadger(backupFile)
	} else {
		err = c.backupSQLite(ctx, backupFile)
	}
	if err != nil {
		fmt.Fprintf(c.Out, "Failed to backup database: %v\n", err)
		return 1
	}

	fmt.Fprintf(c.Out, "Database backed up successfully to %s\n", backupFile)
	return 0
}

func (c *Command) backupSQLite(ctx context.Context, backupFile string) error {
	store, err := repositories.OpenSQL(ctx, repositories.DriverSQLite, c.Config.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()
	// VACUUM INTO writes a consistent, compacted copy without blocking readers
	_, err = store.DB().ExecContext(ctx, `VACUUM INTO ?`, backupFile)
	return err
}

func (c *Command) backupBadger(backupFile string) error {
	store, err := repositories.OpenBadger(c.Config.BadgerPath, c.Log)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Create(backupFile)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := store.DB().Backup(f, 0); err != nil {
		return err
	}
	return f.Sync()
}

// restore restores the database from a backup.
func (c *Command) restore(ctx context.Context, backupFile string) int {
	path, err := c.location()
	if err != nil {
		fmt.Fprintf(c.Out, "Error: %v\n", err)
		return 1
	}

	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		fmt.Fprintf(c.Out, "Backup file does not exist: %s\n", backupFile)
		return 1
	}
	if err != nil {
		fmt.Fprintf(c.Out, "Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Fprintf(c.Out, "Backup file is empty: %s\n", backupFile)
		return 1
	}

	if _, err := os.Stat(path); err == nil {
		if !c.confirm("Existing database found. Do you want to replace it?") {
			fmt.Fprintln(c.Out, "Operation cancelled")
			return 1
		}
		if err := removeDatabase(c.Config.StoreDriver, path); err != nil {
			fmt.Fprintf(c.Out, "Failed to remove existing database: %v\n", err)
			return 1
		}
	}

	if c.Config.StoreDriver == repositories.DriverBadger {
		err = c.restoreBadger(backupFile)
	} else {
		err = c.restoreSQLite(ctx, backupFile)
	}
	if err != nil {
		fmt.Fprintf(c.Out, "Failed to restore database: %v\n", err)
		return 1
	}

	fmt.Fprintln(c.Out, "Database restored successfully")
	return 0
}

func (c *Command) restoreSQLite(ctx context.Context, backupFile string) error {
	if err := copyFile(backupFile, c.Config.DatabaseURL); err != nil {
		return err
	}
	// opening checks the copy is a database and brings its schema up to date
	store, err := repositories.OpenSQL(ctx, repositories.DriverSQLite, c.Config.DatabaseURL)
	if err != nil {
		return err
	}
	return store.Close()
}

func (c *Command) restoreBadger(backupFile string) (err error) {
	if err := os.MkdirAll(c.Config.BadgerPath, 0755); err != nil {
		return err
	}
	store, err := repositories.OpenBadger(c.Config.BadgerPath, c.Log)
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return err
	}
	defer f.Close()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred during restore: %v", r)
		}
	}()
	return store.DB().Load(f, 256)
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
