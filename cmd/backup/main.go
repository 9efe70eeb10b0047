package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/umehtaji1981-tech/samaj-setu/internal/config"
	"github.com/umehtaji1981-tech/samaj-setu/internal/database"
	"github.com/umehtaji1981-tech/samaj-setu/internal/gstorage"
	"github.com/umehtaji1981-tech/samaj-setu/internal/logger"
	"github.com/umehtaji1981-tech/samaj-setu/internal/repository"
	"github.com/umehtaji1981-tech/samaj-setu/internal/service"
)

var (
	green        = color.New(color.FgGreen).SprintFunc()
	yellow       = color.New(color.FgYellow).SprintFunc()
	warningLabel = yellow("Warning:")
)

// env is what every subcommand works on, opened once per run
type env struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	db      *database.DB
	storage *gstorage.GStorage
	backup  *service.BackupService
}

func (e *env) open(ctx context.Context, withSnapshots bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	e.cfg = cfg
	e.log = logger.New(cfg.Debug)

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	e.db = db

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(ctx, cfg.MigrationsPath, e.log); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	directory := service.NewDirectoryService(repository.NewStateRepository(db), cfg.StateKey, e.log)
	if err := directory.Load(ctx); err != nil {
		return err
	}

	var objects service.ObjectStore
	if withSnapshots {
		if cfg.GCSBucket == "" {
			return fmt.Errorf("%w: GCS_BUCKET is not set", service.ErrSnapshotsDisabled)
		}
		gs, err := gstorage.NewGStorage(ctx, cfg.GCSCredentialsFile, cfg.GCSBucket)
		if err != nil {
			return err
		}
		e.storage = gs
		objects = gs
	}
	e.backup = service.NewBackupService(directory, objects, cfg.GCSPrefix, e.log)
	return nil
}

func (e *env) close() {
	if e.storage != nil {
		_ = e.storage.Close()
	}
	if e.db != nil {
		_ = e.db.Close()
	}
	if e.log != nil {
		_ = e.log.Sync()
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:   "backup",
		Short: "Export, import and snapshot the Samaj Setu directory",
		Long: `backup copies the whole directory state to and from JSON files
and Google Cloud Storage snapshots.

Environment:
  DATABASE_TYPE    sqlite, postgres or mysql (default: sqlite)
  DATABASE_PATH    SQLite database path
  DATABASE_URL     PostgreSQL or MySQL connection URL
  GCS_BUCKET       bucket for snapshot and restore`,
		SilenceUsage: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			e.close()
		},
	}

	root.AddCommand(
		newExportCmd(e),
		newImportCmd(e),
		newSnapshotCmd(e),
		newListCmd(e),
		newRestoreCmd(e),
	)
	return root
}

func newExportCmd(e *env) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the directory to a JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.open(cmd.Context(), false); err != nil {
				return err
			}

			// Generate default filename if not provided
			if output == "" {
				output = fmt.Sprintf("samaj_backup_%s.json", time.Now().Format("20060102_150405"))
			}
			if dir := filepath.Dir(output); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			if err := e.backup.ExportFile(output); err != nil {
				return err
			}
			info, err := os.Stat(output)
			if err != nil {
				return err
			}
			cmd.Printf("%s %s (%.2f KB)\n", green("Exported"), output, float64(info.Size())/1024)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: samaj_backup_YYYYMMDD_HHMMSS.json)")
	return cmd
}

func newImportCmd(e *env) *cobra.Command {
	var input string
	var yes bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the directory with a backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("input file does not exist: %s", input)
			}
			if !yes && !confirm(cmd, "This replaces every member and the settings.") {
				cmd.Println("Import cancelled")
				return nil
			}
			if err := e.open(cmd.Context(), false); err != nil {
				return err
			}

			if err := e.backup.ImportFile(cmd.Context(), input); err != nil {
				return err
			}
			cmd.Printf("%s %s\n", green("Imported"), input)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "backup file to import")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newSnapshotCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Upload a snapshot to Cloud Storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.open(cmd.Context(), true); err != nil {
				return err
			}
			object, err := e.backup.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("%s gs://%s/%s\n", green("Uploaded"), e.cfg.GCSBucket, object)
			return nil
		},
	}
}

func newListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.open(cmd.Context(), true); err != nil {
				return err
			}
			names, err := e.backup.Snapshots(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				cmd.Println(name)
			}
			return nil
		},
	}
}

func newRestoreCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore [object]",
		Short: "Restore a snapshot, the newest one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var object string
			if len(args) == 1 {
				object = args[0]
			}
			if !yes && !confirm(cmd, "This replaces every member and the settings.") {
				cmd.Println("Restore cancelled")
				return nil
			}
			if err := e.open(cmd.Context(), true); err != nil {
				return err
			}

			restored, err := e.backup.RestoreSnapshot(cmd.Context(), object)
			if err != nil {
				return err
			}
			cmd.Printf("%s %s\n", green("Restored"), restored)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func confirm(cmd *cobra.Command, warning string) bool {
	cmd.Printf("%s %s Type 'yes' to confirm: ", warningLabel, warning)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(answer) == "yes"
}
