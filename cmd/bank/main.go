// cmd/bank/main.go

// 本程式為選單式的客戶資料管理工具，資料以純文字檔保存（預設 Clients.txt）。
// 此檔案負責解析旗標與設定、初始化模組（storage, bank, console），
// 並啟動互動選單或執行單一子命令。

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bankrecords/internal/bank"
	"bankrecords/internal/config"
	"bankrecords/internal/console"
	"bankrecords/internal/logging"
	"bankrecords/internal/storage"
)

var (
	// 全域旗標
	configPath string
	storePath  string
	verbose    bool
	force      bool

	cfg    *config.Config
	logger *zap.Logger
	dir    *bank.Directory
)

// rootCmd 無子命令時啟動互動選單。
var rootCmd = &cobra.Command{
	Use:   "bank",
	Short: "Bank client records kept in a delimited text file",
	Long: `bank manages client records (account number, PIN, name, phone, balance)
stored one per line in a plain text file.

Run without arguments to start the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("store") {
			cfg.Store.Path = storePath
		}

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}

		// 初始化核心模組：FileStore → Directory
		fs := storage.NewFileStore(cfg.Store, logger.With(zap.String("component", "FileStore")))
		dir = bank.NewDirectory(fs, logger.With(zap.String("component", "Directory")))
		logger.Debug("store ready", zap.String("path", fs.Path()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return newConsole(cmd).Run()
	},
}

// listCmd 只輸出客戶清單。
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print all clients",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newConsole(cmd).ShowClients()
	},
}

// totalCmd 只輸出餘額表與總額。
var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Print client balances and their total",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return newConsole(cmd).ShowTotalBalances()
	},
}

// configCmd 為設定檔相關子命令的群組。
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the YAML config file",
}

// configInitCmd 將目前生效的設定（含環境變數與旗標覆蓋）寫入 --config 指定的路徑。
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the --config path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configPath); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
		}
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", configPath)
		return nil
	},
}

func newConsole(cmd *cobra.Command) *console.Console {
	return console.New(dir, cmd.InOrStdin(), cmd.OutOrStdout(), logger.With(zap.String("component", "Console")))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "bank.yaml", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", storage.DefaultPath, "path to the client records file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	configInitCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(listCmd, totalCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
