package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rfowler/diskmap/pkg/diskmap/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "diskmap [path]",
		Short: "Map disk usage as an interactive visualization",
		Long: heredoc.Doc(`
			Diskmap scans a directory tree concurrently and renders the result
			as an interactive sunburst chart in a self-contained HTML file.

			Examples:
			  diskmap                          # Scan current directory
			  diskmap ~/Downloads              # Scan specific directory
			  diskmap -w 16 /var               # Scan with 16 workers
			  diskmap --max-depth 3 /          # Limit traversal depth
			  diskmap --format json -O out.json  # Write raw JSON instead
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/diskmap/config.yaml)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "override worker count (0=auto)")
	rootCmd.PersistentFlags().Int("max-depth", -1, "maximum traversal depth (-1=unbounded)")
	rootCmd.PersistentFlags().StringSlice("skip", nil, "entry names to skip (can be specified multiple times)")
	rootCmd.PersistentFlags().StringP("output", "O", "", "output file path")
	rootCmd.PersistentFlags().StringP("format", "f", "", "output format (html, json, pretty, plain)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().Bool("no-progress", false, "disable the live progress display")

	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max-depth"))
	_ = viper.BindPFlag("skip", rootCmd.PersistentFlags().Lookup("skip"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_progress", rootCmd.PersistentFlags().Lookup("no-progress"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "diskmap"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "diskmap"))
		}
	}

	viper.SetEnvPrefix("DISKMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("default_path", config.DefaultPath)
	viper.SetDefault("workers", config.DefaultWorkers)
	viper.SetDefault("max_depth", config.DefaultMaxDepth)
	viper.SetDefault("skip", config.DefaultSkipNames)
	viper.SetDefault("output", config.DefaultOutput)
	viper.SetDefault("format", config.DefaultFormat)
	viper.SetDefault("logging.level", "info")

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}
