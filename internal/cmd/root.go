package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/niels/simple-webserver/pkg/config"
	"github.com/niels/simple-webserver/pkg/logging"
	"github.com/niels/simple-webserver/pkg/output"
	"github.com/niels/simple-webserver/pkg/server"
	"github.com/niels/simple-webserver/pkg/version"
	"github.com/niels/simple-webserver/pkg/worker"
	"github.com/spf13/cobra"
)

// ServeFunc binds port and serves connections with handler until the
// accept loop ends
type ServeFunc func(port int, handler server.ConnectionHandler) error

var (
	configPath  string
	rootDir     string
	idleTimeout int
	debug       bool
	showVersion bool
	noColor     bool
	cfg         *config.Config
	serve       ServeFunc
)

// NewRootCmd creates the root command for simple-webserver
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithServe(server.Start)
}

// NewRootCmdWithServe creates the root command with a custom serve function
// This is primarily used for testing
func NewRootCmdWithServe(serveFn ServeFunc) *cobra.Command {
	serve = serveFn

	rootCmd := &cobra.Command{
		Use:   version.AppName + " [port]",
		Short: version.Description,
		Long: fmt.Sprintf(`%s - %s

Serves files below the content root over HTTP/1.1, one request per
connection. The port defaults to 8080.
`, version.AppName, version.Description),
		Args: portArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg = config.LoadOrDefault(configPath)
			} else {
				cfg = config.Default()
			}

			logging.InitGlobalLogger(debug, cfg)
			if debug {
				logging.Debug("Debug logging enabled")
			}
			if configPath != "" {
				logging.InfoWith("Configuration loaded", map[string]interface{}{
					"path": configPath,
				})
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
				return nil
			}

			// Arguments are valid from here on, so errors are runtime failures
			cmd.SilenceUsage = true

			if len(args) == 1 {
				port, _ := strconv.Atoi(args[0])
				cfg.Server.Port = port
			}
			if rootDir != "" {
				cfg.Server.Root = rootDir
			}
			if cmd.Flags().Changed("idle-timeout") {
				cfg.Server.IdleTimeout = idleTimeout
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			root, err := cfg.ContentRoot()
			if err != nil {
				return err
			}

			output.NewBanner(cmd.OutOrStdout(), !noColor).Print(output.ServerInfo{
				AppName: version.AppName,
				Version: version.Version,
				Port:    cfg.Server.Port,
				Root:    root,
			})
			logging.InfoWith("Starting server", map[string]interface{}{
				"port":         cfg.Server.Port,
				"root":         root,
				"idle_timeout": cfg.IdleTimeoutDuration(),
			})

			if err := serve(cfg.Server.Port, worker.New(cfg, root)); err != nil {
				output.NewBanner(cmd.ErrOrStderr(), !noColor).PrintFailure(err)
				return err
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "Directory to serve files from (default: working directory)")
	rootCmd.PersistentFlags().IntVar(&idleTimeout, "idle-timeout", 10, "Seconds to wait for a complete request before closing the connection")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug mode")
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")

	return rootCmd
}

// portArgs accepts at most one argument, which must be an integer
func portArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: %s [port]", version.AppName)
	}
	if len(args) == 1 {
		if _, err := strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("argument must be an int (%v)", err)
		}
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
