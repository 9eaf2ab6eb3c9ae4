// Package cmd contains the command line applications for the project.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yeisme/dontfile/pkg/configs"
)

var (
	// configPath 配置文件或配置目录.
	configPath string
	// debug 打印更多调试信息.
	debug bool

	rootCmd = &cobra.Command{
		Use:           "dontfile",
		Short:         "A room-based file drop server and client",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file or directory (default: ./ and ./configs)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print debug output")

	registerServeCommands()
	registerConfigsCommands()
	registerStorageCommands()
	registerMQCommands()
	registerRoomCommands()
	registerVersionCommands()
}

// loadConfig 供需要本地配置的子命令在 PreRunE 中调用.
func loadConfig(*cobra.Command, []string) error {
	return configs.InitConfig(configPath)
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}
