package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yeisme/dontfile/pkg/internal/storage/mq"
	"github.com/yeisme/dontfile/pkg/queue"
)

var (
	mqCmd = &cobra.Command{
		Use:     "mq",
		Short:   "Room event transport related commands",
		Aliases: []string{"events"},
	}

	mqListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered event transports",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered mq types:")
			for _, t := range mq.RegisteredTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), "   - "+string(t))
			}
		},
	}

	mqTopicsCmd = &cobra.Command{
		Use:   "topics",
		Short: "list room event topics",
		Run: func(cmd *cobra.Command, args []string) {
			for _, t := range queue.RoomTopics {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
		},
	}
)

// registerMQCommands 注册 MQ 相关命令.
func registerMQCommands() {
	rootCmd.AddCommand(mqCmd)
	mqCmd.AddCommand(mqListCmd)
	mqCmd.AddCommand(mqTopicsCmd)
}
