package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yeisme/dontfile/pkg/configs"
	"github.com/yeisme/dontfile/pkg/internal/service"
	"github.com/yeisme/dontfile/pkg/internal/storage"

	_ "github.com/yeisme/dontfile/pkg/internal/storage/local"
	_ "github.com/yeisme/dontfile/pkg/internal/storage/s3"
)

var (
	storageCmd = &cobra.Command{
		Use:   "storage",
		Short: "Storage backend related commands",
	}

	storageTypesCmd = &cobra.Command{
		Use:   "types",
		Short: "list all registered storage backends",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "Registered storage types:")

			for _, t := range storage.GetRegisteredTypes() {
				fmt.Fprintln(cmd.OutOrStdout(), " - "+string(t))
			}
		},
	}

	storageListCmd = &cobra.Command{
		Use:     "ls",
		Short:   "list rooms and usage of the configured backend",
		Aliases: []string{"list"},
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configs.GetConfig()

			store, err := storage.New(ctx, &cfg.Storage, &cfg.CircuitBreaker)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := service.NewFileService(store)

			rooms, err := svc.Rooms(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROOM\tFILES\tBYTES")

			var total int64

			for _, room := range rooms {
				entries, err := svc.List(ctx, room)
				if err != nil {
					return err
				}

				var size int64
				for _, e := range entries {
					size += e.Size
				}

				total += size
				fmt.Fprintf(tw, "%s\t%d\t%d\n", room, len(entries), size)
			}

			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "\n%d room(s), %d byte(s) on %s\n", len(rooms), total, store.Name())

			return nil
		},
	}
)

// registerStorageCommands 注册存储相关命令.
func registerStorageCommands() {
	rootCmd.AddCommand(storageCmd)

	storageCmd.AddCommand(storageTypesCmd)
	storageCmd.AddCommand(storageListCmd)
}
