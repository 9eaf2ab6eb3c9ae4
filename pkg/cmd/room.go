package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yeisme/dontfile/pkg/client"
)

var (
	serverURL    string
	pollInterval time.Duration
	outputPath   string
	assumeYes    bool

	roomCmd = &cobra.Command{
		Use:   "room",
		Short: "work with a room on a running server",
	}

	roomListCmd = &cobra.Command{
		Use:     "ls <room>",
		Short:   "list files in a room, newest first",
		Aliases: []string{"list"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := newClient().List(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			client.SortByRecent(files)

			return printSnapshot(cmd.OutOrStdout(), client.Snapshot{State: client.StateReady, Files: files})
		},
	}

	roomPushCmd = &cobra.Command{
		Use:   "push <room> <file>...",
		Short: "upload files to a room",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()

			var errs []error

			for _, path := range args[1:] {
				if err := pushFile(cmd, c, args[0], path); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					errs = append(errs, err)
				}
			}

			return errors.Join(errs...)
		},
	}

	roomGetCmd = &cobra.Command{
		Use:   "get <room> <file>",
		Short: "download a file from a room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst := outputPath
			if dst == "" {
				dst = args[1]
			}

			var w io.Writer = cmd.OutOrStdout()

			if dst != "-" {
				f, err := os.Create(dst)
				if err != nil {
					return err
				}
				defer f.Close()

				w = f
			}

			n, err := newClient().Download(cmd.Context(), args[0], args[1], w)
			if err != nil {
				if dst != "-" {
					_ = os.Remove(dst)
				}

				return err
			}

			if dst != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "saved %s (%d bytes)\n", dst, n)
			}

			return nil
		},
	}

	roomRemoveCmd = &cobra.Command{
		Use:     "rm <room> <file>",
		Short:   "delete a file from a room",
		Aliases: []string{"delete"},
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm(cmd, fmt.Sprintf("Delete %s from %s?", args[1], args[0])) {
				return nil
			}

			res, err := newClient().Delete(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Message)

			return nil
		},
	}

	roomClearCmd = &cobra.Command{
		Use:   "clear <room>",
		Short: "delete every file in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm(cmd, fmt.Sprintf("Delete ALL files in %s?", args[0])) {
				return nil
			}

			res, err := newClient().DeleteAll(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Message)

			return nil
		},
	}

	roomWatchCmd = &cobra.Command{
		Use:   "watch <room>",
		Short: "poll a room and print its files until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := client.NewWatcher(newClient(), args[0], pollInterval)

			err := w.Run(cmd.Context(), func(s client.Snapshot) {
				fmt.Fprintf(cmd.OutOrStdout(), "--- %s %s\n", args[0], s.Updated.Format(time.TimeOnly))
				_ = printSnapshot(cmd.OutOrStdout(), s)
			})
			if errors.Is(err, cmd.Context().Err()) {
				return nil
			}

			return err
		},
	}
)

func newClient() *client.Client {
	return client.New(serverURL)
}

func pushFile(cmd *cobra.Command, c *client.Client, room, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	size := client.UnknownTotal
	if fi, err := f.Stat(); err == nil && fi.Mode().IsRegular() {
		size = fi.Size()
	}

	name := filepath.Base(path)
	out := cmd.ErrOrStderr()

	res, err := c.Upload(cmd.Context(), room, name, f, size, func(sent, total int64) {
		if total > 0 {
			fmt.Fprintf(out, "\r%s %3d%%", name, sent*100/total)
		} else {
			fmt.Fprintf(out, "\r%s %d bytes", name, sent)
		}
	})

	fmt.Fprintln(out)

	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "uploaded %s (%d bytes)\n", res.Filename, res.Size)

	return nil
}

func printSnapshot(w io.Writer, s client.Snapshot) error {
	switch s.State {
	case client.StateLoading:
		_, err := fmt.Fprintln(w, "Loading files...")

		return err
	case client.StateError:
		_, err := fmt.Fprintf(w, "Error loading files: %v\n", s.Err)

		return err
	}

	if len(s.Files) == 0 {
		_, err := fmt.Fprintln(w, "No files in this room yet.")

		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tUPLOADED")

	for _, f := range s.Files {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", f.Name, f.Size, f.UploadDate.Local().Format(time.DateTime))
	}

	return tw.Flush()
}

// confirm 在 --yes 未设置时读取一行确认.
func confirm(cmd *cobra.Command, prompt string) bool {
	if assumeYes {
		return true
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", prompt)

	var answer string
	if _, err := fmt.Fscanln(cmd.InOrStdin(), &answer); err != nil {
		return false
	}

	return answer == "y" || answer == "Y" || answer == "yes"
}

// registerRoomCommands 注册 room 相关命令.
func registerRoomCommands() {
	roomCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", client.DefaultBaseURL, "dontfile server URL")
	roomWatchCmd.Flags().DurationVarP(&pollInterval, "interval", "i", client.DefaultPollInterval, "poll interval")
	roomGetCmd.Flags().StringVarP(&outputPath, "output", "o", "", `output file ("-" for stdout)`)
	roomRemoveCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation")
	roomClearCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation")

	roomCmd.AddCommand(roomListCmd, roomPushCmd, roomGetCmd, roomRemoveCmd, roomClearCmd, roomWatchCmd)
	rootCmd.AddCommand(roomCmd)
}
