package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Javier-varez/Postform/internal/decoder"
	"github.com/Javier-varez/Postform/internal/frame"
	"github.com/Javier-varez/Postform/utils"
)

var persistFlags struct {
	disableVersionCheck bool
}

var persistCmd = &cobra.Command{
	Use:   "persist [flags] <ELF> <LOG_FILE>",
	Short: "Replay logs from a previously captured persisted log file",
	Long:  `persist decodes a length-prefixed capture file (a little-endian u32 byte length before each record), with no probe attached.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		elfPath, logPath := args[0], args[1]

		meta, err := loadMetadata(elfPath, persistFlags.disableVersionCheck)
		if err != nil {
			return err
		}

		f, err := os.Open(logPath)
		if err != nil {
			return fmt.Errorf("opening persisted log file: %w", err)
		}
		defer f.Close()

		reader := frame.NewPersistedReader(f)
		dec := decoder.NewDecoder(meta)

		for {
			payload, err := reader.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				decoder.PrintError(cmd.OutOrStdout(), err)
				continue
			}

			log, err := dec.Decode(payload)
			if err != nil {
				decoder.PrintError(cmd.OutOrStdout(), err)
				continue
			}
			decoder.Print(cmd.OutOrStdout(), log)
		}
	},
}

func init() {
	persistCmd.Flags().BoolVarP(&persistFlags.disableVersionCheck, "disable-version-check", "d", false, "skip the Postform wire version check")
	persistCmd.ValidArgsFunction = utils.CompleteFilesByExtension([]string{".elf"}, false)
	rootCmd.AddCommand(persistCmd)
}
