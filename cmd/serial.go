package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/Javier-varez/Postform/internal/decoder"
	"github.com/Javier-varez/Postform/internal/frame"
	"github.com/Javier-varez/Postform/internal/serialport"
	"github.com/Javier-varez/Postform/utils"
)

var serialFlags struct {
	baudRate            int
	parity              string
	stopBits            string
	disableVersionCheck bool
	listPorts           bool
}

var serialCmd = &cobra.Command{
	Use:   "serial [flags] <ELF> <port>",
	Short: "Decode logs captured live over a serial (UART) link",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runSerial,
}

func init() {
	def := serialport.DefaultConfig()
	serialCmd.Flags().IntVarP(&serialFlags.baudRate, "baudrate", "s", def.BaudRate, "serial port baud rate")
	serialCmd.Flags().StringVar(&serialFlags.parity, "parity", def.Parity, "parity: none, odd, even, mark, space")
	serialCmd.Flags().StringVar(&serialFlags.stopBits, "stop-bits", def.StopBits, "stop bits: 1, 1.5, or 2")
	serialCmd.Flags().BoolVarP(&serialFlags.disableVersionCheck, "disable-version-check", "d", false, "skip the Postform wire version check")
	serialCmd.Flags().BoolVar(&serialFlags.listPorts, "list-ports", false, "list available serial ports and exit")
	serialCmd.ValidArgsFunction = utils.CompleteFilesByExtension([]string{".elf"}, false)
	rootCmd.AddCommand(serialCmd)
}

func runSerial(cmd *cobra.Command, args []string) error {
	if serialFlags.listPorts {
		ports, err := serialport.List()
		if err != nil {
			return err
		}
		for _, p := range ports {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("the firmware ELF path and the serial port are required")
	}
	elfPath, device := args[0], args[1]

	meta, err := loadMetadata(elfPath, serialFlags.disableVersionCheck)
	if err != nil {
		return err
	}

	port, err := serialport.Open(device, serialport.Config{
		BaudRate: serialFlags.baudRate,
		DataBits: 8,
		Parity:   serialFlags.parity,
		StopBits: serialFlags.stopBits,
	})
	if err != nil {
		return err
	}
	defer port.Close()

	var cancelled atomic.Bool
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancelled.Store(true)
		port.Close()
	}()

	dec := decoder.NewDecoder(meta)
	rdec := frame.NewRCOBSDecoder()

	buf := make([]byte, 256)
	for !cancelled.Load() {
		n, err := port.Read(buf)
		if err != nil {
			if cancelled.Load() {
				return nil
			}
			return fmt.Errorf("reading serial port: %w", err)
		}
		for _, b := range buf[:n] {
			payload, complete, err := rdec.PushByte(b)
			if err != nil {
				decoder.PrintError(cmd.OutOrStdout(), err)
				continue
			}
			if !complete {
				continue
			}
			log, err := dec.Decode(payload)
			if err != nil {
				decoder.PrintError(cmd.OutOrStdout(), err)
				continue
			}
			decoder.Print(cmd.OutOrStdout(), log)
		}
	}
	return nil
}
