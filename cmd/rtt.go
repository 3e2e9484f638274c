package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Javier-varez/Postform/internal/decoder"
	"github.com/Javier-varez/Postform/internal/frame"
	"github.com/Javier-varez/Postform/internal/probe"
	"github.com/Javier-varez/Postform/utils"
)

var rttFlags struct {
	chip                string
	probeSelector       string
	probeIndex          int
	channel             uint32
	attach              bool
	disableVersionCheck bool
	gdbServer           bool
	listProbes          bool
	listChips           bool
	verbose             bool
}

var rttCmd = &cobra.Command{
	Use:   "rtt [flags] <ELF>",
	Short: "Decode logs captured live over RTT from an attached debug probe",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRTT,
}

func init() {
	rttCmd.Flags().StringVarP(&rttFlags.chip, "chip", "c", envOr("POSTFORM_CHIP", ""), "target chip name (env POSTFORM_CHIP)")
	rttCmd.Flags().StringVar(&rttFlags.probeSelector, "probe-selector", envOr("POSTFORM_PROBE", ""), "probe to open, as VID:PID[:SERIAL] (env POSTFORM_PROBE)")
	rttCmd.Flags().IntVar(&rttFlags.probeIndex, "probe-index", 0, "index into --list-probes output")
	rttCmd.Flags().Uint32Var(&rttFlags.channel, "channel", 0, "RTT up-channel number to read logs from")
	rttCmd.Flags().BoolVarP(&rttFlags.attach, "attach", "a", false, "attach to a running target instead of downloading firmware first")
	rttCmd.Flags().BoolVarP(&rttFlags.disableVersionCheck, "disable-version-check", "d", false, "skip the Postform wire version check")
	rttCmd.Flags().BoolVar(&rttFlags.gdbServer, "gdb-server", false, "also serve a GDB remote stub on 127.0.0.1:1337 while decoding")
	rttCmd.Flags().BoolVar(&rttFlags.listProbes, "list-probes", false, "list attached debug probes and exit")
	rttCmd.Flags().BoolVar(&rttFlags.listChips, "list-chips", false, "list supported chip names and exit")
	rttCmd.Flags().BoolVarP(&rttFlags.verbose, "verbose", "v", false, "print attach and flashing diagnostics to stderr")
	rttCmd.ValidArgsFunction = utils.CompleteFilesByExtension([]string{".elf"}, false)
	rootCmd.AddCommand(rttCmd)
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func runRTT(cmd *cobra.Command, args []string) error {
	dp := probe.NewLocalProbe()

	if rttFlags.listProbes {
		probes, err := dp.ListProbes()
		if err != nil {
			return err
		}
		if len(probes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No devices were found.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "The following devices were found:")
		for i, p := range probes {
			fmt.Fprintf(cmd.OutOrStdout(), "[%d]: %s (serial %s)\n", i, p.Identifier, p.SerialNum)
		}
		return nil
	}
	if rttFlags.listChips {
		chips, err := dp.ListChips()
		if err != nil {
			return err
		}
		for _, c := range chips {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", c.Name, c.Vendor)
		}
		return nil
	}

	if len(args) != 1 {
		return fmt.Errorf("the firmware ELF path is required")
	}
	elfPath := args[0]
	if rttFlags.chip == "" {
		return fmt.Errorf("--chip is required (or set POSTFORM_CHIP)")
	}

	var selector *probe.Selector
	if rttFlags.probeSelector != "" {
		sel, err := probe.ParseSelector(rttFlags.probeSelector)
		if err != nil {
			return err
		}
		selector = &sel
	}

	meta, err := loadMetadata(elfPath, rttFlags.disableVersionCheck)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	target, err := dp.Attach(ctx, rttFlags.chip, selector, rttFlags.probeIndex)
	if err != nil {
		return err
	}
	session := probe.NewSession(target)

	if !rttFlags.attach {
		if rttFlags.verbose {
			fmt.Fprintf(os.Stderr, "Downloading firmware %s, breakpoint at main (0x%x)\n", elfPath, meta.MainAddress)
		}
		if err := session.DownloadFirmware(ctx, elfPath); err != nil {
			return err
		}
	}
	if err := session.RunCore(ctx); err != nil {
		return err
	}

	if rttFlags.gdbServer {
		go runGDBStub(session)
	} else {
		// Debugging the core isn't possible while the decode loop owns
		// the probe anyway; releasing C_DEBUGEN at least leaves the
		// DebugMonitor exception usable by the firmware.
		if err := session.DisableCDebugEn(ctx); err != nil {
			return err
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		session.Cancel()
	}()

	// The control block's target RAM pointer width, not the wire
	// dialect's: RTT targets are Cortex-M class, so default to 32-bit
	// unless the firmware's platform descriptor says otherwise.
	ptrSize := uint32(4)
	if meta.Platform != nil {
		ptrSize = meta.Platform.PtrSize
	}

	cbAddr := uint32(meta.RTTAddress)
	if cbAddr == 0 {
		const searchStart, searchLen = 0x20000000, 0x00020000 // typical Cortex-M SRAM window
		cbAddr, err = probe.FindControlBlock(ctx, session, searchStart, searchLen)
		if err != nil {
			return err
		}
	}
	if rttFlags.verbose {
		fmt.Fprintf(os.Stderr, "RTT control block at 0x%x\n", cbAddr)
	}

	if err := probe.ConfigureMode(ctx, session, cbAddr, ptrSize, rttFlags.channel, probe.RTTModeBlockingHost); err != nil {
		return err
	}
	// Leave the target free-running rather than stalled on a full RTT
	// buffer once the host stops draining it.
	defer probe.ConfigureMode(context.Background(), session, cbAddr, ptrSize, rttFlags.channel, probe.RTTModeNonBlockingSkip)

	dec := decoder.NewDecoder(meta)
	cobsDec := frame.NewCOBSDecoder()

	for !session.Cancelled() {
		chunk, err := probe.DrainUpBuffer(ctx, session, cbAddr, ptrSize, rttFlags.channel)
		if err != nil {
			return err
		}
		for _, b := range chunk {
			payload, complete, err := cobsDec.PushByte(b)
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
			} else {
				decoder.Print(cmd.OutOrStdout(), log)
			}
			if session.Cancelled() {
				return nil
			}
		}
	}
	return nil
}

// runGDBStub listens on 127.0.0.1:1337, accepts a single GDB remote
// connection and closes it again on return. It serves no RSP commands and
// does not access the target through session.
func runGDBStub(session *probe.Session) {
	ln, err := net.Listen("tcp", "127.0.0.1:1337")
	if err != nil {
		fmt.Fprintf(os.Stderr, "gdb-server: %v\n", err)
		return
	}
	defer ln.Close()

	conn, err := ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	_ = session // reserved for the RSP handler's memory read/write commands
}
