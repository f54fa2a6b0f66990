// Command fv1 is a host-side wrapper around the emulator core: it
// assembles SPN source into a ROM image, runs a program over a
// synthetic test buffer, and disassembles a compiled program back to
// text. None of this is part of the FV-1 itself — real hardware has no
// CLI, no file system, and no logger — it exists purely so the core
// packages have something to drive them from outside a test binary.
package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/go-fv1/fv1emu/pkg/asm"
	"github.com/go-fv1/fv1emu/pkg/loader"
	"github.com/go-fv1/fv1emu/pkg/vm"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "fv1"})

func main() {
	rootCmd := &cobra.Command{
		Use:   "fv1",
		Short: "FV-1 assembler, runner, and disassembler",
	}

	var outPath string
	assembleCmd := &cobra.Command{
		Use:   "assemble [file.spn]",
		Short: "Assemble an SPN source file into a 512-byte ROM image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			res, err := asm.Assemble(string(src))
			if err != nil {
				return fmt.Errorf("assemble: %w", err)
			}
			if outPath == "" {
				outPath = args[0] + ".bin"
			}
			if err := os.WriteFile(outPath, res.Rom[:], 0o644); err != nil {
				return err
			}
			logger.Info("assembled", "source", args[0], "rom", outPath, "pots", res.Display)
			return nil
		},
	}
	assembleCmd.Flags().StringVarP(&outPath, "output", "o", "", "output ROM path (default: <source>.bin)")

	var frames int
	var pot0, pot1, pot2 float64
	runCmd := &cobra.Command{
		Use:   "run [file.spn|file.bin]",
		Short: "Run a program over a synthetic impulse test buffer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := loadRom(args[0])
			if err != nil {
				return err
			}

			m := vm.New()
			loader.LoadInto(rom[:], m)

			logger.Info("running", "program", args[0], "frames", frames)
			for i := 0; i < frames; i++ {
				inL, inR := 0.0, 0.0
				if i == 0 {
					inL, inR = 1.0, 1.0 // unit impulse
				}
				outL, outR := m.Frame(inL, inR, pot0, pot1, pot2)
				fmt.Printf("%d\t%.6f\t%.6f\n", i, outL, outR)
			}
			return nil
		},
	}
	runCmd.Flags().IntVar(&frames, "frames", 32, "number of sample frames to run")
	runCmd.Flags().Float64Var(&pot0, "pot0", 0, "POT0 value (0.0-1.0)")
	runCmd.Flags().Float64Var(&pot1, "pot1", 0, "POT1 value (0.0-1.0)")
	runCmd.Flags().Float64Var(&pot2, "pot2", 0, "POT2 value (0.0-1.0)")

	disasmCmd := &cobra.Command{
		Use:   "disasm [file.spn|file.bin]",
		Short: "Disassemble a program back to SPN-ish text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rom, err := loadRom(args[0])
			if err != nil {
				return err
			}
			for i := 0; i+4 <= len(rom); i += 4 {
				word := binary.BigEndian.Uint32(rom[i:])
				if word == 0x11 {
					break
				}
				fmt.Printf("%04d  %s\n", i/4, asm.Disassemble(word))
			}
			return nil
		},
	}

	rootCmd.AddCommand(assembleCmd, runCmd, disasmCmd)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("fv1", "err", err)
		os.Exit(1)
	}
}

// loadRom accepts either a .spn source file (assembled on the fly) or
// an already-compiled ROM image, deciding by content: a file of exactly
// RomBytes bytes that does not look like text is taken as a ROM image.
func loadRom(path string) ([loader.RomBytes]byte, error) {
	var rom [loader.RomBytes]byte
	data, err := os.ReadFile(path)
	if err != nil {
		return rom, err
	}
	if len(data) == loader.RomBytes && !looksLikeSource(data) {
		copy(rom[:], data)
		return rom, nil
	}
	res, err := asm.Assemble(string(data))
	if err != nil {
		return rom, fmt.Errorf("assemble: %w", err)
	}
	return res.Rom, nil
}

func looksLikeSource(data []byte) bool {
	for _, b := range data {
		if b == '\n' || b == ';' {
			return true
		}
		if b < 0x20 || b > 0x7e {
			return false
		}
	}
	return true
}
