package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zboralski/wasmrt/internal/config"
	glog "github.com/zboralski/wasmrt/internal/log"
	"github.com/zboralski/wasmrt/internal/rt"
	"github.com/zboralski/wasmrt/internal/script"
)

func newScriptCmd() *cobra.Command {
	var memSize uint64
	cmd := &cobra.Command{
		Use:   "script <file.js>",
		Short: "Run a goja script against a fresh instance with one memory named \"main\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.DefaultConfig()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("script: read %s: %w", args[0], err)
			}

			m, err := rt.NewMemory(cfg, memSize, memSize)
			if err != nil {
				return fmt.Errorf("script: allocate memory: %w", err)
			}
			defer m.Close()
			m.SetLogger(glog.L)

			in := rt.NewInstance(cfg, nil)
			in.SetLogger(glog.L)
			console := script.NewConsole(in, map[string]*rt.Memory{"main": m})

			out, err := console.Eval(string(src))
			if err != nil {
				return err
			}
			if out != "" {
				fmt.Println(out)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&memSize, "mem-size", 65536, "initial memory size in bytes, one wasm page by default")
	return cmd
}
