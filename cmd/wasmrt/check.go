package main

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zboralski/wasmrt/internal/config"
	glog "github.com/zboralski/wasmrt/internal/log"
	"github.com/zboralski/wasmrt/internal/rt"
	"github.com/zboralski/wasmrt/internal/ui/colorize"
)

// scenario is one boundary-case conformance check: a name and a function
// that runs it against a fresh Instance, returning a human-readable detail
// string on success or an error describing the mismatch.
type scenario struct {
	name string
	run  func(in *rt.Instance) (string, error)
}

func scenarios() []scenario {
	return []scenario{
		{"div_s_min_by_neg1_overflows", func(in *rt.Instance) (string, error) {
			err := in.Invoke(func() { rt.DivS32(math.MinInt32, -1) })
			return expectTrap(err, rt.TrapIntOverflow)
		}},
		{"rem_s_min_by_neg1_is_zero", func(in *rt.Instance) (string, error) {
			var got int32
			err := in.Invoke(func() { got = rt.RemS32(math.MinInt32, -1) })
			if err != nil {
				return "", err
			}
			if got != 0 {
				return "", fmt.Errorf("got %d, want 0", got)
			}
			return "0", nil
		}},
		{"div_u_by_zero_traps", func(in *rt.Instance) (string, error) {
			err := in.Invoke(func() { rt.DivU32(1, 0) })
			return expectTrap(err, rt.TrapDivByZero)
		}},
		{"trunc_s32_f32_in_range", func(in *rt.Instance) (string, error) {
			var got int32
			err := in.Invoke(func() { got = rt.TruncS32F32(3.9) })
			if err != nil {
				return "", err
			}
			if got != 3 {
				return "", fmt.Errorf("got %d, want 3", got)
			}
			return "3", nil
		}},
		{"trunc_s32_f32_nan_traps", func(in *rt.Instance) (string, error) {
			err := in.Invoke(func() { rt.TruncS32F32(float32(math.NaN())) })
			return expectTrap(err, rt.TrapInvalidConversion)
		}},
		{"trunc_sat_s32_f32_nan_is_zero", func(in *rt.Instance) (string, error) {
			var got int32
			err := in.Invoke(func() { got = rt.TruncSatS32F32(float32(math.NaN())) })
			if err != nil {
				return "", err
			}
			if got != 0 {
				return "", fmt.Errorf("got %d, want 0", got)
			}
			return "0", nil
		}},
		{"fmin_signed_zero_prefers_negative", func(in *rt.Instance) (string, error) {
			got := rt.Fmin32(0, float32(math.Copysign(0, -1)))
			if !math.Signbit(float64(got)) {
				return "", fmt.Errorf("got +0, want -0")
			}
			return "-0", nil
		}},
		{"load_at_memory_end_traps_oob", func(in *rt.Instance) (string, error) {
			const pageSize = 65536
			m, err := rt.NewMemory(in.Cfg, pageSize, pageSize)
			if err != nil {
				return "", err
			}
			defer m.Close()
			err = in.Invoke(func() { rt.I32LoadU(m, pageSize-1) })
			return expectTrap(err, rt.TrapOOB)
		}},
	}
}

func expectTrap(err error, want rt.TrapKind) (string, error) {
	if err == nil {
		return "", fmt.Errorf("expected trap %s, got none", want)
	}
	te, ok := err.(*rt.TrapError)
	if !ok {
		return "", fmt.Errorf("expected *rt.TrapError, got %T: %v", err, err)
	}
	if te.Kind != want {
		return "", fmt.Errorf("expected trap %s, got %s", want, te.Kind)
	}
	return te.Kind.String(), nil
}

func newCheckCmd() *cobra.Command {
	var checkMode string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the boundary-scenario conformance suite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rt.DefaultConfig()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			switch checkMode {
			case "bounds":
				cfg.CheckMode = rt.CheckBounds
			case "guard_page":
				cfg.CheckMode = rt.CheckGuardPage
			case "":
			default:
				return fmt.Errorf("unknown check mode %q", checkMode)
			}

			list := scenarios()
			results := make([]string, len(list))
			fails := make([]error, len(list))

			g, _ := errgroup.WithContext(context.Background())
			var mu sync.Mutex
			for i, s := range list {
				i, s := i, s
				g.Go(func() error {
					in := rt.NewInstance(cfg, nil)
					in.SetLogger(glog.L)
					detail, err := s.run(in)
					mu.Lock()
					defer mu.Unlock()
					results[i] = detail
					fails[i] = err
					return nil // collect all results; don't short-circuit the group
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			failCount := 0
			for i, s := range list {
				if fails[i] != nil {
					failCount++
					fmt.Println(colorize.Error("FAIL") + " " + s.name + ": " + fails[i].Error())
					continue
				}
				if !quiet {
					fmt.Println(colorize.Header("PASS") + " " + s.name + " " + colorize.Detail(results[i]))
				}
			}
			if failCount > 0 {
				return fmt.Errorf("%d/%d scenarios failed", failCount, len(list))
			}
			fmt.Printf("%d/%d scenarios passed\n", len(list), len(list))
			return nil
		},
	}
	cmd.Flags().StringVar(&checkMode, "mode", "", "override check mode: bounds or guard_page")
	return cmd
}
