package pipeline

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-hrtf/dsp/resample"
	"github.com/cwbudde/algo-hrtf/hrtf"
	"github.com/cwbudde/algo-hrtf/hrtf/coord"
	"github.com/cwbudde/algo-hrtf/hrtf/grid"
	"github.com/cwbudde/algo-hrtf/hrtf/progress"
	"github.com/cwbudde/algo-hrtf/hrtf/sofa"
	"github.com/cwbudde/algo-hrtf/internal/testutil"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.FFTSize = 64
	cfg.TruncSize = 16
	return cfg
}

type stageRecorder struct {
	mu   sync.Mutex
	last map[string]progress.Update
}

func (r *stageRecorder) Report(u progress.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		r.last = make(map[string]progress.Update)
	}
	r.last[u.Stage] = u
}

func TestLoad(t *testing.T) {
	d := testutil.DefaultSphere().Dataset()
	var rec stageRecorder

	g, err := Load(d, testConfig(), WithReporter(&rec))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if g.Mode != grid.Stereo || g.Rate != 48000 || g.IRSize != 33 || g.HeadRadius != DefaultHeadRadius {
		t.Fatalf("grid = mode %v, rate %d, irSize %d, radius %v", g.Mode, g.Rate, g.IRSize, g.HeadRadius)
	}

	positions, _ := d.Positions()
	for m, p := range positions {
		idx := slotIndex(t, g, p)
		slot := g.Slots[idx]
		if !slot.Filled {
			t.Fatalf("measurement %d: slot %d not filled", m, idx)
		}

		wantDelay := float64(1+m%16) / 48000
		for ch, amp := range []float64{1, 0.5} {
			if math.Abs(slot.Delays[ch]-wantDelay) > 1e-12 {
				t.Fatalf("measurement %d channel %d delay = %v, want %v", m, ch, slot.Delays[ch], wantDelay)
			}
			for k, v := range g.IR(idx, ch)[:33] {
				if math.Abs(v-amp) > 1e-12 {
					t.Fatalf("measurement %d channel %d bin %d = %v, want %v", m, ch, k, v, amp)
				}
			}
		}
	}

	for _, stage := range []string{StageLoad, StageOnset, StageMagnitude} {
		u, ok := rec.last[stage]
		if !ok || u.Done != u.Total {
			t.Fatalf("stage %q last update = %+v, %v", stage, u, ok)
		}
	}
	if rec.last[StageLoad].Total != 57 {
		t.Fatalf("load total = %d, want 57", rec.last[StageLoad].Total)
	}
}

// slotIndex finds the grid slot of a dataset position by azimuth and
// elevation, using the clockwise grid convention.
func slotIndex(t *testing.T, g *grid.Grid, p coord.Polar) int {
	t.Helper()
	az := math.Mod(360-p.Azimuth, 360)
	if math.Abs(p.Elevation) > 89.9 {
		az = 0
	}
	for _, f := range g.Fields {
		for ei := f.EvStart; ei < len(f.Rings); ei++ {
			r := f.Rings[ei]
			if math.Abs(r.Elevation-p.Elevation) > 0.1 {
				continue
			}
			for _, a := range r.Azimuths {
				if d := math.Abs(a.Azimuth - az); d < 0.1 || d > 359.9 {
					return a.Index
				}
			}
		}
	}
	t.Fatalf("no slot for %+v", p)
	return -1
}

func TestLoadMono(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = grid.Mono

	g, err := Load(testutil.DefaultSphere().Dataset(), cfg)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if g.Channels() != 1 || g.StorageLen() != 57*33 {
		t.Fatalf("channels %d, storage %d", g.Channels(), g.StorageLen())
	}
}

func TestLoadSingleReceiverIsMono(t *testing.T) {
	s := testutil.DefaultSphere()
	s.Receivers = 1

	g, err := Load(s.Dataset(), testConfig())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if g.Mode != grid.Mono {
		t.Fatalf("Mode = %v, want mono", g.Mode)
	}
}

func TestLoadResamples(t *testing.T) {
	cfg := testConfig()
	cfg.FFTSize = 128
	cfg.OutRate = 96000

	g, err := Load(testutil.DefaultSphere().Dataset(), cfg)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if g.Rate != 96000 || g.IRPoints != 64 {
		t.Fatalf("rate %d, points %d, want 96000, 64", g.Rate, g.IRPoints)
	}
}

func TestLoadZeroWorkersAndBestQuality(t *testing.T) {
	cfg := testConfig()
	cfg.FFTSize = 128
	cfg.OutRate = 96000
	cfg.Workers = 0
	cfg.ResampleQuality = resample.QualityBest

	g, err := Load(testutil.DefaultSphere().Dataset(), cfg)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if g.Rate != 96000 || g.IRPoints != 64 {
		t.Fatalf("rate %d, points %d, want 96000, 64", g.Rate, g.IRPoints)
	}
	for _, i := range g.Owned() {
		testutil.RequireFinite(t, g.IR(i, 0)[:g.IRSize])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    func(*Config)
		data   func() *sofa.Dataset
		target error
	}{
		{
			name:   "bad config",
			cfg:    func(c *Config) { c.Workers = -1 },
			target: hrtf.ErrConfig,
		},
		{
			name:   "samples exceed fft",
			cfg:    func(c *Config) { c.FFTSize = 16 },
			target: hrtf.ErrFormat,
		},
		{
			name:   "samples below truncation",
			cfg:    func(c *Config) { c.TruncSize = 40 },
			target: hrtf.ErrFormat,
		},
		{
			name: "unknown attribute",
			data: func() *sofa.Dataset {
				d := testutil.DefaultSphere().Dataset()
				d.Delay.Attributes = append(d.Delay.Attributes, sofa.Attribute{Name: "Comment", Value: "x"})
				return d
			},
			target: hrtf.ErrFormat,
		},
		{
			name: "no layout",
			data: func() *sofa.Dataset {
				positions := []coord.Polar{{Azimuth: 10, Elevation: 3, Radius: 1}, {Azimuth: 77, Elevation: 41, Radius: 2}}
				return testutil.BuildDataset(48000, 2, 32, positions, testutil.DefaultResponse)
			},
			target: hrtf.ErrLayout,
		},
		{
			name: "duplicate",
			data: func() *sofa.Dataset {
				s := testutil.DefaultSphere()
				positions := append(s.Positions(), coord.Polar{Azimuth: 180, Elevation: 15, Radius: 1})
				return testutil.BuildDataset(s.Rate, s.Receivers, s.Samples, positions, testutil.DefaultResponse)
			},
			target: hrtf.ErrDuplicate,
		},
		{
			name: "incomplete",
			data: func() *sofa.Dataset {
				s := testutil.DefaultSphere()
				var positions []coord.Polar
				for _, p := range s.Positions() {
					if p.Elevation == 0 && p.Azimuth == 90 {
						continue
					}
					positions = append(positions, p)
				}
				return testutil.BuildDataset(s.Rate, s.Receivers, s.Samples, positions, testutil.DefaultResponse)
			},
			target: hrtf.ErrIncomplete,
		},
		{
			name:   "storage limit",
			cfg:    func(c *Config) { c.MaxSamples = 100 },
			target: hrtf.ErrResource,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			if tc.cfg != nil {
				tc.cfg(&cfg)
			}
			d := testutil.DefaultSphere().Dataset()
			if tc.data != nil {
				d = tc.data()
			}

			g, err := Load(d, cfg)
			if !errors.Is(err, tc.target) {
				t.Fatalf("Load() error = %v, want %v", err, tc.target)
			}
			if g != nil {
				t.Fatal("Load() returned a grid with an error")
			}
		})
	}
}

func TestLoadAllowUnknownAttributes(t *testing.T) {
	d := testutil.DefaultSphere().Dataset()
	d.IR.Attributes = append(d.IR.Attributes, sofa.Attribute{Name: "Comment", Value: "x"})

	cfg := testConfig()
	cfg.AllowUnknownAttributes = true
	if _, err := Load(d, cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
}
