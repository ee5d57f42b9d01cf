package uartsim_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/db47h/uartsim"
)

func Test_setup_decode(t *testing.T) {
	td := []struct {
		name string
		w    uint32
		cfg  uartsim.Config
	}{
		{"default", uartsim.DefaultSetup,
			uartsim.Config{ClocksPerBaud: 25, DataBits: 8, StopBits: 1, Parity: uartsim.ParityNone}},
		{"115200_at_100MHz", 868,
			uartsim.Config{ClocksPerBaud: 868, DataBits: 8, StopBits: 1, Parity: uartsim.ParityNone}},
		{"even", 868 | 1<<26,
			uartsim.Config{ClocksPerBaud: 868, DataBits: 8, StopBits: 1, Parity: uartsim.ParityEven}},
		{"odd", 868 | 1<<26 | 1<<24,
			uartsim.Config{ClocksPerBaud: 868, DataBits: 8, StopBits: 1, Parity: uartsim.ParityOdd}},
		{"space", 868 | 1<<26 | 1<<25,
			uartsim.Config{ClocksPerBaud: 868, DataBits: 8, StopBits: 1, Parity: uartsim.ParitySpace}},
		{"mark", 868 | 1<<26 | 1<<25 | 1<<24,
			uartsim.Config{ClocksPerBaud: 868, DataBits: 8, StopBits: 1, Parity: uartsim.ParityMark}},
		{"two_stop", 25 | 1<<27,
			uartsim.Config{ClocksPerBaud: 25, DataBits: 8, StopBits: 2, Parity: uartsim.ParityNone}},
		{"seven_bits", 25 | 1<<28,
			uartsim.Config{ClocksPerBaud: 25, DataBits: 7, StopBits: 1, Parity: uartsim.ParityNone}},
		{"six_bits", 25 | 2<<28,
			uartsim.Config{ClocksPerBaud: 25, DataBits: 6, StopBits: 1, Parity: uartsim.ParityNone}},
		{"five_bits_5E2", 4 | 3<<28 | 1<<27 | 1<<26,
			uartsim.Config{ClocksPerBaud: 4, DataBits: 5, StopBits: 2, Parity: uartsim.ParityEven}},
		{"max_divisor", 0x00ffffff,
			uartsim.Config{ClocksPerBaud: 0x00ffffff, DataBits: 8, StopBits: 1, Parity: uartsim.ParityNone}},
		{"all_ones", 0xffffffff,
			uartsim.Config{ClocksPerBaud: 0x00ffffff, DataBits: 5, StopBits: 2, Parity: uartsim.ParityMark}},
	}
	for _, tc := range td {
		t.Run(tc.name, func(t *testing.T) {
			c := uartsim.DecodeSetup(tc.w)
			require.Equal(t, tc.cfg, c)
			if tc.w>>30 == 0 {
				// canonical words survive a decode/encode round trip
				require.Equal(t, tc.w, c.Word())
			}
		})
	}
}

func Test_config_string(t *testing.T) {
	require.Equal(t, "8N1/25", uartsim.DecodeSetup(25).String())
	require.Equal(t, "7E2/868", uartsim.DecodeSetup(868|1<<26|1<<27|1<<28).String())
	require.Equal(t, "5M1/4", uartsim.DecodeSetup(4|1<<26|1<<25|1<<24|3<<28).String())
}

func Test_config_frame_bits(t *testing.T) {
	require.Equal(t, 9, uartsim.DecodeSetup(25).FrameBits())
	require.Equal(t, 10, uartsim.DecodeSetup(868|1<<26|1<<27|1<<28).FrameBits())
	require.Equal(t, 6, uartsim.DecodeSetup(4|3<<28).FrameBits())
}

func Test_setup_applies_when_changed(t *testing.T) {
	u := uartsim.New(nil)
	require.Equal(t, "8N1/25", u.Config().String())
	u.Setup(868 | 1<<26)
	require.Equal(t, "8E1/868", u.Config().String())
	u.Setup(u.Config().Word()) // same word, still in effect
	require.Equal(t, "8E1/868", u.Config().String())
}
