package commands

import (
	"context"
	"fmt"

	"github.com/hpavl/meshbot/pkg/bus"
)

// Radio returns the RF estimation command set.
func Radio() Set {
	return Set{
		Name: "radio",
		Specs: []Spec{
			{Name: "noise", Help: "Estimate noise floor using RSSI - SNR from the last received packet.", Usage: "!noise", Handler: cmdNoise},
		},
	}
}

func cmdNoise(ctx context.Context, env *Env, ev bus.PacketEvent, sender string, args []string) (string, error) {
	if ev.SNR == nil || ev.RSSI == nil {
		return "📡 Noise floor: unavailable (rx_snr/rx_rssi missing in this packet)", nil
	}

	// RSSI is dBm, SNR is dB, so the difference is roughly dBm.
	noise := float64(*ev.RSSI) - *ev.SNR
	return fmt.Sprintf("📡 Noise floor (est.): %.1f dBm | RSSI %d dBm | SNR %g dB",
		noise, *ev.RSSI, *ev.SNR), nil
}
