// Package modelselect advises which backend model tier a client should run,
// based on its declared device class and available memory. Grounded on a
// lite-mode handler that swapped in mock, cheaper implementations of the
// same components below a capability threshold; generalized into an
// explicit decision the Gateway returns rather than a silent feature cut.
package modelselect

const (
	full = "orchestrator-full"
	lite = "orchestrator-lite"

	// liteModeMemoryThresholdMB is the cutoff below which the full model's
	// working set does not comfortably fit on the device.
	liteModeMemoryThresholdMB = 2048
)

// Decision is the {chosen, fallback, reasons} shape returned by /ai/model-select.
type Decision struct {
	Chosen   string   `json:"chosen"`
	Fallback string   `json:"fallback"`
	Reasons  []string `json:"reasons"`
}

// Choose picks full or lite given the client's device class, available
// memory and whether it explicitly asked to prioritize output quality over
// footprint.
func Choose(device string, memoryMB int, preferQuality bool) Decision {
	var reasons []string

	isWatchClass := device == "watch" || device == "ar_glasses"
	lowMemory := memoryMB > 0 && memoryMB < liteModeMemoryThresholdMB

	if isWatchClass {
		reasons = append(reasons, "device class "+device+" runs the lite model by default")
	}
	if lowMemory {
		reasons = append(reasons, "available memory below the full model's working-set threshold")
	}

	if preferQuality && !lowMemory {
		reasons = append(reasons, "client requested quality over footprint and has sufficient memory")
		return Decision{Chosen: full, Fallback: lite, Reasons: reasons}
	}

	if isWatchClass || lowMemory {
		return Decision{Chosen: lite, Fallback: full, Reasons: reasons}
	}

	reasons = append(reasons, "no constraint triggered, defaulting to the full model")
	return Decision{Chosen: full, Fallback: lite, Reasons: reasons}
}
