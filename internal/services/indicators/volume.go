package indicators

// DefaultVolumePeriod is the trailing window for VolumeRatio.
const DefaultVolumePeriod = 20

// VolumeRatio divides the latest volume by the mean of the trailing period
// volumes, latest included. Shorter histories average what is available.
// Returns 1 when no comparison is possible.
func VolumeRatio(volumes []float64, period int) float64 {
	if len(volumes) == 0 || period <= 0 {
		return 1
	}
	if len(volumes) < period {
		period = len(volumes)
	}
	avg := SMA(volumes, period)
	if avg == 0 {
		return 1
	}
	return volumes[len(volumes)-1] / avg
}
