package catalog

import (
	"context"
	"time"
)

// Asset is an opaque handle to an image discoverable from a photo source.
// Handle is meaningful only to the source that produced it.
type Asset struct {
	Handle    string
	FileName  string
	Width     int
	Height    int
	CreatedAt time.Time
}

// PhotoSource supplies candidate screenshots from a device photo library or
// equivalent. ListAssets applies the source's own screenshot heuristics
// (recency, known screen resolutions); false negatives on uncommon
// resolutions are expected and not corrected.
type PhotoSource interface {
	ListAssets(ctx context.Context) ([]Asset, error)
	LoadAsset(ctx context.Context, handle string) ([]byte, error)
}

// screenResolutions lists pixel sizes of known device screens. An asset whose
// dimensions match one of these (in either orientation) is considered a
// screenshot candidate.
var screenResolutions = [][2]int{
	{640, 1136},
	{750, 1334},
	{828, 1792},
	{1080, 1920},
	{1080, 2340},
	{1080, 2400},
	{1125, 2436},
	{1170, 2532},
	{1179, 2556},
	{1242, 2208},
	{1242, 2688},
	{1284, 2778},
	{1290, 2796},
	{1440, 2560},
	{1440, 3200},
	{1536, 2048},
	{1620, 2160},
	{1668, 2388},
	{2048, 2732},
}

// IsScreenResolution reports whether the given pixel size matches a known
// device screen in either orientation.
func IsScreenResolution(width, height int) bool {
	for _, r := range screenResolutions {
		if (width == r[0] && height == r[1]) || (width == r[1] && height == r[0]) {
			return true
		}
	}
	return false
}
