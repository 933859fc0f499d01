package atmosphere

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

type Category uint8

const (
	Computed  Category = iota // pass ran and wrote its LUT
	Cached                    // pass skipped, previous LUT reused
	Loaded                    // LUT read back from the on-disk cache
	Skipped                   // pass disabled by settings (LUT left zeroed)
	Cancelled                 // frame abandoned before the pass finished
)

func (c Category) String() string {
	switch c {
	case Computed:
		return "computed"
	case Cached:
		return "cached"
	case Loaded:
		return "loaded"
	case Skipped:
		return "skipped"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

type PassLog struct {
	Label    string
	Category Category
	Texels   int
	Duration time.Duration
}

type PassLogCache struct {
	mu     sync.Mutex
	passes map[string][]PassLog // map of LUT label to logs
}

var passes = &PassLogCache{
	passes: make(map[string][]PassLog),
}

func logPass(label string, category Category, texels int, d time.Duration) {
	passes.mu.Lock()
	passes.passes[label] = append(passes.passes[label], PassLog{
		Label:    label,
		Category: category,
		Texels:   texels,
		Duration: d,
	})
	passes.mu.Unlock()
	DebugLog("Pass %s: %s texels=%d took=%v", label, category, texels, d)
}

// PassCounts returns how many times each label was logged with the given category.
func PassCounts(category Category) map[string]int {
	passes.mu.Lock()
	defer passes.mu.Unlock()
	out := make(map[string]int)
	for k, v := range passes.passes {
		for _, p := range v {
			if p.Category == category {
				out[k]++
			}
		}
	}
	return out
}

// ResetPassLog drops every recorded entry.
func ResetPassLog() {
	passes.mu.Lock()
	passes.passes = make(map[string][]PassLog)
	passes.mu.Unlock()
}

func passStats() {
	passes.mu.Lock()
	defer passes.mu.Unlock()
	labels := make([]string, 0, len(passes.passes))
	for k := range passes.passes {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	for _, k := range labels {
		var total time.Duration
		counts := make(map[Category]int)
		for _, p := range passes.passes[k] {
			total += p.Duration
			counts[p.Category]++
		}
		Logger().Info("pass stats",
			slog.String("lut", k),
			slog.Int("computed", counts[Computed]),
			slog.Int("cached", counts[Cached]),
			slog.Int("loaded", counts[Loaded]),
			slog.Int("skipped", counts[Skipped]),
			slog.Duration("total", total),
		)
	}
}
