package tuner

// Worker configuration limits.
const (
	// maxWorkers is the maximum number of scan workers.
	maxWorkers = 64

	// minWorkers is the minimum number of scan workers.
	// Directory traversal benefits from parallelism even on small systems.
	minWorkers = 4

	// minQueueSize is the minimum scan queue buffer size.
	minQueueSize = 1024

	// maxQueueSize is the maximum scan queue buffer size.
	maxQueueSize = 100000
)

// Memory-based queue sizing constants.
const (
	// bytesPerQueueEntry estimates memory per queue entry.
	// Each entry is roughly a path string (~256 bytes) plus a depth.
	bytesPerQueueEntry = 512

	// queueMemoryFraction is the fraction of available RAM to use for the
	// queue. A small fraction, since the entry cache consumes most memory.
	queueMemoryFraction = 0.05
)

// OptimalConfig contains a worker configuration tuned for the detected
// system resources.
type OptimalConfig struct {
	// Workers is the number of scan workers.
	Workers int

	// QueueSize is the scan queue buffer size.
	QueueSize int
}

// Calculate returns an optimal configuration based on system resources.
//
// The calculation logic:
//   - Workers: NumCPU, floored at 4 since traversal is metadata-heavy and
//     spends most of its time waiting on the filesystem, and capped at 64
//     to avoid excessive context switching
//   - QueueSize is calculated from available RAM
func Calculate(resources SystemResources) OptimalConfig {
	workers := max(resources.CPUCores, minWorkers)
	workers = min(workers, maxWorkers)

	return OptimalConfig{
		Workers:   workers,
		QueueSize: calculateQueueSize(resources.AvailableRAM),
	}
}

// CalculateWithOverrides applies a user override to the optimal config.
// If workerOverride is greater than 0, it replaces the derived worker count
// (still respecting the maximum cap).
func CalculateWithOverrides(resources SystemResources, workerOverride int) OptimalConfig {
	config := Calculate(resources)

	if workerOverride > 0 {
		config.Workers = min(workerOverride, maxWorkers)
	}

	return config
}

// calculateQueueSize determines queue size based on available memory.
func calculateQueueSize(availableRAM int64) int {
	queueMemory := float64(availableRAM) * queueMemoryFraction
	entries := int(queueMemory / bytesPerQueueEntry)

	entries = max(entries, minQueueSize)
	entries = min(entries, maxQueueSize)

	return entries
}
