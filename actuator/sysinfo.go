package actuator

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// SystemMetrics is a point-in-time snapshot of OS resource usage.
// Byte figures come from the host, not the Go runtime.
type SystemMetrics struct {
	TotalMemory     uint64  `json:"total_memory"`
	UsedMemory      uint64  `json:"used_memory"`
	AvailableMemory uint64  `json:"available_memory"`
	FreeMemory      uint64  `json:"free_memory"`
	TotalSwap       uint64  `json:"total_swap"`
	UsedSwap        uint64  `json:"used_swap"`
	FreeSwap        uint64  `json:"free_swap"`
	CPUUsage        float64 `json:"cpu_usage"`
}

// SystemMetrics samples host memory, swap and CPU usage. CPU usage is
// the overall utilization percentage since the previous call, or since
// boot on the first one.
func (a *Actuator) SystemMetrics(ctx context.Context) (SystemMetrics, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return SystemMetrics{}, fmt.Errorf("actuator: read memory stats: %w", err)
	}

	swap, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return SystemMetrics{}, fmt.Errorf("actuator: read swap stats: %w", err)
	}

	usage, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return SystemMetrics{}, fmt.Errorf("actuator: read cpu stats: %w", err)
	}

	metrics := SystemMetrics{
		TotalMemory:     vm.Total,
		UsedMemory:      vm.Used,
		AvailableMemory: vm.Available,
		FreeMemory:      vm.Free,
		TotalSwap:       swap.Total,
		UsedSwap:        swap.Used,
		FreeSwap:        swap.Free,
	}
	if len(usage) > 0 {
		metrics.CPUUsage = usage[0]
	}
	return metrics, nil
}
