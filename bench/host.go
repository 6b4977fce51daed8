package bench

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// HostInfo describes the machine a sweep ran on.
type HostInfo struct {
	CPU       string
	Cores     int
	ClockGHz  float64
	MemoryGiB uint64
	OS        string
}

func (h HostInfo) String() string {
	return fmt.Sprintf("%s (%d cores @ %.2f GHz), %d GiB RAM, %s", h.CPU, h.Cores, h.ClockGHz, h.MemoryGiB, h.OS)
}

// ReadHostInfo queries CPU and memory. Fields it cannot read are left zero.
func ReadHostInfo() (HostInfo, error) {
	info := HostInfo{OS: runtime.GOOS + "/" + runtime.GOARCH, Cores: runtime.NumCPU()}

	cpus, err := cpu.Info()
	if err != nil {
		return info, fmt.Errorf("cpu info: %w", err)
	}
	if len(cpus) > 0 {
		info.CPU = cpus[0].ModelName
		info.ClockGHz = cpus[0].Mhz / 1000
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		info.Cores = n
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return info, fmt.Errorf("memory info: %w", err)
	}
	info.MemoryGiB = vm.Total / (1024 * 1024 * 1024)
	return info, nil
}
