package diagnostics

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jaypipes/ghw"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
)

// HostFacts identifies the machine the process runs on.
type HostFacts struct {
	Hostname string
	Platform string
	Kernel   string
	Uptime   time.Duration
}

// HardwareFacts describes the CPU and GPU inventory.
type HardwareFacts struct {
	CPUModel string
	Cores    int
	Threads  int
	GPUs     []string
}

// SysInfo collects host and hardware identity once and caches it. Prime it
// while the process is healthy so the fault path only formats values that
// are already in memory.
type SysInfo struct {
	hostOnce sync.Once
	host     HostFacts
	hostErr  error

	hwOnce sync.Once
	hw     HardwareFacts
	hwErr  error
}

// NewSysInfo creates an empty, uncollected SysInfo.
func NewSysInfo() *SysInfo {
	return &SysInfo{}
}

// Prime collects and caches both fact sets.
func (s *SysInfo) Prime() {
	_, _ = s.Host()
	_, _ = s.Hardware()
}

// Host returns the cached host facts, collecting them on first use.
func (s *SysInfo) Host() (HostFacts, error) {
	s.hostOnce.Do(func() {
		s.host, s.hostErr = collectHost()
	})
	return s.host, s.hostErr
}

// Hardware returns the cached hardware facts, collecting them on first use.
func (s *SysInfo) Hardware() (HardwareFacts, error) {
	s.hwOnce.Do(func() {
		s.hw, s.hwErr = collectHardware()
	})
	return s.hw, s.hwErr
}

func collectHost() (HostFacts, error) {
	info, err := host.Info()
	if err != nil {
		return HostFacts{}, fmt.Errorf("querying host info: %w", err)
	}

	platform := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
	if platform == "" {
		platform = info.OS
	}

	return HostFacts{
		Hostname: info.Hostname,
		Platform: platform,
		Kernel:   info.KernelVersion,
		Uptime:   time.Duration(info.Uptime) * time.Second, // #nosec G115 -- uptime seconds fit a Duration
	}, nil
}

func collectHardware() (HardwareFacts, error) {
	facts := HardwareFacts{}

	if infos, err := cpu.Info(); err == nil && len(infos) > 0 {
		facts.CPUModel = strings.TrimSpace(infos[0].ModelName)
	}
	if cores, err := cpu.Counts(false); err == nil && cores > 0 {
		facts.Cores = cores
	}
	if threads, err := cpu.Counts(true); err == nil && threads > 0 {
		facts.Threads = threads
	}

	facts.GPUs = gpuNames()

	if facts.CPUModel == "" && facts.Cores == 0 && len(facts.GPUs) == 0 {
		return facts, fmt.Errorf("no hardware information available")
	}
	return facts, nil
}

// gpuNames lists the installed graphics cards. Inventory only; utilization
// probing would mean spawning vendor tools, which has no place near a fault
// path.
func gpuNames() []string {
	info, err := ghw.GPU()
	if err != nil || info == nil || len(info.GraphicsCards) == 0 {
		return nil
	}

	names := make([]string, 0, len(info.GraphicsCards))
	for _, card := range info.GraphicsCards {
		name := ""
		if card.DeviceInfo != nil {
			switch {
			case card.DeviceInfo.Vendor != nil && card.DeviceInfo.Product != nil:
				name = strings.TrimSpace(card.DeviceInfo.Vendor.Name + " " + card.DeviceInfo.Product.Name)
			case card.DeviceInfo.Product != nil:
				name = strings.TrimSpace(card.DeviceInfo.Product.Name)
			case card.DeviceInfo.Vendor != nil:
				name = strings.TrimSpace(card.DeviceInfo.Vendor.Name)
			}
		}
		if name == "" {
			name = fmt.Sprintf("GPU %d", card.Index)
		}
		names = append(names, name)
	}
	return names
}
