package citeseer

import (
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/teranos/erbench/errors"
)

// ProcessRSS returns the resident set size of the current process.
func ProcessRSS() (uint64, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, errors.Wrap(err, "failed to inspect current process")
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get process memory info")
	}
	return info.RSS, nil
}

// HostMemory returns total and available system memory in bytes.
func HostMemory() (total uint64, available uint64, err error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, errors.Wrap(err, "failed to get memory stats")
	}
	return v.Total, v.Available, nil
}
