// FILE: volume.go
package sinklog

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/disk"
)

// volume is the mounted filesystem that holds a log directory
type volume struct {
	mountpoint string
	device     string
	fstype     string
}

// spaceProbe reports available and total bytes of the volume at mountpoint
type spaceProbe func(ctx context.Context, mountpoint string) (free uint64, total uint64, err error)

// volumeFinder resolves the volume containing dir
type volumeFinder func(ctx context.Context, dir string) (volume, error)

// diskSpace is the default spaceProbe
func diskSpace(ctx context.Context, mountpoint string) (uint64, uint64, error) {
	usage, err := disk.UsageWithContext(ctx, mountpoint)
	if err != nil {
		return 0, 0, fmtErrorf("failed to get disk usage for '%s': %w", mountpoint, err)
	}
	return usage.Free, usage.Total, nil
}

// findVolume is the default volumeFinder. It lists all mounted partitions and
// picks the one with the longest mountpoint containing dir.
func findVolume(ctx context.Context, dir string) (volume, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return volume{}, fmtErrorf("failed to resolve log directory '%s': %w", dir, err)
	}
	parts, err := disk.PartitionsWithContext(ctx, true)
	if err != nil && len(parts) == 0 {
		return volume{}, fmtErrorf("failed to list partitions: %v: %w", err, ErrVolumeNotFound)
	}
	return matchVolume(parts, abs)
}

// matchVolume selects the longest mountpoint that is a path prefix of abs
func matchVolume(parts []disk.PartitionStat, abs string) (volume, error) {
	abs = filepath.Clean(abs)
	var best volume
	found := false
	for _, p := range parts {
		if p.Mountpoint == "" || !containsPath(p.Mountpoint, abs) {
			continue
		}
		if !found || len(p.Mountpoint) > len(best.mountpoint) {
			best = volume{mountpoint: p.Mountpoint, device: p.Device, fstype: p.Fstype}
			found = true
		}
	}
	if !found {
		return volume{}, fmtErrorf("no mounted volume contains '%s': %w", abs, ErrVolumeNotFound)
	}
	return best, nil
}

// containsPath reports whether path lies under root, on a separator boundary
func containsPath(root, path string) bool {
	root = filepath.Clean(root)
	if !strings.HasPrefix(path, root) {
		return false
	}
	if len(path) == len(root) || strings.HasSuffix(root, string(os.PathSeparator)) {
		return true
	}
	return path[len(root)] == os.PathSeparator
}
