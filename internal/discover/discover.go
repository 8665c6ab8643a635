// Package discover finds the labels a scan is attributed to: this machine's
// host name and the drives or mount points worth scanning.
package discover

import (
	"net"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/joe/file-inventory/pkg/filesystem"
)

// UnknownHost labels records when no host name can be determined.
const UnknownHost = "Unknown Host"

// System is the slice of the operating system discovery needs.
type System struct {
	GOOS        string
	Getenv      func(key string) string
	Hostname    func() (string, error)
	LookupCNAME func(host string) (string, error)
	Stat        func(path string) (os.FileInfo, error)
	Glob        func(pattern string) ([]string, error)
}

// Local returns the running system.
func Local() *System {
	return &System{
		GOOS:        runtime.GOOS,
		Getenv:      os.Getenv,
		Hostname:    os.Hostname,
		LookupCNAME: net.LookupCNAME,
		Stat:        os.Stat,
		Glob: func(pattern string) ([]string, error) {
			return doublestar.FilepathGlob(pattern)
		},
	}
}

//nolint:gochecknoglobals // Mount roots searched on POSIX systems
var mountPatterns = []string{"/Volumes/*", "/media/*", "/media/*/*", "/mnt/*"}

// HostLabel returns the name records from this machine are attributed to.
// On Windows COMPUTERNAME wins. With fqdn set, the name is resolved to its
// canonical DNS name when the resolver knows one.
func (s *System) HostLabel(fqdn bool) string {
	name := ""

	if s.GOOS == "windows" {
		name = s.Getenv("COMPUTERNAME")
	}

	if name == "" {
		if host, err := s.Hostname(); err == nil {
			name = host
		}
	}

	if name == "" {
		return UnknownHost
	}

	if fqdn && s.LookupCNAME != nil {
		if canonical, err := s.LookupCNAME(name); err == nil && canonical != "" {
			return strings.TrimSuffix(canonical, ".")
		}
	}

	return name
}

// Drives lists scan roots: existing drive letters on Windows, otherwise "/"
// followed by mounted volumes.
func (s *System) Drives() []string {
	if s.GOOS == "windows" {
		return s.windowsDrives()
	}

	return append([]string{"/"}, s.Mounts()...)
}

// Mounts returns the directories found under the usual POSIX mount roots.
func (s *System) Mounts() []string {
	seen := map[string]bool{}

	var mounts []string

	for _, pattern := range mountPatterns {
		matches, err := s.globDirs(pattern)
		if err != nil {
			continue
		}

		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				mounts = append(mounts, match)
			}
		}
	}

	sort.Strings(mounts)

	return mounts
}

func (s *System) globDirs(pattern string) ([]string, error) {
	matches, err := s.Glob(pattern)
	if err != nil {
		return nil, err //nolint:wrapcheck // Discovery errors only skip a mount root
	}

	dirs := matches[:0]

	for _, match := range matches {
		if info, statErr := s.Stat(match); statErr == nil && info.IsDir() {
			dirs = append(dirs, match)
		}
	}

	return dirs, nil
}

func (s *System) windowsDrives() []string {
	var drives []string

	for letter := 'A'; letter <= 'Z'; letter++ {
		drive := string(letter) + `:\`
		if _, err := s.Stat(drive); err == nil {
			drives = append(drives, drive)
		}
	}

	return drives
}

// DrivePrefix returns the drive a stored path belongs to: its drive letter or
// UNC share, the longest matching mount point, or "/".
func DrivePrefix(path string, mounts []string) string {
	parsed := filesystem.ParsePath(path)
	if parsed.Kind != filesystem.PathPOSIX {
		return parsed.Volume
	}

	best := parsed.Volume

	for _, mount := range mounts {
		prefix := strings.TrimSuffix(mount, "/") + "/"
		if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}

	return best
}
