package filesystem

import (
	"strings"
)

// PathKind tells the three path shapes an inventory can hold apart.
type PathKind int

// Path kinds.
const (
	PathPOSIX PathKind = iota
	PathDrive
	PathUNC
)

// ParsedPath splits a stored path into the volume it lives on and the rest.
// Parsing is purely textual so paths recorded on another OS parse the same way.
type ParsedPath struct {
	Kind PathKind

	// Host is the server of a UNC path, empty otherwise.
	Host string

	// Volume is the drive prefix: `C:\`, `\\server\share\`, or "/" for
	// absolute POSIX paths (empty for relative ones).
	Volume string

	// Rest is what follows the volume.
	Rest string
}

// ParsePath parses a path string into its volume and remainder.
// Examples:
//   - \\nas\media\film.mkv  → UNC, host "nas", volume `\\nas\media\`
//   - C:\Users\me\a.txt     → drive, volume `C:\`
//   - /home/me/a.txt        → POSIX, volume "/"
func ParsePath(path string) *ParsedPath {
	if isUNC(path) {
		return parseUNC(path)
	}

	if len(path) >= 2 && isDriveLetter(path[0]) && path[1] == ':' {
		volume := path[:2] + `\`
		rest := strings.TrimLeft(path[2:], `\/`)

		if len(path) > 2 && path[2] == '/' {
			volume = path[:3]
		}

		return &ParsedPath{Kind: PathDrive, Volume: volume, Rest: rest}
	}

	if strings.HasPrefix(path, "/") {
		return &ParsedPath{Kind: PathPOSIX, Volume: "/", Rest: strings.TrimLeft(path, "/")}
	}

	return &ParsedPath{Kind: PathPOSIX, Rest: path}
}

// UNCHost returns the server name of a UNC path, or "" for any other path.
func UNCHost(path string) string {
	if !isUNC(path) {
		return ""
	}

	return parseUNC(path).Host
}

// IsUNC reports whether the path names a network share.
func (p *ParsedPath) IsUNC() bool {
	return p.Kind == PathUNC
}

func isUNC(path string) bool {
	return strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")
}

func isDriveLetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

// parseUNC splits \\server\share\rest, keeping the separator style of the input.
func parseUNC(path string) *ParsedPath {
	sep := path[:1]
	parts := strings.SplitN(path[2:], sep, 3) //nolint:mnd // server, share, rest

	parsed := &ParsedPath{Kind: PathUNC, Host: parts[0]}

	switch len(parts) {
	case 1:
		parsed.Volume = sep + sep + parts[0] + sep
	case 2: //nolint:mnd // server and share only
		parsed.Volume = sep + sep + parts[0] + sep + parts[1] + sep
	default:
		parsed.Volume = sep + sep + parts[0] + sep + parts[1] + sep
		parsed.Rest = parts[2]
	}

	return parsed
}
