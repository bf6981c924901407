package backend

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/b0bbywan/go-luminous-portal/config"
	"github.com/b0bbywan/go-luminous-portal/logger"
)

const (
	UNKNOWN         = "unknown"
	OS_RELEASE_FILE = "/etc/os-release"
)

type ServerInfo struct {
	Name       string
	Version    string
	OSPlatform string
	OSVersion  string
	Backends   Backends
}

type Backends struct {
	Settings   bool
	Watching   bool
	ScreenCast bool
}

func parseKeyValue(r io.Reader) (map[string]string, error) {
	out := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		out[key] = strings.Trim(value, `"`)
	}

	return out, scanner.Err()
}

func readOSRelease(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return UNKNOWN
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Warn("[backend] failed to close %s: %v", path, err)
		}
	}()

	content, err := parseKeyValue(file)
	if err != nil {
		logger.Debug("[backend] failed to parse %s: %v", path, err)
	}

	switch {
	case content["PRETTY_NAME"] != "":
		return content["PRETTY_NAME"]
	case content["NAME"] != "":
		return content["NAME"]
	default:
		return UNKNOWN
	}
}

// Info describes the running service, logged once at startup.
func (b *Backend) Info() ServerInfo {
	return ServerInfo{
		Name:       config.AppName,
		Version:    config.AppVersion,
		OSPlatform: runtime.GOOS + "/" + runtime.GOARCH,
		OSVersion:  readOSRelease(OS_RELEASE_FILE),
		Backends: Backends{
			Settings:   b.Settings != nil,
			Watching:   b.Settings != nil && b.Settings.Watching(),
			ScreenCast: b.ScreenCast != nil,
		},
	}
}
