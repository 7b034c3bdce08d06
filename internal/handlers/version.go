package handlers

import (
	"net/http"
	"runtime/debug"
)

// VersionInfo is reported by /version
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

// VersionHandler reports build information. Version is set by the linker;
// the commit comes from embedded VCS info when available.
func VersionHandler(version string) http.HandlerFunc {
	info := VersionInfo{Version: version}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				info.Commit = s.Value
			}
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, info)
	}
}
