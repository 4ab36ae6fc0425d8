package obs

import (
	"runtime/debug"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildInfoOnce sync.Once

	fbauthBuildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fbauth_build_info",
			Help: "Build of the running fbauth API; the value is always 1.",
		},
		[]string{"version", "commit", "goversion"},
	)
)

// BuildLabels holds the label values published by InitBuildInfo.
type BuildLabels struct {
	Version   string
	Commit    string
	GoVersion string
}

// ResolveBuild fills missing commit and Go version from the binary's
// embedded build information.
func ResolveBuild(version, commit string, info *debug.BuildInfo) BuildLabels {
	labels := BuildLabels{Version: version, Commit: commit, GoVersion: "unknown"}
	if labels.Version == "" {
		labels.Version = "dev"
	}
	if info == nil {
		if labels.Commit == "" {
			labels.Commit = "unknown"
		}
		return labels
	}
	labels.GoVersion = info.GoVersion
	if labels.Commit == "" || labels.Commit == "dev" {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				labels.Commit = s.Value
			}
		}
	}
	if labels.Commit == "" {
		labels.Commit = "unknown"
	}
	return labels
}

// InitBuildInfo publishes fbauth_build_info once per process and returns the
// labels it used.
func InitBuildInfo(version, commit string) BuildLabels {
	info, _ := debug.ReadBuildInfo()
	labels := ResolveBuild(version, commit, info)
	buildInfoOnce.Do(func() {
		prometheus.MustRegister(fbauthBuildInfo)
	})
	fbauthBuildInfo.Reset()
	fbauthBuildInfo.WithLabelValues(labels.Version, labels.Commit, labels.GoVersion).Set(1)
	return labels
}
