package actuator

import (
	"runtime"
	"runtime/debug"
	"time"
)

// Info is the application identity record: who this process is, what
// it was built from, and what it runs on. Captured once at startup.
type Info struct {
	Application ApplicationInfo `json:"application"`
	Build       BuildInfo       `json:"build"`
	Runtime     RuntimeInfo     `json:"runtime"`
}

// ApplicationInfo identifies the deployed application.
type ApplicationInfo struct {
	Name        string    `json:"name"`
	Environment string    `json:"environment"`
	Version     string    `json:"version"`
	StartupTime time.Time `json:"startup_time"`
}

// BuildInfo holds version-control metadata embedded by the Go
// toolchain. Fields are empty when the binary was built outside a
// checkout or without VCS stamping.
type BuildInfo struct {
	Revision   string `json:"revision"`
	CommitTime string `json:"commit_time"`
	Modified   bool   `json:"modified"`
}

// RuntimeInfo describes the platform the process runs on.
type RuntimeInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Port      int    `json:"port"`
	GoVersion string `json:"go_version"`
}

func newInfo(cfg Config) Info {
	return Info{
		Application: ApplicationInfo{
			Name:        cfg.Name,
			Environment: cfg.Environment,
			Version:     cfg.Version,
			StartupTime: time.Now(),
		},
		Build: newBuildInfo(),
		Runtime: RuntimeInfo{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			Port:      cfg.Port,
			GoVersion: runtime.Version(),
		},
	}
}

func newBuildInfo() BuildInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return BuildInfo{}
	}

	var b BuildInfo
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			b.Revision = setting.Value
		case "vcs.time":
			b.CommitTime = setting.Value
		case "vcs.modified":
			b.Modified = setting.Value == "true"
		}
	}
	return b
}
