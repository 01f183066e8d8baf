package installer

import (
	"github.com/sandevgo/deskpilot/internal/config"
)

type InstallState struct {
	Settings config.Settings
	EnvPath  string
}

func NewInstallState(envPath string) *InstallState {
	return &InstallState{
		Settings: config.Settings{
			ControlTimeout: config.DefaultControlTimeout,
			OllamaBaseURL:  config.DefaultOllamaBaseURL,
		},
		EnvPath: envPath,
	}
}
