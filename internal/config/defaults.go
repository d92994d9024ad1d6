package config

const (
	defaultDataDir           = "~/.local/share/segstats"
	defaultLogDir            = "~/.local/share/segstats/logs"
	defaultAnimaConfigPath   = "~/.anima/config.txt"
	defaultEvalTimeout       = 600
	defaultReferenceContrast = "t2w"
	defaultChartFormat       = "png"
	defaultResultsPath       = "~/.local/share/segstats/results.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Anima: Anima{
			ConfigPath:  defaultAnimaConfigPath,
			EvalTimeout: defaultEvalTimeout,
		},
		Charts: Charts{
			ReferenceContrast: defaultReferenceContrast,
			Format:            defaultChartFormat,
		},
		Results: Results{
			Enabled: true,
			Path:    defaultResultsPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
