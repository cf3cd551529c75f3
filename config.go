package episim

import (
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _episimconfig{}
)

// _episimconfig is a "hidden" struct, just use `episimConfig`
type _episimconfig struct {
	outputDir string
}

// episimConfig returns the episim configuration. The configuration is
// optional: if the EPISIM_CONFIG environment variable points to a directory
// with a conf.toml, its general.output_path is used for exports; otherwise
// everything defaults to the working directory so the library runs
// configuration-free.
func episimConfig() _episimconfig {
	if cfgLoaded {
		return config
	}
	config = _episimconfig{outputDir: "."}
	if confPath := os.Getenv("EPISIM_CONFIG"); confPath != "" {
		viper.SetConfigName("conf")
		viper.AddConfigPath(confPath)
		if err := viper.ReadInConfig(); err == nil {
			if outputDir := viper.GetString("general.output_path"); outputDir != "" {
				config.outputDir = outputDir
			}
		}
	}
	cfgLoaded = true
	return config
}
