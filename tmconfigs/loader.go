package tmconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/rectm/cmds"
	"github.com/reusee/rectm/configs"
	"github.com/reusee/rectm/logs"
)

//go:embed schema.cue
var schema string

var configFileFlag = cmds.Var[string]("-config")

func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {

	var paths []string
	defer func() {
		if len(paths) > 0 {
			logger.Debug("config file",
				"paths", paths,
			)
		}
	}()

	// explicit
	if *configFileFlag != "" {
		paths = append(paths, *configFileFlag)
		return configs.NewLoader(paths, schema)
	}

	filenames := []string{
		"rectm.cue",
		".rectm.cue",
	}

	// working directory
	if workingDir, err := os.Getwd(); err == nil {
		paths = append(paths, existing(workingDir, filenames)...)
	}

	// user config dir
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, existing(configDir, filenames)...)
	}

	// system wide dir
	paths = append(paths, existing("/etc", filenames)...)

	return configs.NewLoader(paths, schema)
}

func existing(dir string, filenames []string) (ret []string) {
	for _, filename := range filenames {
		path := filepath.Join(dir, filename)
		if _, err := os.Stat(path); err == nil {
			ret = append(ret, path)
		}
	}
	return
}
