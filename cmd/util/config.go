package util

import (
	"github.com/imdario/mergo"
	"github.com/lcls-users/btx-launch/config"
)

// MergeConfigFileWithFlags is a util used by commands that use flags to set
// launcher config values. These commands can also take in the path to a
// launcher config file. Flag values override values in the provided file.
func MergeConfigFileWithFlags(file string, flagConf config.Config) (config.Config, error) {
	conf := config.DefaultConfig()
	err := config.ParseFile(file, &conf)
	if err != nil {
		return conf, err
	}

	// file vals <- cli vals
	err = mergo.MergeWithOverwrite(&conf, flagConf)
	if err != nil {
		return conf, err
	}

	return conf, nil
}
