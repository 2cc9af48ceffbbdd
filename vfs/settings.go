package vfs

import "github.com/spf13/viper"

// boolSetting reads a configuration toggle, falling back to the backend's
// built-in default when the key was never configured (library use without
// config.Setup).
func boolSetting(key string, fallback bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return fallback
}
