// conf/consts.go hard coded constants
package conf

// DefaultConfigFileName is the base name (without extension) Viper looks
// for among GetDefaultConfigPaths.
const DefaultConfigFileName = "config"
