// conf/defaults.go default values for settings
package conf

import "github.com/spf13/viper"

// setDefaultConfig sets default values for every configuration key before
// the config file and environment overrides are applied.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main
	viper.SetDefault("main.name", "cwtonequeue")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/cwtonequeue.log")
	viper.SetDefault("main.log.rotation", string(RotationDaily))
	viper.SetDefault("main.log.maxsize", int64(10*1024*1024))
	viper.SetDefault("main.log.rotationday", 0)

	// Tone queue
	viper.SetDefault("tonequeue.capacity", 64)
	viper.SetDefault("tonequeue.highwatermark", 56)
	viper.SetDefault("tonequeue.lowwatermark", 8)
	viper.SetDefault("tonequeue.freqmin", 0)
	viper.SetDefault("tonequeue.freqmax", 4000)

	// Key sink
	viper.SetDefault("keysink.mqtt.enabled", false)
	viper.SetDefault("keysink.mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("keysink.mqtt.topic", "cwtonequeue/key")
	viper.SetDefault("keysink.mqtt.username", "")
	viper.SetDefault("keysink.mqtt.password", "")

	// HTTP introspection server
	viper.SetDefault("httpserver.enabled", true)
	viper.SetDefault("httpserver.listen", ":8080")

	// Metrics
	viper.SetDefault("metrics.enabled", true)
}
