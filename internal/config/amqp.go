package config

import "github.com/spf13/viper"

// AMQPConfig configures publishing of reservation events. Publishing is off
// unless AMQP_ENABLED is set; Consumer additionally starts the in-process
// log consumer.
type AMQPConfig struct {
	Enabled  bool
	URL      string
	Queue    string
	Consumer bool
	LogDir   string
}

func loadAMQPConfig(v *viper.Viper) AMQPConfig {
	url := v.GetString("RABBITMQ_URL")
	if alt := v.GetString("AMQP_URL"); alt != "" && !v.IsSet("RABBITMQ_URL") {
		url = alt
	}
	return AMQPConfig{
		Enabled:  v.GetBool("AMQP_ENABLED"),
		URL:      url,
		Queue:    v.GetString("AMQP_QUEUE"),
		Consumer: v.GetBool("AMQP_CONSUMER"),
		LogDir:   v.GetString("AMQP_LOG_DIR"),
	}
}
