package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	ReviewRequested string `mapstructure:"reviewRequested" yaml:"reviewRequested"` //  送审主题，评审引擎消费
	ReviewCompleted string `mapstructure:"reviewCompleted" yaml:"reviewCompleted"` //  评审完成回调主题
	ReviewFailed    string `mapstructure:"reviewFailed" yaml:"reviewFailed"`       //  评审失败回调主题
}
