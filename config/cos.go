package config

// COSConfig 腾讯云 COS 配置，用于论文附件存储
type COSConfig struct {
	SecretID   string `mapstructure:"secretId" json:"secretId" yaml:"secretId"`
	SecretKey  string `mapstructure:"secretKey" json:"secretKey" yaml:"secretKey"`
	AppID      string `mapstructure:"appId" json:"appId" yaml:"appId"`
	BucketName string `mapstructure:"bucketName" json:"bucketName" yaml:"bucketName"`
	Region     string `mapstructure:"region" json:"region" yaml:"region"`
	// BaseURL 对象公开访问的基础 URL（CDN 或自定义域名），为空时使用存储桶默认域名
	BaseURL string `mapstructure:"baseUrl" json:"baseUrl" yaml:"baseUrl"`
}
