package util

const (
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// gin 上下文键
const (
	PrincipalKey = "principal"
	RequestIDKey = "request_id"
)

// 文件上传相关常量
const (
	MimeImage = "image/"

	MaxImageSize  = 5 << 20
	AvatarSize    = 256
	OAuthStateTTL = 600 // 秒
)
