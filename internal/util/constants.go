package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// gin.Context 中的键
const (
	ContextUser   = "user"
	ContextConfig = "config"
)

// 分页默认值
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// 文件题允许上传的类型
const (
	MimeVideo = "video/"
	MimeImage = "image/"
	MimePDF   = "application/pdf"
)

var AllowedUploadTypes = []string{MimeImage, MimeVideo, MimePDF}
