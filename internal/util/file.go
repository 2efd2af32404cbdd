package util

import (
	"io"
	"net/http"
	"strings"
)

// DetectMimeType 读取文件头嗅探 MIME 类型，并校验是否在允许列表中
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "image/", "video/", "application/pdf"
func DetectMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) {
			return mimeType, nil
		}
	}
	return mimeType, ErrInvalidFileType
}

func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeImage)
}

func IsVideo(mimeType string) bool {
	return strings.HasPrefix(mimeType, MimeVideo)
}
