package util

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// VideoInfo 存储视频信息
type VideoInfo struct {
	Duration float64 `json:"duration"` // 视频时长（秒）
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Format   string  `json:"format"`
	Size     int64   `json:"size"`
}

// FFprobeAvailable 未安装 ffprobe 时跳过视频元数据探测
func FFprobeAvailable() bool {
	_, err := exec.LookPath("ffprobe")
	return err == nil
}

// GetVideoInfo 使用 ffmpeg-go 的 Probe 获取视频信息
func GetVideoInfo(videoPath string) (*VideoInfo, error) {
	fileInfo, err := os.Stat(videoPath)
	if err != nil {
		return nil, fmt.Errorf("stat video: %w", err)
	}

	jsonOutput, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return nil, fmt.Errorf("read video metadata: %w", err)
	}

	info, err := ParseVideoMetadata([]byte(jsonOutput))
	if err != nil {
		return nil, err
	}
	if info.Size == 0 {
		info.Size = fileInfo.Size()
	}
	return info, nil
}

// ParseVideoMetadata 解析 ffprobe -show_format -show_streams 的 JSON 输出
func ParseVideoMetadata(data []byte) (*VideoInfo, error) {
	var result struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
			Size     string `json:"size"`
			Format   string `json:"format_name"`
		} `json:"format"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode video metadata: %w", err)
	}

	info := &VideoInfo{Format: "unknown"}
	for _, stream := range result.Streams {
		if stream.CodecType == "video" {
			info.Width = stream.Width
			info.Height = stream.Height
			break
		}
	}

	info.Duration, _ = strconv.ParseFloat(result.Format.Duration, 64)
	info.Size, _ = strconv.ParseInt(result.Format.Size, 10, 64)

	if name, _, _ := strings.Cut(result.Format.Format, ","); name != "" {
		info.Format = name
	}
	return info, nil
}
