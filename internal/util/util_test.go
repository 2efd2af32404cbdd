package util

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sapaa_backend/internal/model"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "a@example.com", Role: model.Steward}
	user.ID = 42

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Steward, claims.Role)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	expired, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)
}

func TestParsePage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query               string
		page, limit, offset int
	}{
		{"", 1, DefaultLimit, 0},
		{"page=3&limit=10", 3, 10, 20},
		{"page=0&limit=-1", 1, DefaultLimit, 0},
		{"limit=1000", 1, MaxLimit, 0},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		page, limit, offset := ParsePage(c)
		assert.Equal(t, []int{tc.page, tc.limit, tc.offset}, []int{page, limit, offset}, tc.query)
	}
}

func TestDetectMimeType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	mime, err := DetectMimeType(bytes.NewReader(png), AllowedUploadTypes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.True(t, IsImage(mime))

	_, err = DetectMimeType(bytes.NewReader([]byte("#!/bin/sh\necho hi")), AllowedUploadTypes)
	assert.ErrorIs(t, err, ErrInvalidFileType)
}

func TestParseVideoMetadata(t *testing.T) {
	out := []byte(`{
		"streams": [{"codec_type": "audio"}, {"codec_type": "video", "width": 1920, "height": 1080}],
		"format": {"duration": "12.5", "size": "2048", "format_name": "mov,mp4,m4a"}
	}`)
	info, err := ParseVideoMetadata(out)
	require.NoError(t, err)
	assert.Equal(t, &VideoInfo{Duration: 12.5, Width: 1920, Height: 1080, Format: "mov", Size: 2048}, info)

	_, err = ParseVideoMetadata([]byte("not json"))
	assert.Error(t, err)
}
