package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaKindFromContentType(t *testing.T) {
	assert.Equal(t, MediaKindVideo, MediaKindFromContentType("video/mp4"))
	assert.Equal(t, MediaKindVideo, MediaKindFromContentType("video/webm"))
	assert.Equal(t, MediaKindImage, MediaKindFromContentType("image/png"))
	assert.Equal(t, MediaKindImage, MediaKindFromContentType("application/pdf"))
	assert.Equal(t, MediaKindImage, MediaKindFromContentType(""))
}

func TestValidInquiryStatus(t *testing.T) {
	for _, s := range InquiryStatuses {
		assert.True(t, ValidInquiryStatus(s))
	}
	assert.False(t, ValidInquiryStatus("new"))
	assert.False(t, ValidInquiryStatus("Archived"))
	assert.False(t, ValidInquiryStatus(""))
}
