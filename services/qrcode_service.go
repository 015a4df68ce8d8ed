// services/qrcode_service.go
package services

import (
	"errors"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// QREncoder renders content as a PNG QR code.
type QREncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// ScheduleLink returns the page URL members open to vote on a schedule.
func ScheduleLink(applicationURL, scheduleID string) string {
	base := strings.TrimRight(applicationURL, "/")
	if base == "" {
		base = "http://localhost:8080" // Default for local testing
	}
	return base + "/schedules/" + url.PathEscape(scheduleID)
}

// GenerateQRCode creates a QR code for the schedule link at the given dimensions.
// A nil encoder uses go-qrcode.
func GenerateQRCode(applicationURL, scheduleID string, width, height int, encode QREncoder) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("invalid dimensions: width and height must be positive")
	}
	if strings.TrimSpace(scheduleID) == "" {
		return nil, errors.New("schedule id is required")
	}
	if encode == nil {
		encode = qrcode.Encode
	}

	size := width
	if height < size {
		size = height
	}
	png, err := encode(ScheduleLink(applicationURL, scheduleID), qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	return png, nil
}
