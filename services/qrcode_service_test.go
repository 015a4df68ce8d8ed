// file: services/qrcode_service_test.go
package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock encoder function (successful)
func mockQRCodeEncoderSuccess(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
	return []byte("mock_qr_code_data"), nil
}

// Mock encoder function (failure)
func mockQRCodeEncoderFailure(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
	return nil, errors.New("QR code generation failed")
}

// Test: Generate QR Code Successfully
func TestGenerateQRCode_Success(t *testing.T) {
	data, err := GenerateQRCode("https://club.example", "s1", 200, 200, mockQRCodeEncoderSuccess)

	assert.NoError(t, err)
	assert.Equal(t, "mock_qr_code_data", string(data))
}

// Test: the encoder receives the schedule link and the smaller dimension
func TestGenerateQRCode_EncodesScheduleLink(t *testing.T) {
	var gotContent string
	var gotSize int
	encoder := func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error) {
		gotContent, gotSize = content, size
		return []byte("ok"), nil
	}

	_, err := GenerateQRCode("https://club.example/", "s 1", 300, 200, encoder)
	require.NoError(t, err)
	assert.Equal(t, "https://club.example/schedules/s%201", gotContent)
	assert.Equal(t, 200, gotSize)
}

// Test: Fail QR Code Generation Due to Negative Dimensions
func TestGenerateQRCode_InvalidDimensions(t *testing.T) {
	data, err := GenerateQRCode("", "s1", -100, 200, mockQRCodeEncoderSuccess)

	assert.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, "invalid dimensions: width and height must be positive", err.Error())
}

// Test: QR Code Generation Fails Due to Encoder Error
func TestGenerateQRCode_EncoderFails(t *testing.T) {
	data, err := GenerateQRCode("", "s1", 200, 200, mockQRCodeEncoderFailure)

	assert.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, "QR code generation failed", err.Error())
}

// Test: the default encoder produces a PNG
func TestGenerateQRCode_DefaultEncoder(t *testing.T) {
	data, err := GenerateQRCode("", "s1", 128, 128, nil)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

// Test: missing schedule id is rejected
func TestGenerateQRCode_RequiresSchedule(t *testing.T) {
	_, err := GenerateQRCode("", " ", 128, 128, nil)
	assert.Error(t, err)
}

// Test: ScheduleLink falls back to the local address
func TestScheduleLink_Default(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/schedules/abc", ScheduleLink("", "abc"))
}
