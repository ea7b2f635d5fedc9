package utility

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

// GenerateQRCodePNG renders the data string as a 256x256 PNG QR code
func GenerateQRCodePNG(data string) ([]byte, error) {
	qr, err := qrcode.New(data, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}

	pngBytes, err := qr.PNG(256)
	if err != nil {
		return nil, fmt.Errorf("failed to convert QR to PNG: %w", err)
	}

	return pngBytes, nil
}

// GenerateTicketQRData creates the data string for a ticket QR code.
// Format: TICKET|{ticket_id}|{event_id}, scannable at the venue entrance.
func GenerateTicketQRData(ticketID, eventID int64) string {
	return fmt.Sprintf("TICKET|%d|%d", ticketID, eventID)
}

// ParseTicketQRData parses QR data and extracts ticket ID and event ID
func ParseTicketQRData(qrData string) (ticketID, eventID int64, err error) {
	parts := strings.Split(qrData, "|")

	if len(parts) != 3 || parts[0] != "TICKET" {
		return 0, 0, errors.New("invalid QR data format")
	}

	ticketID, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, errors.New("invalid ticket ID in QR data")
	}

	eventID, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0, 0, errors.New("invalid event ID in QR data")
	}

	return ticketID, eventID, nil
}
