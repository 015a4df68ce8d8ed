// File: fees/format.go
package fees

import (
	"fmt"

	"badminton-club/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Vietnamese)

// FormatNumber groups digits the Vietnamese way, e.g. 15.000.
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatVND renders an amount with the dong sign, e.g. 15.000đ.
func FormatVND(n int64) string {
	return FormatNumber(n) + "đ"
}

// FormatDate renders d as a vi-VN short date, e.g. 15/1/2025.
func FormatDate(d models.Date) string {
	t := d.Time()
	if t.IsZero() {
		return string(d)
	}
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// MemberReason describes a per-session fee owed by a member.
func MemberReason(s models.Schedule) string {
	return fmt.Sprintf("Chưa đóng quỹ tháng - %s (%s)", s.CourtName, FormatDate(s.PlayDate))
}

// GuestReason describes the fee owed by a guest.
func GuestReason(s models.Schedule) string {
	return fmt.Sprintf("Phí chơi khách vãng lai - %s (%s)", s.CourtName, FormatDate(s.PlayDate))
}

// ShuttlecockDescription describes the equipment expense of a completed session.
func ShuttlecockDescription(s models.Schedule, quantity, price int64) string {
	return fmt.Sprintf("Mua quả cầu cho %s - %s (%d quả x %s)",
		s.CourtName, FormatDate(s.PlayDate), quantity, FormatVND(price))
}
