// File: club/seed.go
package club

import (
	"badminton-club/fees"
	"badminton-club/models"
)

// Seed returns the built-in dataset used when no snapshot can be loaded:
// an admin, two monthly-fee members, one per-session member, one completed
// session with its unpaid payment and its shuttlecock expense.
func Seed() State {
	category := fees.ShuttlecockCategory
	return State{
		Users: []models.User{
			{ID: "1", Name: "Admin", Phone: "0123456789", Role: models.RoleAdmin, MonthlyFeePaid: true},
			{ID: "2", Name: "Nguyễn Văn A", Phone: "0987654321", Role: models.RoleMember, MonthlyFeePaid: true, MonthlyFeeAmount: models.Amount(50000)},
			{ID: "3", Name: "Trần Thị B", Phone: "0912345678", Role: models.RoleMember},
			{ID: "4", Name: "Lê Văn C", Phone: "0898765432", Role: models.RoleMember, MonthlyFeePaid: true, MonthlyFeeAmount: models.Amount(60000)},
		},
		Schedules: []models.Schedule{
			{
				ID:        "1",
				CourtName: "Sân ABC",
				Location:  "Quận 1, TP.HCM",
				PlayTime:  "19:00 - 21:00",
				PlayDate:  "2025-01-15",
				CreatedBy: "1",
				Votes: []models.Vote{
					{Attendee: models.Member("2", "Nguyễn Văn A"), Attending: true},
					{Attendee: models.Member("3", "Trần Thị B"), Attending: true},
				},
				Completed:       true,
				ShuttlecockInfo: &models.ShuttlecockInfo{Quantity: 10, PricePerShuttlecock: 15000, TotalCost: 150000},
			},
		},
		Payments: []models.Payment{
			{
				ID:         "1",
				UserID:     "3",
				UserName:   "Trần Thị B",
				Amount:     fees.SessionFee,
				Reason:     "Chưa đóng tiền - Sân ABC (15/01/2025)",
				ScheduleID: "1",
			},
		},
		Transactions: []models.Transaction{
			{
				ID:              "1",
				Type:            models.TransactionExpense,
				Amount:          150000,
				Description:     "Mua quả cầu cho buổi chơi ngày 15/01",
				PerformedBy:     "1",
				PerformedByName: "Admin",
				Date:            "2025-01-15",
				Category:        &category,
			},
		},
	}
}
