package payroll

// DefaultPublicHolidays 南非公共假日（含补假日）
// 新年份通过配置 payroll.public_holidays_file 追加，无需改代码
func DefaultPublicHolidays() HolidayTable {
	return HolidayTable{
		2024: {
			{Date: "2024-01-01", Name: "New Year's Day"},
			{Date: "2024-03-21", Name: "Human Rights Day"},
			{Date: "2024-03-29", Name: "Good Friday"},
			{Date: "2024-04-01", Name: "Family Day"},
			{Date: "2024-04-27", Name: "Freedom Day"},
			{Date: "2024-05-01", Name: "Workers' Day"},
			{Date: "2024-06-16", Name: "Youth Day"},
			{Date: "2024-06-17", Name: "Youth Day observed"},
			{Date: "2024-08-09", Name: "National Women's Day"},
			{Date: "2024-09-24", Name: "Heritage Day"},
			{Date: "2024-12-16", Name: "Day of Reconciliation"},
			{Date: "2024-12-25", Name: "Christmas Day"},
			{Date: "2024-12-26", Name: "Day of Goodwill"},
		},
		2025: {
			{Date: "2025-01-01", Name: "New Year's Day"},
			{Date: "2025-03-21", Name: "Human Rights Day"},
			{Date: "2025-04-18", Name: "Good Friday"},
			{Date: "2025-04-21", Name: "Family Day"},
			{Date: "2025-04-27", Name: "Freedom Day"},
			{Date: "2025-04-28", Name: "Freedom Day observed"},
			{Date: "2025-05-01", Name: "Workers' Day"},
			{Date: "2025-06-16", Name: "Youth Day"},
			{Date: "2025-08-09", Name: "National Women's Day"},
			{Date: "2025-09-24", Name: "Heritage Day"},
			{Date: "2025-12-16", Name: "Day of Reconciliation"},
			{Date: "2025-12-25", Name: "Christmas Day"},
			{Date: "2025-12-26", Name: "Day of Goodwill"},
		},
		2026: {
			{Date: "2026-01-01", Name: "New Year's Day"},
			{Date: "2026-03-21", Name: "Human Rights Day"},
			{Date: "2026-04-03", Name: "Good Friday"},
			{Date: "2026-04-06", Name: "Family Day"},
			{Date: "2026-04-27", Name: "Freedom Day"},
			{Date: "2026-05-01", Name: "Workers' Day"},
			{Date: "2026-06-16", Name: "Youth Day"},
			{Date: "2026-08-09", Name: "National Women's Day"},
			{Date: "2026-08-10", Name: "National Women's Day observed"},
			{Date: "2026-09-24", Name: "Heritage Day"},
			{Date: "2026-12-16", Name: "Day of Reconciliation"},
			{Date: "2026-12-25", Name: "Christmas Day"},
			{Date: "2026-12-26", Name: "Day of Goodwill"},
		},
	}
}
