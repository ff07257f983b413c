package attendance

// Summary aggregates one employee's attendance over a cutoff window.
// The payroll core reads it; attendance capture is owned elsewhere.
type Summary struct {
	EmployeeID       string
	PresentDays      int
	AbsentDays       int
	TardinessMinutes int
	UndertimeMinutes int
}
