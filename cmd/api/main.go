package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/payrollhq/payroll-backend-go/internal/config"
	appHTTP "github.com/payrollhq/payroll-backend-go/internal/handler/http"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/audit"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/database"
	"github.com/payrollhq/payroll-backend-go/internal/pkg/jwt"
	"github.com/payrollhq/payroll-backend-go/internal/repository/postgresql"
	leaveService "github.com/payrollhq/payroll-backend-go/internal/service/leave"
	ledgerService "github.com/payrollhq/payroll-backend-go/internal/service/ledger"
	overtimeService "github.com/payrollhq/payroll-backend-go/internal/service/overtime"
	payrollService "github.com/payrollhq/payroll-backend-go/internal/service/payroll"
	periodService "github.com/payrollhq/payroll-backend-go/internal/service/period"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceSummaryRepository(db)
	payPeriodRepo := postgresql.NewPayPeriodRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	balanceTransactionRepo := postgresql.NewBalanceTransactionRepository(db)
	overtimeRequestRepo := postgresql.NewOvertimeRequestRepository(db)
	payrollRunRepo := postgresql.NewPayrollRunRepository(db)
	payrollStepRepo := postgresql.NewPayrollStepRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	payrollSettingsRepo := postgresql.NewPayrollSettingsRepository(db)
	payrollComponentRepo := postgresql.NewPayrollComponentRepository(db)
	statutoryRepo := postgresql.NewStatutoryRepository(db)

	recorder := audit.NewSlogRecorder(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	ledgerSvc := ledgerService.NewService(
		leaveBalanceRepo,
		balanceTransactionRepo,
		employeeRepo,
		leaveTypeRepo,
		payrollSettingsRepo,
	)
	leaveSvc := leaveService.NewRequestService(db, leaveTypeRepo, leaveRequestRepo, employeeRepo, ledgerSvc, recorder)
	overtimeSvc := overtimeService.NewRequestService(db, overtimeRequestRepo, employeeRepo, ledgerSvc, recorder)
	periodSvc := periodService.NewService(payPeriodRepo)
	pipelineSvc := payrollService.NewPipelineService(
		db,
		payrollRunRepo,
		payrollStepRepo,
		payslipRepo,
		payrollSettingsRepo,
		payrollComponentRepo,
		statutoryRepo,
		payPeriodRepo,
		employeeRepo,
		attendanceRepo,
		leaveRequestRepo,
		overtimeRequestRepo,
		recorder,
	)
	settingsSvc := payrollService.NewSettingsService(payrollSettingsRepo, payrollComponentRepo, leaveTypeRepo)

	payPeriodHandler := appHTTP.NewPayPeriodHandler(periodSvc)
	payrollHandler := appHTTP.NewPayrollHandler(pipelineSvc, settingsSvc)
	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc)
	overtimeHandler := appHTTP.NewOvertimeHandler(overtimeSvc)
	ledgerHandler := appHTTP.NewLedgerHandler(ledgerSvc)

	router := appHTTP.NewRouter(
		JWTService,
		payPeriodHandler,
		payrollHandler,
		leaveHandler,
		overtimeHandler,
		ledgerHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
