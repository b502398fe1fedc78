package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/prestaledger/lending-service/internal/domain"
)

// Seeds a handful of clients and loans for local development. Run against an
// empty database after the api service has auto-migrated the schema.
func main() {
	mysqlUser := getEnv("MYSQL_USER", "lending")
	mysqlPassword := getEnv("MYSQL_PASSWORD", "lending123")
	mysqlHost := getEnv("MYSQL_HOST", "localhost:3306")
	mysqlDatabase := getEnv("MYSQL_DATABASE", "lending")

	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		mysqlUser, mysqlPassword, mysqlHost, mysqlDatabase)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("Failed to connect to MySQL: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping MySQL: %v", err)
	}

	fmt.Println("Connected to MySQL successfully")

	seedClients := []struct {
		name       string
		nationalID string
		phone      string
	}{
		{"Ana Perez", "001-0001", "555-0101"},
		{"Luis Gomez", "001-0002", "555-0102"},
		{"Maria Santos", "001-0003", "555-0103"},
	}

	clientQuery := `
		INSERT INTO clients (id, name, national_id, phone, pin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	loanQuery := `
		INSERT INTO loans (id, client_id, principal, monthly_rate, duration_months,
			frequency, installment_count, installment_amount, total_payable,
			start_date, status, insurance, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now().AddDate(0, -1, 0)
	for i, c := range seedClients {
		client, err := domain.NewClient(c.name, c.nationalID, c.phone)
		if err != nil {
			log.Fatalf("Failed to build client %s: %v", c.name, err)
		}

		if _, err := db.Exec(clientQuery,
			client.ID, client.Name, client.NationalID, client.Phone, client.PIN,
			client.CreatedAt, client.UpdatedAt,
		); err != nil {
			log.Fatalf("Failed to insert client %s: %v", c.name, err)
		}

		principal := decimal.NewFromInt(int64(5000 * (i + 1)))
		loan, err := domain.NewLoan(client.ID, principal, decimal.NewFromInt(10), 3, domain.FrequencyMonthly, start, i%2 == 0)
		if err != nil {
			log.Fatalf("Failed to build loan for %s: %v", c.name, err)
		}

		if _, err := db.Exec(loanQuery,
			loan.ID, loan.ClientID, loan.Principal.StringFixed(2), loan.MonthlyRate.String(),
			loan.DurationMonths, string(loan.Frequency), loan.InstallmentCount,
			loan.InstallmentAmount.StringFixed(2), loan.TotalPayable.StringFixed(2),
			loan.StartDate, string(loan.Status), loan.Insurance, loan.Version,
			loan.CreatedAt, loan.UpdatedAt,
		); err != nil {
			log.Fatalf("Failed to insert loan for %s: %v", c.name, err)
		}

		fmt.Printf("Seeded client %s (pin %s) with loan %s\n", client.Name, client.PIN, loan.ID)
	}

	fmt.Println("Seeding complete")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
