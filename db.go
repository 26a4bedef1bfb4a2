package main

import (
	"log"
	"os"
	"strings"

	"ecosaarthi/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// roleCatalog is the fixed profession catalog. Seeded idempotently at migrate
// time; signup rejects any role outside it.
var roleCatalog = []models.Role{
	{Name: "student", Title: "Student / New Graduate",
		Skills: "communication,teamwork,microsoft office,research,problem solving"},
	{Name: "data analyst", Title: "Data Analyst",
		Skills: "sql,excel,power bi,tableau,data analysis,statistics,quantitative analysis,ssrs"},
	{Name: "economist", Title: "Economist",
		Skills: "statistics,econometrics,stata,r,macroeconomics,microeconomics,excel,quantitative analysis,research"},
	{Name: "software developer", Title: "Software Developer",
		Skills: "javascript,python,git,sql,react,node.js,html,css,aws,docker,ci/cd,agile"},
	{Name: "accountant", Title: "Accountant",
		Skills: "bookkeeping,excel,quickbooks,financial reporting,gaap,auditing,sap,erp,financial modeling"},
	{Name: "product manager", Title: "Product Manager",
		Skills: "agile,scrum,jira,product roadmap,market research,user stories,confluence"},
}

func initDB() {
	var err error
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := strings.ToLower(os.Getenv("DB_AUTO_MIGRATE")); v == "false" || v == "0" || v == "no" {
		shouldMigrate = false
	}
	if shouldMigrate {
		// Roles first so the seeded catalog exists before any signup.
		if err := db.AutoMigrate(&models.Role{}); err != nil {
			log.Printf("migration warning (roles): %v", err)
		}
		if err := db.AutoMigrate(&models.User{}); err != nil {
			log.Printf("migration warning (users): %v", err)
		}
		if err := db.AutoMigrate(&models.ChatMessage{}); err != nil {
			log.Printf("migration warning (chat_messages): %v", err)
		}
		if err := db.AutoMigrate(&models.RefreshToken{}); err != nil {
			log.Printf("migration warning (refresh_tokens): %v", err)
		}
	}
	seedDB()
}

func seedDB() {
	for _, r := range roleCatalog {
		var cnt int64
		db.Model(&models.Role{}).Where("name = ?", r.Name).Count(&cnt)
		if cnt == 0 {
			db.Create(&r)
		}
	}
	ensureUploadBase()
}

// lookupRole fetches a profession catalog entry by its key.
func lookupRole(name string) (*models.Role, bool) {
	var role models.Role
	if err := db.Where("name = ?", name).First(&role).Error; err != nil {
		return nil, false
	}
	return &role, true
}

// recentChatMessages returns up to limit most recent messages in chronological
// order.
func recentChatMessages(limit int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	if err := db.Order("id desc").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// ensureUploadBase creates the base uploads directory.
func ensureUploadBase() {
	if err := os.MkdirAll(uploadBaseDir(), 0755); err != nil {
		log.Printf("failed to create upload base dir %s: %v", uploadBaseDir(), err)
	}
}

// uploadBaseDir returns the base directory for stored photos (configurable via
// UPLOAD_BASE env).
func uploadBaseDir() string {
	if v := os.Getenv("UPLOAD_BASE"); v != "" {
		return v
	}
	return "uploads"
}
