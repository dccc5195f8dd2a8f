package main

import (
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"gorm.io/gorm"

	"github.com/transitlabs/metrodocs/internal/config"
	"github.com/transitlabs/metrodocs/internal/database"
	"github.com/transitlabs/metrodocs/internal/models"
)

var departments = []string{
	"Operations", "Engineering", "Procurement", "Safety & Security",
	"HR", "Finance", "Planning", "IT",
}

var docTypes = []string{
	"Safety Bulletin", "Financial Report", "Regulatory Document",
	"Training Document", "Maintenance Report", "Technical Specification",
}

var priorities = []string{models.PriorityHigh, models.PriorityMedium, models.PriorityLow}

func main() {
	gofakeit.Seed(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config: ", err)
	}

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	fmt.Println("✓ Database migrated successfully")

	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		log.Fatal("count users: ", err)
	}
	if userCount > 0 {
		fmt.Println("Database already seeded, skipping...")
		return
	}

	seedUsers(db)
	seedDocuments(db)
	seedCompliance(db)

	fmt.Println("✓ Database seeded successfully")
}

func seedUsers(db *gorm.DB) {
	users := []struct {
		username, email, role, department string
	}{
		{"admin", "admin@metrodocs.local", "admin", "IT"},
		{"safety_officer", "safety@metrodocs.local", "user", "Safety & Security"},
		{"engineer", "engineer@metrodocs.local", "user", "Engineering"},
		{"procurement", "procurement@metrodocs.local", "user", "Procurement"},
	}

	for _, u := range users {
		user := models.User{
			Username:   u.username,
			Email:      u.email,
			Role:       u.role,
			Department: u.department,
		}
		if err := user.SetPassword(gofakeit.Password(true, true, true, true, false, 16)); err != nil {
			log.Fatal("hash seed password: ", err)
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatal("seed user: ", err)
		}
		fmt.Printf("✓ Created user %s\n", u.username)
	}
}

func seedDocuments(db *gorm.DB) {
	fixtures := []models.Document{
		{
			Title: "Safety Protocol Update", Summary: "Updated safety protocols for platform maintenance",
			Department: "Operations", Type: "Safety Bulletin", Author: "Chief Safety Officer",
			Priority: models.PriorityHigh, Status: models.StatusActive, Confidence: 95,
		},
		{
			Title: "Vendor Invoice - SKF Bearings", Summary: "Invoice for Q1 bearing replacements",
			Department: "Procurement", Type: "Financial Report", Author: "Procurement Manager",
			Priority: models.PriorityMedium, Status: "Under Review", Confidence: 88,
		},
		{
			Title: "Environmental Impact Assessment", Summary: "Phase 2 corridor extension environmental clearance",
			Department: "Planning", Type: "Regulatory Document", Author: "Environmental Officer",
			Priority: models.PriorityHigh, Status: "Action Required", Confidence: 92,
		},
		{
			Title: "Training Schedule Updates", Summary: "Revised operator certification schedule",
			Department: "HR", Type: "Training Document", Author: "Training Coordinator",
			Priority: models.PriorityLow, Status: "Draft", Confidence: 78,
		},
		{
			Title: "Rolling Stock Maintenance Report", Summary: "Monthly rolling stock maintenance report",
			Department: "Engineering", Type: "Maintenance Report", Author: "Chief Engineer",
			Priority: models.PriorityMedium, Status: models.StatusComplete, Confidence: 91,
		},
	}
	tags := [][]string{
		{"safety", "maintenance", "platform"},
		{"procurement", "invoice", "bearings"},
		{"environment", "compliance", "phase-2"},
		{"training", "hr", "schedule"},
		{"maintenance", "rolling-stock", "engineering"},
	}
	for i := range fixtures {
		fixtures[i].SetTags(tags[i])
		if err := db.Create(&fixtures[i]).Error; err != nil {
			log.Fatal("seed document: ", err)
		}
	}

	// Bulk synthetic history so trends and pagination have something to show.
	for i := 0; i < 60; i++ {
		doc := models.Document{
			Title:      gofakeit.Sentence(4),
			Summary:    gofakeit.Sentence(12),
			Content:    gofakeit.Paragraph(2, 4, 10, " "),
			Department: departments[gofakeit.Number(0, len(departments)-1)],
			Type:       docTypes[gofakeit.Number(0, len(docTypes)-1)],
			Author:     gofakeit.Name(),
			Priority:   priorities[gofakeit.Number(0, len(priorities)-1)],
			Status:     models.StatusActive,
			Language:   "English",
			Confidence: float64(gofakeit.Number(70, 99)),
			UploadDate: gofakeit.DateRange(time.Now().AddDate(0, -5, 0), time.Now()),
		}
		doc.SetTags([]string{gofakeit.Word(), gofakeit.Word()})
		if err := db.Create(&doc).Error; err != nil {
			log.Fatal("seed synthetic document: ", err)
		}
	}
	fmt.Println("✓ Seeded documents")
}

func seedCompliance(db *gorm.DB) {
	now := time.Now()
	items := []models.ComplianceItem{
		{
			Title:       "CMRS Annual Safety Inspection",
			Description: "Annual comprehensive safety inspection covering rolling stock, infrastructure, and operational procedures.",
			Authority:   "Commissioner of Metro Rail Safety",
			DueDate:     now.AddDate(0, 1, 0), Status: models.ComplianceStatusUrgent,
			Progress: 65, AssignedTo: "Safety Team", DocumentsCount: 12,
		},
		{
			Title:       "Environmental Impact Assessment Update",
			Description: "Environmental compliance update for Phase 2 corridor extension project.",
			Authority:   "Ministry of Environment",
			DueDate:     now.AddDate(0, 2, 0), Status: models.ComplianceStatusWarning,
			Progress: 40, AssignedTo: "Environmental Team", DocumentsCount: 8,
		},
		{
			Title:       "Fire Safety Certificate Renewal",
			Description: "Annual fire safety certificate renewal for all stations and depot facilities.",
			Authority:   "Fire & Rescue Services",
			DueDate:     now.AddDate(0, 3, 0), Status: models.ComplianceStatusNormal,
			Progress: 25, AssignedTo: "Safety & Security", DocumentsCount: 5,
		},
		{
			Title:       "Financial Audit Compliance",
			Description: "Annual financial audit preparation and compliance documentation submission.",
			Authority:   "Comptroller & Auditor General",
			DueDate:     now.AddDate(0, 4, 0), Status: models.ComplianceStatusNormal,
			Progress: 15, AssignedTo: "Finance Team", DocumentsCount: 23,
		},
		{
			Title:       "Accessibility Standards Review",
			Description: "Compliance review for accessibility standards across all metro stations and facilities.",
			Authority:   "Central Government",
			DueDate:     now.AddDate(0, 5, 0), Status: models.ComplianceStatusNormal,
			Progress: 10, AssignedTo: "Operations Team", DocumentsCount: 7,
		},
	}

	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			log.Fatal("seed compliance item: ", err)
		}
	}
	fmt.Println("✓ Seeded compliance items")
}
