package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"companysite/internal/config"
	"companysite/internal/database"
	"companysite/internal/domain/auth"
	"companysite/internal/domain/catalog"
	"companysite/internal/domain/contact"
	"companysite/internal/domain/remoteaction"
	"companysite/internal/domain/staff"
	"companysite/internal/domain/task"
	"companysite/internal/logging"
	"companysite/internal/migrations"
	"companysite/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	db, err := database.Connect(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	if err := migrations.Run(ctx, db, logging.New(cfg.AppEnv, cfg.LogLevel)); err != nil {
		log.Fatal("migrate failed:", err)
	}

	// Cleanup old data (children first so foreign keys hold)
	log.Println("Cleaning old data...")
	for _, table := range []string{"time_logs", "tasks", "users", "employees", "services", "contacts", "admin_actions", "auth_logs"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	// ================== SERVICES ==================
	log.Println("Creating services...")
	services := []catalog.Service{
		{Title: "Managed IT", Description: "Round-the-clock monitoring and **patching** for your fleet.", Featured: true, SortOrder: 1},
		{Title: "Cloud migration", Description: "Move workloads to the cloud without downtime.\n\n- assessment\n- cut-over\n- handover", Featured: true, SortOrder: 2},
		{Title: "Device management", Description: "Enrol, secure and wipe laptops and phones remotely.", Featured: true, SortOrder: 3},
		{Title: "Custom software", Description: "Internal tools built around how your team works.", SortOrder: 4},
		{Title: "Security audit", Description: "A practical review of your exposure with a fix list.", SortOrder: 5},
	}
	for i := range services {
		services[i].IsActive = true
		must(db.Create(&services[i]).Error)
	}

	// ================== EMPLOYEES ==================
	log.Println("Creating employees...")
	employees := []staff.Employee{
		{Name: "Dana Smith", Position: "Lead engineer", SortOrder: 1},
		{Name: "Arman Bekov", Position: "Systems administrator", SortOrder: 2},
		{Name: "Lena Park", Position: "Developer", SortOrder: 3},
	}
	for i := range employees {
		employees[i].IsActive = true
		must(db.Create(&employees[i]).Error)
	}

	// ================== USERS ==================
	log.Println("Creating users...")
	hash, err := auth.HashPassword("employee123")
	must(err)
	for i := range employees {
		id := employees[i].ID
		u := auth.User{
			Username:     fmt.Sprintf("employee%d", i+1),
			PasswordHash: hash,
			Role:         session.RoleEmployee,
			IsActive:     true,
			EmployeeID:   &id,
		}
		must(db.Omit("Employee").Create(&u).Error)
		log.Printf("Employee account: %s / employee123", u.Username)
	}

	// ================== TASKS ==================
	log.Println("Creating tasks...")
	titles := []string{
		"Patch mail server", "Replace office switch", "Migrate file share",
		"Enrol new laptops", "Rotate VPN certificates", "Write onboarding guide",
		"Review backup reports", "Upgrade CRM", "Audit admin accounts",
	}
	now := time.Now().UTC()
	for i, title := range titles {
		empID := employees[i%len(employees)].ID
		due := now.AddDate(0, 0, 3+rand.Intn(14))
		t := task.Task{
			Title:      title,
			EmployeeID: &empID,
			Status:     task.Statuses[i%len(task.Statuses)],
			Priority:   task.Priorities[rand.Intn(len(task.Priorities))],
			DueDate:    &due,
		}
		must(db.Omit("Employee").Create(&t).Error)

		// a week of activity for the chart
		if t.Status == task.StatusInProgress || t.Status == task.StatusDone {
			started := now.AddDate(0, 0, -rand.Intn(6)-1)
			must(db.Create(&task.TimeLog{EmployeeID: empID, TaskID: t.ID, Action: task.ActionStart, CreatedAt: started}).Error)
			if t.Status == task.StatusDone {
				must(db.Create(&task.TimeLog{EmployeeID: empID, TaskID: t.ID, Action: task.ActionComplete, CreatedAt: started.Add(5 * time.Hour)}).Error)
			}
		}
	}

	// ================== CONTACTS & ACTIONS ==================
	must(db.Create(&contact.Contact{Name: "Aigerim", Email: "aigerim@example.com", Message: "Could you quote a cloud migration?"}).Error)
	must(db.Create(&remoteaction.AdminAction{
		Actor:     remoteaction.ActorAdmin,
		Tool:      remoteaction.ToolMDM,
		Action:    "lock",
		DeviceID:  "LAPTOP-042",
		Status:    remoteaction.StatusInitiated,
		Metadata:  []byte("{}"),
		StartedAt: now,
	}).Error)

	log.Println("Seed completed.")
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
