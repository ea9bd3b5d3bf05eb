package main

import (
	"fmt"
	"log"

	"github.com/Vjc5h3nt/EaseSpace/models"
	"github.com/Vjc5h3nt/EaseSpace/storage"
)

// Seeds a demo organization with one cafeteria and two meeting rooms so the
// dashboard has something to show on a fresh database.
func main() {
	db := storage.InitializeDB()

	org := models.Organization{Name: "Demo Workspace"}
	if err := db.Where(models.Organization{Name: org.Name}).FirstOrCreate(&org).Error; err != nil {
		log.Fatalf("Error creating demo organization: %v", err)
	}

	cafeteria := models.Cafeteria{OrgID: org.ID, Name: "Main Canteen"}
	layout := make([]models.TableLayout, 0, 6)
	for i := 0; i < 6; i++ {
		layout = append(layout, models.TableLayout{
			ID: fmt.Sprintf("table-%d", i+1),
			X:  80 + (i%3)*160,
			Y:  80 + (i/3)*160,
		})
	}
	if err := cafeteria.SetLayout(layout); err != nil {
		log.Fatalf("Error building cafeteria layout: %v", err)
	}
	if err := db.Where(models.Cafeteria{OrgID: org.ID, Name: cafeteria.Name}).FirstOrCreate(&cafeteria).Error; err != nil {
		log.Fatalf("Error creating demo cafeteria: %v", err)
	}

	rooms := []models.MeetingRoom{
		{OrgID: org.ID, Name: "Room A", Capacity: 8, Floor: 2, Location: "Tower A"},
		{OrgID: org.ID, Name: "Room B", Capacity: 14, Floor: 3, Location: "Tower B"},
	}
	for _, room := range rooms {
		if err := db.Where(models.MeetingRoom{OrgID: org.ID, Name: room.Name}).FirstOrCreate(&room).Error; err != nil {
			log.Fatalf("Error creating meeting room %s: %v", room.Name, err)
		}
	}

	fmt.Println("Demo organization seeded successfully!")
}
