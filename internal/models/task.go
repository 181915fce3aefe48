package models

import "time"

type TaskStatus string

const (
	TaskWaiting  TaskStatus = "Waiting"
	TaskPending  TaskStatus = "Pending"
	TaskApproved TaskStatus = "Approved"
	TaskComplete TaskStatus = "Complete"
)

type Task struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Name        string     `bson:"name" json:"name"`
	Slug        string     `bson:"slug" json:"slug"`
	Description string     `bson:"description" json:"description"`
	Budget      float64    `bson:"budget" json:"budget"`
	StartDate   *time.Time `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Status      TaskStatus `bson:"status" json:"status"`
	Members     []string   `bson:"members" json:"members"`
	CreatedBy   string     `bson:"created_by" json:"createdBy"`
	Files       []File     `bson:"files" json:"files"`
	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updatedAt"`
}
